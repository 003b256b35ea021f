package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"storefront-client/internal/api"
	"storefront-client/internal/cart"
	"storefront-client/internal/config"
	"storefront-client/internal/domain"
	"storefront-client/internal/session"
	"storefront-client/internal/storage"
)

const usage = `usage: storefront <command> [args]

commands:
  products                 list the catalog
  signup <email> <pass>    create an account
  login <email> <pass>     log in and reconcile the local cart
  logout                   log out and drop the session
  me                       show the logged-in customer
  cart                     show the cart
  add <product-id> [n]     add n of a product (default 1)
  set <product-id> <n>     set a line quantity
  remove <product-id>      remove a line
  clear                    empty the cart
  checkout                 place an order from the cart
  orders                   list past orders
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[storefront] ", log.LstdFlags|log.LUTC)

	kv, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		logger.Fatalf("open state dir: %v", err)
	}

	sessions := session.NewStore(kv)
	client := api.New(cfg.APIBaseURL, sessions, logger)
	client.OnSessionEnd(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	engine := cart.New(kv, client, sessions, logger)
	if sessions.Authenticated() {
		// Best effort. Offline runs still work against the local copy.
		if err := engine.SyncFromRemote(context.Background()); err != nil {
			logger.Printf("sync cart: %v", err)
		}
	}

	ctx := context.Background()
	if err := run(ctx, args, client, engine); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			os.Exit(1)
		}
		logger.Fatalf("%s: %v", args[0], err)
	}
}

func run(ctx context.Context, args []string, client *api.Client, engine *cart.Engine) error {
	switch cmd := args[0]; cmd {
	case "products":
		products, err := client.Products(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, cents(p.PriceCents, p.Currency), p.Stock)
		}
		return w.Flush()

	case "signup":
		if len(args) < 3 {
			return errors.New("usage: signup <email> <password>")
		}
		cust, err := client.Signup(ctx, api.SignupInput{Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("created account %s\n", cust.Email)
		return nil

	case "login":
		if len(args) < 3 {
			return errors.New("usage: login <email> <password>")
		}
		cust, err := client.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		if err := engine.Reconcile(ctx); err != nil {
			return fmt.Errorf("reconcile cart: %w", err)
		}
		fmt.Printf("logged in as %s, cart has %d item(s)\n", cust.Email, engine.Count())
		return nil

	case "logout":
		if err := client.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "me":
		cust, err := client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s <%s>\n", cust.FirstName, cust.LastName, cust.Email)
		return nil

	case "cart":
		printLines(engine.Items())
		return nil

	case "add":
		if len(args) < 2 {
			return errors.New("usage: add <product-id> [quantity]")
		}
		qty := 1
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("bad quantity %q", args[2])
			}
			qty = n
		}
		line, err := engine.AddItem(ctx, args[1], qty)
		if err != nil {
			return err
		}
		fmt.Printf("cart now holds %d of %s\n", line.Quantity, line.ProductID)
		return nil

	case "set":
		if len(args) < 3 {
			return errors.New("usage: set <product-id> <quantity>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad quantity %q", args[2])
		}
		if err := engine.UpdateQuantity(ctx, args[1], qty); err != nil {
			return err
		}
		printLines(engine.Items())
		return nil

	case "remove":
		if len(args) < 2 {
			return errors.New("usage: remove <product-id>")
		}
		if err := engine.RemoveItem(ctx, args[1]); err != nil {
			return err
		}
		printLines(engine.Items())
		return nil

	case "clear":
		if err := engine.ClearCart(ctx); err != nil {
			return err
		}
		fmt.Println("cart cleared")
		return nil

	case "checkout":
		order, err := engine.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed, total %s\n", order.ID, cents(order.TotalCents, order.Currency))
		return nil

	case "orders":
		orders, err := client.Orders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Printf("%s  %s  %d item(s)  %s\n", o.CreatedAt.Format("2006-01-02 15:04"), o.ID, len(o.Lines), cents(o.TotalCents, o.Currency))
		}
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printLines(lines []domain.CartLine) {
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tQTY\tUNIT PRICE")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%d\t%d\n", l.ProductID, l.Quantity, l.UnitPriceCents)
	}
	w.Flush()
}

func cents(v int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", v/100, v%100, currency)
}
