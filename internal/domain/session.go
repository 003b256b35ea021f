package domain

// Session holds the token pair for an authenticated storefront session.
// The access token is replaced in place on refresh; the whole session is
// destroyed on logout or on an irrecoverable refresh failure.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
