package common

const (
	// AuthorizationHeaderName is the request header carrying the bearer
	// access token.
	AuthorizationHeaderName = "Authorization"

	// RefreshTokenCookieName is the httpOnly cookie holding the refresh token.
	RefreshTokenCookieName = "refreshToken"
)
