package auth

import "time"

// Config holds the authentication subsystem configuration.
// TokenTTL bounds both the JWT expiry and the session cookie lifetime so
// the cookie never outlives the token it carries.
type Config struct {
	TokenSecret    string        `env:"AUTH_TOKEN_SECRET,required"`
	TokenTTL       time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"1h"`
	CookieName     string        `env:"AUTH_COOKIE_NAME" envDefault:"token"`
	CookieSecure   bool          `env:"AUTH_COOKIE_SECURE" envDefault:"true"`
	BcryptCost     int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	FrontendOrigin string        `env:"AUTH_FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`
}
