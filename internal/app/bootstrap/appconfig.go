// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging); AppConfig is everything
// specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Database operation timeouts, applied via the timeouts package
	DBPingTimeout   time.Duration
	DBShortTimeout  time.Duration
	DBMediumTimeout time.Duration
	DBLongTimeout   time.Duration

	// Token signing configuration
	JWTSecret string        // HMAC signing key; must be 32+ bytes
	JWTIssuer string        // Issuer claim stamped into tokens
	JWTExpiry time.Duration // Token lifetime

	// Password hashing cost for minted credentials
	BcryptCost int

	// Bootstrap admin seeded on startup when set
	AdminUsername string
	AdminPassword string
}
