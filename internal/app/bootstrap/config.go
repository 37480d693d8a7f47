// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/kinhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for KinHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: KINHUB_MONGO_URI, KINHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "kinhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Database operation timeouts
	{Name: "db_ping_timeout", Default: "2s", Desc: "Timeout for connectivity pings"},
	{Name: "db_short_timeout", Default: "5s", Desc: "Timeout for single-document reads"},
	{Name: "db_medium_timeout", Default: "10s", Desc: "Timeout for list queries and moderate writes"},
	{Name: "db_long_timeout", Default: "30s", Desc: "Timeout for index builds and multi-collection operations"},

	// Token signing
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "jwt_issuer", Default: "kinhub", Desc: "Issuer claim for signed tokens"},
	{Name: "jwt_expiry", Default: "24h", Desc: "Token lifetime (e.g., 24h, 8h, 30m)"},

	// Password hashing
	{Name: "bcrypt_cost", Default: 10, Desc: "bcrypt cost for minted credentials"},

	// Bootstrap admin (created or promoted on startup when set)
	{Name: "admin_username", Default: "", Desc: "Username/email of the bootstrap admin"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrap admin (only used when creating)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, KINHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KINHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		DBPingTimeout:   appValues.Duration("db_ping_timeout", timeouts.DefaultPing),
		DBShortTimeout:  appValues.Duration("db_short_timeout", timeouts.DefaultShort),
		DBMediumTimeout: appValues.Duration("db_medium_timeout", timeouts.DefaultMedium),
		DBLongTimeout:   appValues.Duration("db_long_timeout", timeouts.DefaultLong),

		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),
		JWTExpiry: appValues.Duration("jwt_expiry", 24*time.Hour),

		BcryptCost: appValues.Int("bcrypt_cost"),

		AdminUsername: appValues.String("admin_username"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// KinHub validates the MongoDB URI format and the JWT secret length so
// configuration errors surface before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if len(appCfg.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret too short: %d bytes, need 32+", len(appCfg.JWTSecret))
	}

	if appCfg.BcryptCost < 4 || appCfg.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost out of range: %d", appCfg.BcryptCost)
	}

	if appCfg.AdminUsername != "" && appCfg.AdminPassword == "" {
		logger.Warn("admin_username set without admin_password; bootstrap admin will only be promoted, never created")
	}

	return nil
}
