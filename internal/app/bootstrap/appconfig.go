// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and request limits; everything specific to the store
// console lives here. The struct is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: storeadmin-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Product image storage
	StorageType      string // "local" or "s3"
	StorageLocalPath string // directory for local uploads
	StorageLocalURL  string // URL prefix the local directory is served under

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region string
	StorageS3Bucket string
	StorageS3Prefix string
	StorageS3URL    string // public base URL for the bucket or its CDN

	// Origins allowed to call the API with credentials (the admin client).
	CORSAllowedOrigins []string

	// Google sign-in; disabled when the client ID is blank.
	GoogleClientID     string
	GoogleClientSecret string

	// Public base URL, used for the OAuth callback.
	BaseURL string

	// Admin bootstrap: created or promoted on startup when AdminEmail is set.
	AdminEmail    string
	AdminPassword string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
