// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxProductJSON bounds product create and update bodies.
	MaxProductJSON = 1 << 20 // 1 MB

	// MaxImageUpload is the largest product image accepted.
	MaxImageUpload = 5 << 20 // 5 MB

	// MultipartOverhead leaves room for the boundary and part headers around
	// an uploaded image.
	MultipartOverhead = 64 << 10

	// MaxCredentialsJSON bounds the JSON sign-in body.
	MaxCredentialsJSON = 4 << 10
)
