// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size for JSON request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxDescriptionLen is the maximum length in bytes for listing
	// descriptions after sanitization.
	MaxDescriptionLen = 64 << 10 // 64 KB
)
