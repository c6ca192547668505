// internal/app/system/limits/limits.go
package limits

// Request body size limits. Bodies beyond these are rejected before decoding.
const (
	// MaxJSONBody caps ordinary JSON request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxAuthBody caps login and registration bodies.
	MaxAuthBody = 16 << 10 // 16 KB
)
