package repository

// FileSystemConfig holds the normalized, process-wide configuration for the
// filesystem tool manager. It is built once at startup and never mutated.
type FileSystemConfig struct {
	AllowedPaths      []string `json:"allowed_paths"`      // Canonical absolute roots operations must stay within
	MaxFileSize       int64    `json:"max_file_size"`      // Advisory size limit in bytes (not enforced by handlers)
	AllowedExtensions []string `json:"allowed_extensions"` // Advisory lowercase extension filter (not enforced by handlers)
}

// Trasher moves a file or directory to a recoverable trash location instead
// of deleting it permanently. It returns the location the payload ended up at.
type Trasher interface {
	Trash(path string) (string, error)
}
