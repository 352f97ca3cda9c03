package storage

import "fmt"

// Type selects a storage backend.
type Type string

const (
	TypeFilesystem Type = "filesystem"
	TypeMemory     Type = "memory"
)

// Config holds storage configuration.
type Config struct {
	Type Type
	// BasePath is where relative paths resolve for filesystem storage.
	BasePath string
}

// NewStorage creates a storage adapter. A nil config means the filesystem
// rooted at the working directory.
func NewStorage(config *Config) (Storage, error) {
	if config == nil {
		config = &Config{Type: TypeFilesystem}
	}

	switch config.Type {
	case TypeFilesystem, "":
		base := config.BasePath
		if base == "" {
			base = "."
		}
		return NewFilesystemStorage(base), nil
	case TypeMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Type)
	}
}
