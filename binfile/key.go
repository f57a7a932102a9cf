package binfile

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Key identifies a loaded file inside a hosting collection. Implementations
// are comparable values, so a Key works directly as a map key.
type Key interface {
	fmt.Stringer
}

// PathKey keys a file by its cleaned path. This is the default for files
// loaded from disk.
type PathKey struct {
	Path string
}

// NewPathKey builds a PathKey over the cleaned form of path, so lexically
// equivalent paths compare equal.
func NewPathKey(path string) PathKey {
	return PathKey{Path: filepath.Clean(path)}
}

func (k PathKey) String() string { return k.Path }

// MemoryKey keys a pathless in-memory file. Every call returns a distinct
// key: two in-memory files never collide.
type MemoryKey struct {
	ID uuid.UUID
}

// NewMemoryKey returns a fresh random key.
func NewMemoryKey() MemoryKey {
	return MemoryKey{ID: uuid.New()}
}

func (k MemoryKey) String() string { return "memory:" + k.ID.String() }

// ContentKey keys a file by an xxh3-128 hash of its content, for hosts that
// deduplicate identical binaries living at different paths.
type ContentKey struct {
	Hi, Lo uint64
}

// NewContentKey hashes everything readable from r.
func NewContentKey(r io.Reader) (ContentKey, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ContentKey{}, fmt.Errorf("failed to hash content: %w", err)
	}
	sum := xxh3.Hash128(raw)
	return ContentKey{Hi: sum.Hi, Lo: sum.Lo}, nil
}

func (k ContentKey) String() string { return fmt.Sprintf("xxh3:%016x%016x", k.Hi, k.Lo) }
