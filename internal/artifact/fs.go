package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemSink writes objects below a root directory.
type FilesystemSink struct {
	root string
}

func NewFilesystemSink(root string) (*FilesystemSink, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem sink: %w", ErrSinkUnavailable)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filesystem sink: %w", err)
	}
	return &FilesystemSink{root: root}, nil
}

func (s *FilesystemSink) Store(ctx context.Context, obj Object) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	key := Key(obj)
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Stored{}, fmt.Errorf("filesystem sink: %w", err)
	}

	// write then rename so readers never see a partial file
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, obj.Body, 0o644); err != nil {
		return Stored{}, fmt.Errorf("filesystem sink: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return Stored{}, fmt.Errorf("filesystem sink: %w", err)
	}
	return Stored{Key: key, Location: target}, nil
}
