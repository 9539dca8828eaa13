// Package artifact archives downloaded documents to a configured sink.
package artifact

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

var ErrSinkUnavailable = errors.New("artifact_sink_unavailable")

// Object is one rendered document to archive.
type Object struct {
	Company     string
	Variant     string
	Filename    string
	ContentType string
	Body        []byte
}

// Stored describes where an object ended up.
type Stored struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

type Sink interface {
	Store(ctx context.Context, obj Object) (Stored, error)
}

// Key is {company-slug}/{variant}/{filename}.
func Key(obj Object) string {
	prefix := slug.Make(obj.Company)
	if prefix == "" {
		prefix = "documents"
	}
	variant := slug.Make(obj.Variant)
	if variant == "" {
		variant = "quotation"
	}
	name := strings.ReplaceAll(path.Base(obj.Filename), "..", "")
	return path.Join(prefix, variant, name)
}
