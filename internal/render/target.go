package render

import (
	"errors"
	"strings"
)

var (
	ErrUnknownFormat  = errors.New("unknown_format")
	ErrSurfaceBlocked = errors.New("print_surface_blocked")
)

type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name case-insensitively; empty means HTML.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Target serializes a Document into one output format.
type Target interface {
	Format() Format
	ContentType() string
	Render(doc Document) ([]byte, error)
}

// Targets indexes renderers by format.
type Targets map[Format]Target

func NewTargets(targets ...Target) Targets {
	out := make(Targets, len(targets))
	for _, t := range targets {
		out[t.Format()] = t
	}
	return out
}

func (t Targets) Get(f Format) (Target, error) {
	target, ok := t[f]
	if !ok {
		return nil, ErrUnknownFormat
	}
	return target, nil
}

// Filename is {Quotation|Invoice}_{estimateNo-or-id}.{ext}.
func Filename(doc Document, f Format) string {
	ref := strings.TrimSpace(doc.Reference)
	if ref == "" {
		ref = "draft"
	}
	ref = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, ref)
	return doc.Variant.Title() + "_" + ref + "." + string(f)
}
