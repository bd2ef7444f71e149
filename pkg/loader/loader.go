package loader

import (
	"context"
)

type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindURL  SourceKind = "url"
	SourceKindText SourceKind = "text"
)

// Source is a narrative to analyse. File and URL sources are read through
// their Loader; text sources carry the narrative inline.
type Source struct {
	ID       string
	Location string
	Kind     SourceKind
	Text     string
	Loader   NarrativeLoader
}

// NewFileSource creates a source for a file on disk read by l.
func NewFileSource(id string, path string, l NarrativeLoader) Source {
	return Source{ID: id, Location: path, Kind: SourceKindFile, Loader: l}
}

// NewURLSource creates a source for a web page fetched by l.
func NewURLSource(id string, url string, l NarrativeLoader) Source {
	return Source{ID: id, Location: url, Kind: SourceKindURL, Loader: l}
}

// NewTextSource wraps a narrative that is already in memory.
func NewTextSource(id string, text string) Source {
	return Source{ID: id, Kind: SourceKindText, Text: text}
}

// GetText returns the normalised narrative. It fails with ErrEmptyNarrative
// when nothing but whitespace remains.
//
// Example:
//
//	src := loader.NewFileSource("maria", "maria.txt", io.NewIONarrativeLoader())
//	text, err := src.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
func (s *Source) GetText(ctx context.Context) (string, error) {
	var raw []byte
	if s.Kind == SourceKindText {
		raw = []byte(s.Text)
	} else {
		if s.Loader == nil {
			return "", ErrNoLoader
		}
		var err error
		raw, err = s.Loader.GetText(ctx, *s)
		if err != nil {
			return "", err
		}
	}

	text := NormalizeNarrative(string(raw))
	if text == "" {
		return "", ErrEmptyNarrative
	}
	return text, nil
}

// NarrativeLoader reads the raw bytes of a source. Implementations may load
// from disk, the web, or other places and must be safe for concurrent use.
type NarrativeLoader interface {
	GetText(ctx context.Context, src Source) ([]byte, error)
}
