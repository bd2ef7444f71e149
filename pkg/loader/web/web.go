package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// WebNarrativeLoader loads narratives from web URLs. For HTML pages it uses
// readability to extract the main article text.
type WebNarrativeLoader struct {
	client *http.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewWebNarrativeLoader creates a web loader using http.DefaultClient.
func NewWebNarrativeLoader() *WebNarrativeLoader {
	return NewWebNarrativeLoaderWithClient(http.DefaultClient)
}

// NewWebNarrativeLoaderWithClient creates a web loader using client.
func NewWebNarrativeLoaderWithClient(client *http.Client) *WebNarrativeLoader {
	return &WebNarrativeLoader{
		client: client,
		cache:  make(map[string][]byte),
	}
}

// GetText fetches a URL and extracts readable text content. Results are cached.
func (l *WebNarrativeLoader) GetText(ctx context.Context, src loader.Source) ([]byte, error) {
	key := loader.CacheKey(src)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		result, err := l.fetch(ctx, src.Location)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func (l *WebNarrativeLoader) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch url: unexpected status %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return io.ReadAll(resp.Body)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return nil, fmt.Errorf("failed to render article text: %w", err)
	}

	return []byte(builder.String()), nil
}
