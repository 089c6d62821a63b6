package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
)

// Loader adapts the Loam library to the ports.PromptLoader interface.
// Each Markdown document holds one template; its body is the template text.
type Loader struct {
	Repo *loam.TypedRepository[PromptMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[PromptMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// ReadOnly keeps Loam from creating its dev sandbox; prompts are never written back.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[PromptMetadata](repo)), nil
}

// LoadPrompts returns every enabled template keyed by node id.
func (l *Loader) LoadPrompts(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	prompts := make(map[string]string, len(docs))
	seen := make(map[string]string, len(docs))

	for _, doc := range docs {
		if doc.Data.Disabled {
			continue
		}

		rawID := doc.Data.Node
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: prompt '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		// List carries front matter only; the body needs a direct lookup.
		full, err := l.Repo.Get(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
		}

		body := strings.TrimSpace(full.Content)
		if body == "" {
			return nil, fmt.Errorf("prompt '%s' (%s) is empty", id, doc.ID)
		}
		prompts[id] = body
	}
	return prompts, nil
}

func trimExtension(id string) string {
	id = filepath.ToSlash(id)
	if ext := filepath.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return filepath.Base(id)
}
