package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Loader reads the keyword corpus file and resolves category names to ids.
// Corpus schema: { "<CategoryName>": ["keyword", ...], ... }.
type Loader struct {
	categories repository.CategoryStore
	path       string
	logger     *zap.Logger
}

// NewLoader creates a loader for the corpus at path.
func NewLoader(categories repository.CategoryStore, path string, logger *zap.Logger) *Loader {
	return &Loader{categories: categories, path: path, logger: logger}
}

// Load parses the corpus and returns resolvable entries. Category names with
// no matching row are skipped with a warning. A read or parse failure returns
// a corpus-load error and the caller keeps its previous index.
func (l *Loader) Load(ctx context.Context) ([]domain.CategoryKeywordEntry, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, apperrors.NewCorpusLoadFailure(fmt.Errorf("read %s: %w", l.path, err))
	}

	var corpus map[string][]string
	if err := json.Unmarshal(raw, &corpus); err != nil {
		return nil, apperrors.NewCorpusLoadFailure(fmt.Errorf("parse %s: %w", l.path, err))
	}

	categories, err := l.categories.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.NewCorpusLoadFailure(err)
	}
	idsByName := make(map[string]int64, len(categories))
	for _, c := range categories {
		idsByName[c.Name] = c.ID
	}

	entries := make([]domain.CategoryKeywordEntry, 0, len(corpus))
	for name, keywords := range corpus {
		id, ok := idsByName[name]
		if !ok {
			l.logger.Warn("corpus names unknown category", zap.String("category", name))
			continue
		}
		entries = append(entries, domain.CategoryKeywordEntry{CategoryID: id, Keywords: keywords})
	}
	return entries, nil
}

// Rebuild loads the corpus and swaps it into idx. On load failure the
// previous index stays in effect and the error is returned.
func (l *Loader) Rebuild(ctx context.Context, idx *Index) error {
	entries, err := l.Load(ctx)
	if err != nil {
		return err
	}
	idx.Build(entries)
	l.logger.Info("classification index rebuilt", zap.Int("categories", len(entries)))
	return nil
}
