package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

const (
	catalogFileMode = 0o600
	catalogDirMode  = 0o700
	tempFilePattern = ".catalog-*.toml.tmp"
)

// DefaultJournals is the catalog used when no catalog file exists.
func DefaultJournals() []domain.Journal {
	return []domain.Journal{
		{ID: "1", Name: "Nature", Category: "Science", Impact: 49.962},
		{ID: "2", Name: "Science", Category: "Multidisciplinary", Impact: 47.728},
		{ID: "3", Name: "Cell", Category: "Biology", Impact: 38.637},
		{ID: "4", Name: "The Lancet", Category: "Medicine", Impact: 79.323},
		{ID: "5", Name: "New England Journal of Medicine", Category: "Medicine", Impact: 91.245},
		{ID: "6", Name: "Science Advances", Category: "Multidisciplinary", Impact: 13.116},
	}
}

// Catalog is a journal list stored as TOML. It serves as the local search
// endpoint.
type Catalog struct {
	path string
	mu   sync.RWMutex
}

var _ ports.SearchEndpoint = (*Catalog)(nil)

func NewCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	return &Catalog{path: filepath.Clean(absPath)}, nil
}

func (c *Catalog) Path() string {
	return c.path
}

func (c *Catalog) List(ctx context.Context) ([]domain.Journal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.read()
}

func (c *Catalog) Lookup(ctx context.Context, id domain.ItemID) (domain.Journal, error) {
	journals, err := c.List(ctx)
	if err != nil {
		return domain.Journal{}, err
	}

	for _, journal := range journals {
		if journal.ID == id {
			return journal, nil
		}
	}
	return domain.Journal{}, fmt.Errorf("journal %s: %w", id, domain.ErrJournalNotFound)
}

// Search matches query against journal names and categories, ignoring case.
// Name prefix matches come first, then other matches, each in catalog order.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.Match, error) {
	journals, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []domain.Match{}, nil
	}

	type ranked struct {
		rank  int
		order int
		match domain.Match
	}
	var hits []ranked
	for i, journal := range journals {
		name := strings.ToLower(journal.Name)
		switch {
		case strings.HasPrefix(name, needle):
			hits = append(hits, ranked{rank: 0, order: i, match: journal.Match()})
		case strings.Contains(name, needle):
			hits = append(hits, ranked{rank: 1, order: i, match: journal.Match()})
		case strings.Contains(strings.ToLower(journal.Category), needle):
			hits = append(hits, ranked{rank: 2, order: i, match: journal.Match()})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].order < hits[j].order
	})

	out := make([]domain.Match, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hit.match)
	}
	return out, nil
}

// Save replaces the catalog file with journals.
func (c *Catalog) Save(ctx context.Context, journals []domain.Journal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := fileSchema{}
	seen := make(map[domain.ItemID]struct{}, len(journals))
	for _, journal := range journals {
		if err := journal.Validate(); err != nil {
			return err
		}
		if _, ok := seen[journal.ID]; ok {
			return fmt.Errorf("duplicate journal id %s", journal.ID)
		}
		seen[journal.ID] = struct{}{}
		file.Journals = append(file.Journals, toSchema(journal))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(file)
}

func (c *Catalog) read() ([]domain.Journal, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultJournals(), nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}

	journals := make([]domain.Journal, 0, len(file.Journals))
	for _, entry := range file.Journals {
		journal := fromSchema(entry)
		if err := journal.Validate(); err != nil {
			return nil, fmt.Errorf("decode catalog file: %w", err)
		}
		journals = append(journals, journal)
	}
	return journals, nil
}

func (c *Catalog) write(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(c.path), catalogDirMode); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode catalog file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(c.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp catalog file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp catalog file: %w", err)
	}
	if err := tempFile.Chmod(catalogFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp catalog file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp catalog file: %w", err)
	}

	if err := os.Rename(tempName, c.path); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(journal domain.Journal) journalSchema {
	return journalSchema{
		ID:       string(journal.ID),
		Name:     journal.Name,
		Category: journal.Category,
		Impact:   journal.Impact,
	}
}

func fromSchema(entry journalSchema) domain.Journal {
	return domain.Journal{
		ID:       domain.ItemID(entry.ID),
		Name:     entry.Name,
		Category: entry.Category,
		Impact:   entry.Impact,
	}
}
