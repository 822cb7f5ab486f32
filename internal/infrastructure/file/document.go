package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mymai1208/AntiBot/internal/domain"
)

// DocumentStore keeps the registry document as a JSON file on local disk.
type DocumentStore struct {
	path string
}

func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// Load reads the document, creating an empty one when the file does not exist.
// A file that exists but does not decode is an error.
func (s *DocumentStore) Load(ctx context.Context) (*domain.RegistryDocument, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := &domain.RegistryDocument{Servers: []domain.CommunityConfig{}}
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		slog.Info("created empty registry document", "path", s.path)
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var doc domain.RegistryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &doc, nil
}

// Save rewrites the whole document. It writes a sibling temp file and renames
// it over the target so a crash never leaves a truncated registry behind.
func (s *DocumentStore) Save(_ context.Context, doc *domain.RegistryDocument) error {
	out := *doc
	if out.Servers == nil {
		out.Servers = []domain.CommunityConfig{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
