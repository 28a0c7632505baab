package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// File describes a stored object.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Store persists uploaded files and serves them back by public URL.
type Store interface {
	// Upload saves the content under a generated name and returns the file.
	Upload(ctx context.Context, originalName string, r io.Reader) (*File, error)

	// PublicURL returns the URL a stored name is served under.
	PublicURL(name string) string

	// List returns all stored files sorted by name.
	List(ctx context.Context) ([]*File, error)

	// Delete removes a stored file.
	Delete(ctx context.Context, name string) error
}

type localStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a disk-backed store rooted at dir. Files are served
// under baseURL (e.g. "/files/").
func NewLocalStore(dir, baseURL string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &localStore{root: dir, baseURL: baseURL}, nil
}

func (s *localStore) Upload(_ context.Context, originalName string, r io.Reader) (*File, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}
	return &File{Name: name, Size: n, URL: s.PublicURL(name)}, nil
}

func (s *localStore) PublicURL(name string) string {
	return s.baseURL + name
}

func (s *localStore) List(_ context.Context) ([]*File, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read storage dir: %w", err)
	}
	files := make([]*File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, &File{Name: e.Name(), Size: info.Size(), URL: s.PublicURL(e.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *localStore) Delete(_ context.Context, name string) error {
	// Reject anything that could escape the storage root.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name")
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found")
		}
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
