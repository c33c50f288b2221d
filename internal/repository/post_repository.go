package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marketbot/internal/model"
)

const DefaultPostDir = "content/redirect"

// PostRepository stores rendered posts as one markdown file per day.
type PostRepository struct {
	dir string
}

func NewPostRepository(dir string) *PostRepository {
	if dir == "" {
		dir = DefaultPostDir
	}
	return &PostRepository{dir: dir}
}

func (r *PostRepository) PathFor(date time.Time) string {
	return filepath.Join(r.dir, model.FormatDate(date)+".md")
}

// Save writes doc for date, replacing any earlier post for the same day.
func (r *PostRepository) Save(date time.Time, doc string) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create post dir: %w", err)
	}

	path := r.PathFor(date)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write post: %w", err)
	}
	return path, nil
}
