// Package storage abstracts where delivery proofs (photos, signatures)
// are kept. The workflow only ever sees the reference path returned by
// Store; swapping the disk store for an object store does not touch the
// controllers.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ProofStore persists an uploaded proof file and returns its stored
// reference path. The call blocks until the file is durably written.
type ProofStore interface {
	Store(file *multipart.FileHeader) (string, error)
}

// DiskStore writes proofs under Root, one uuid-named file per upload so
// client filenames can never collide or escape the directory.
type DiskStore struct {
	Root string
}

// NewDiskStore builds a DiskStore rooted at dir, falling back to the
// default proof directory when dir is empty.
func NewDiskStore(dir string) *DiskStore {
	if dir == "" {
		dir = filepath.Join("storage", "colis", "preuves")
	}
	return &DiskStore{Root: dir}
}

func (s *DiskStore) Store(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", fmt.Errorf("création du répertoire de preuves: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(s.Root, uuid.NewString()+filepath.Ext(file.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
