package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadManager stores incoming import files under one base directory with
// collision-free names.
type UploadManager struct {
	BaseDir string
}

func NewUploadManager(baseDir string) *UploadManager {
	return &UploadManager{BaseDir: baseDir}
}

// EnsureDirExists creates the base upload directory.
func (um *UploadManager) EnsureDirExists() error {
	return os.MkdirAll(um.BaseDir, 0o755)
}

// StoredName builds a unique on-disk name that keeps the original extension
// and a sanitized stem for operator readability.
func (um *UploadManager) StoredName(originalName string) string {
	base := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, stem)
	if stem == "" {
		stem = "upload"
	}
	return fmt.Sprintf("%s_%s%s", stem, uuid.NewString(), ext)
}

// Save writes an upload stream to disk and returns the stored name.
func (um *UploadManager) Save(originalName string, src io.Reader) (string, error) {
	if err := um.EnsureDirExists(); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	name := um.StoredName(originalName)
	dst, err := os.Create(filepath.Join(um.BaseDir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return name, nil
}

// Path returns the absolute location of a stored upload.
func (um *UploadManager) Path(storedName string) string {
	return filepath.Join(um.BaseDir, filepath.Base(storedName))
}

// SupportedFile reports whether the extension is one the import readers
// understand. Legacy binary .xls is excluded: the spreadsheet reader handles
// only the zip-based xlsx family.
func SupportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv", ".xlsx", ".zip":
		return true
	default:
		return false
	}
}
