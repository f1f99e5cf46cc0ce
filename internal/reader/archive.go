package reader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// firstArchiveEntry expands a zip archive into a scratch directory and
// returns the bytes of its first listed entry. Multi-entry archives are not
// an error, but only the first entry is read; the rest are reported so the
// limitation is visible in logs.
func firstArchiveEntry(data []byte) ([]byte, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("opening archive: %w", err)
	}

	var first *zip.File
	var extras []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if first == nil {
			first = f
		} else {
			extras = append(extras, f.Name)
		}
	}
	if first == nil {
		return nil, "", fmt.Errorf("archive contains no files")
	}
	if len(extras) > 0 {
		logrus.WithFields(logrus.Fields{
			"entry":   first.Name,
			"ignored": extras,
		}).Warn("archive has multiple entries, only the first is imported")
	}

	scratch := filepath.Join(os.TempDir(), "importer-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logrus.WithError(err).WithField("dir", scratch).Warn("could not remove scratch dir")
		}
	}()

	target := filepath.Join(scratch, filepath.Base(first.Name))
	if err := extractEntry(first, target); err != nil {
		return nil, "", err
	}
	payload, err := os.ReadFile(target)
	if err != nil {
		return nil, "", fmt.Errorf("reading extracted entry: %w", err)
	}
	return payload, first.Name, nil
}

func extractEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %q: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extracting %q: %w", f.Name, err)
	}
	return nil
}
