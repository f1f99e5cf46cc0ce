// Package reader turns an uploaded file into a row-oriented table of raw
// string cells. It recognizes delimited text, spreadsheets and zip-wrapped
// payloads, and recovers from unlabeled legacy encodings and inconsistent
// delimiters instead of rejecting the file. Typing of cells happens later in
// the normalizer, never here.
package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ErrUnreadableFile means no parsing strategy produced any rows.
var ErrUnreadableFile = errors.New("unreadable file")

// Table is the raw tabular buffer handed to the normalizer. Rows preserve
// input order; every cell is text.
type Table struct {
	Headers []string
	Rows    [][]string

	// Skipped counts malformed lines dropped during parsing.
	Skipped int
}

// RowCount exposes the number of data rows for progress accounting.
func (t *Table) RowCount() int { return len(t.Rows) }

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// Read parses the file at path into a Table, or fails with ErrUnreadableFile.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return readPayload(data, filepath.Base(path), true)
}

// readPayload dispatches on the file kind. Spreadsheets and zip archives
// share the same container magic, so a workbook parse is attempted before
// archive expansion.
func readPayload(data []byte, name string, allowArchive bool) (*Table, error) {
	log := logrus.WithField("file", name)

	if hasPrefix(data, zipMagic) {
		if table, err := readWorkbook(data); err == nil {
			log.WithField("rows", table.RowCount()).Info("parsed spreadsheet")
			return table, nil
		} else {
			log.WithError(err).Debug("not a spreadsheet, trying archive expansion")
		}

		if allowArchive {
			entry, entryName, err := firstArchiveEntry(data)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
			}
			log.WithField("entry", entryName).Info("expanded archive, reading first entry")
			return readPayload(entry, entryName, false)
		}
	}

	table, err := readDelimited(data, name)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i := range prefix {
		if data[i] != prefix[i] {
			return false
		}
	}
	return true
}
