package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// delimiters tried in order by the parsing ladder.
var delimiters = []rune{',', ';', '\t', '|'}

// readDelimited runs the parsing fallback ladder over a delimited-text
// payload: decoded text with each candidate delimiter, then a lossy
// replacement-character decode with the same ladder. Field exports from
// heterogeneous upstream systems are inconsistently delimited and encoded;
// degrading gracefully beats rejecting the whole batch.
func readDelimited(data []byte, name string) (*Table, error) {
	log := logrus.WithField("file", name)

	text, charset, ok := decodeText(data)
	if ok {
		log.WithField("charset", charset).Debug("decoded payload")
		if table := parseWithLadder(text, log); table != nil {
			return table, nil
		}
	}

	log.Warn("clean decode failed to parse, retrying with replacement-character substitution")
	if table := parseWithLadder(decodeLossy(data), log); table != nil {
		return table, nil
	}

	return nil, fmt.Errorf("%w: no parsing strategy yielded rows", ErrUnreadableFile)
}

// parseWithLadder tries each delimiter in order and returns the first
// plausible table. A parse is plausible when it produced at least one data
// row and split the header into more than one column; a single-column result
// is kept only as the last resort, since it usually means the wrong
// delimiter.
func parseWithLadder(text string, log *logrus.Entry) *Table {
	var singleColumn *Table
	for _, delim := range delimiters {
		table := parseDelimited(text, delim)
		if table == nil {
			continue
		}
		if len(table.Headers) > 1 {
			log.WithFields(logrus.Fields{
				"delimiter": string(delim),
				"rows":      table.RowCount(),
				"skipped":   table.Skipped,
			}).Info("parsed delimited file")
			return table
		}
		if singleColumn == nil {
			singleColumn = table
		}
	}
	if singleColumn != nil {
		log.WithField("rows", singleColumn.RowCount()).Info("parsed delimited file as single column")
	}
	return singleColumn
}

// parseDelimited parses text with one delimiter, all cells kept as text.
// Malformed lines are counted and skipped rather than aborting the read.
func parseDelimited(text string, delim rune) *Table {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil
	}
	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}

	table := &Table{Headers: headers}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			table.Skipped++
			continue
		}
		// Pad or truncate to the header width so every row lines up.
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		} else if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		table.Rows = append(table.Rows, row)
	}

	if table.RowCount() == 0 {
		return nil
	}
	return table
}

// cleanHeader trims whitespace, stray quotes and BOM remnants from a header
// cell.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ReplaceAll(h, `"`, "")
	return strings.TrimSpace(h)
}
