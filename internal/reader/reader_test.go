package reader

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadCSVEncodings(t *testing.T) {
	const header = "Employee Number,First Name\n"
	const row = "EMP001,José\n"

	utf8Bytes := []byte(header + row)

	latin1, err := charmap.ISO8859_1.NewEncoder().Bytes(utf8Bytes)
	require.NoError(t, err)
	cp1252, err := charmap.Windows1252.NewEncoder().Bytes(utf8Bytes)
	require.NoError(t, err)

	cases := map[string][]byte{
		"utf8.csv":   utf8Bytes,
		"latin1.csv": latin1,
		"cp1252.csv": cp1252,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			table, err := Read(writeFile(t, name, data))
			require.NoError(t, err)
			assert.Equal(t, []string{"Employee Number", "First Name"}, table.Headers)
			require.Equal(t, 1, table.RowCount())
			assert.Equal(t, []string{"EMP001", "José"}, table.Rows[0])
		})
	}
}

func TestCleanHeaderStripsBOMAndQuotes(t *testing.T) {
	assert.Equal(t, "Employee Number", cleanHeader("\uFEFFEmployee Number"))
	assert.Equal(t, "Basic Salary", cleanHeader(` "Basic Salary" `))
	assert.Equal(t, "Email", cleanHeader("Email"))
}

func TestReadDelimiterLadder(t *testing.T) {
	cases := map[string]string{
		"comma.csv":     "a,b,c\n1,2,3\n",
		"semicolon.csv": "a;b;c\n1;2;3\n",
		"tab.csv":       "a\tb\tc\n1\t2\t3\n",
		"pipe.csv":      "a|b|c\n1|2|3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			table, err := Read(writeFile(t, name, []byte(body)))
			require.NoError(t, err)
			assert.Len(t, table.Headers, 3)
			require.Equal(t, 1, table.RowCount())
			assert.Equal(t, []string{"1", "2", "3"}, table.Rows[0])
		})
	}
}

func TestReadPreservesRowOrder(t *testing.T) {
	body := "id,name\n1,first\n2,second\n3,third\n"
	table, err := Read(writeFile(t, "ordered.csv", []byte(body)))
	require.NoError(t, err)
	require.Equal(t, 3, table.RowCount())
	assert.Equal(t, "first", table.Rows[0][1])
	assert.Equal(t, "second", table.Rows[1][1])
	assert.Equal(t, "third", table.Rows[2][1])
}

func TestReadSkipsMalformedRowsAndPads(t *testing.T) {
	// Second data row is short, third has extra cells.
	body := "a,b,c\n1,2,3\n4,5\n6,7,8,9\n"
	table, err := Read(writeFile(t, "ragged.csv", []byte(body)))
	require.NoError(t, err)
	require.Equal(t, 3, table.RowCount())
	assert.Equal(t, []string{"4", "5", ""}, table.Rows[1])
	assert.Equal(t, []string{"6", "7", "8"}, table.Rows[2])
}

func TestReadZipWrappedCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wrapped.zip")

	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("export.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("x,y\n10,20\n"))
	require.NoError(t, err)
	// A second entry must be tolerated and ignored.
	w2, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = w2.Write([]byte("ignore me"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	table, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, table.Headers)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, []string{"10", "20"}, table.Rows[0])
}

func TestReadWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Employee Number", "Basic Salary"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"EMP001", 120000.5}))
	require.NoError(t, f.SaveAs(path))

	table, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Employee Number", "Basic Salary"}, table.Headers)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, "EMP001", table.Rows[0][0])
	// Cells arrive as text; typing happens in the normalizer.
	assert.NotEmpty(t, table.Rows[0][1])
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrUnreadableFile)
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(writeFile(t, "empty.csv", nil))
	assert.ErrorIs(t, err, ErrUnreadableFile)
}
