package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformed is returned when stored range data cannot be parsed.
var ErrMalformed = errors.New("storage: malformed range data")

// FormatRanges writes one line per row with comma-separated square indices.
func FormatRanges(rows [][]int) []byte {
	var buf bytes.Buffer
	for _, row := range rows {
		for j, idx := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(idx))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ParseRanges reads the FormatRanges layout. Blank lines become empty rows,
// except for the final newline.
func ParseRanges(data []byte) ([][]int, error) {
	text := strings.TrimSuffix(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]int, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		row := make([]int, len(fields))
		for j, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("line %d: %q: %w", i+1, f, ErrMalformed)
			}
			row[j] = n
		}
		rows[i] = row
	}
	return rows, nil
}

// RangeFile stores the checkable-range table in a plain-text file.
type RangeFile struct {
	Path string
}

// LoadRanges reads the file, returning ErrNotFound when it does not exist.
func (f RangeFile) LoadRanges() ([][]int, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ParseRanges(data)
}

// SaveRanges replaces the file through a temporary file and a rename, so a
// reader never sees a half-written table.
func (f RangeFile) SaveRanges(rows [][]int) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(FormatRanges(rows)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
