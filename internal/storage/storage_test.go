package storage

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessrules/internal/board"
)

var sampleRows = [][]int{{1, 8, 9}, {0, 2, 9, 10}, {63}}

func TestStorage(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStorage(dir, nil)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	t.Run("Empty", func(t *testing.T) {
		if _, err := s.LoadRanges(); !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadRanges on an empty database: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveLoad", func(t *testing.T) {
		if err := s.SaveRanges(sampleRows); err != nil {
			t.Fatalf("SaveRanges: %v", err)
		}
		got, err := s.LoadRanges()
		if err != nil {
			t.Fatalf("LoadRanges: %v", err)
		}
		if diff := cmp.Diff(sampleRows, got); diff != "" {
			t.Errorf("LoadRanges mismatch (-want +got):\n%s", diff)
		}
	})

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	t.Run("Reopen", func(t *testing.T) {
		s, err := NewStorage(dir, nil)
		if err != nil {
			t.Fatalf("NewStorage: %v", err)
		}
		defer s.Close()

		got, err := s.LoadRanges()
		if err != nil {
			t.Fatalf("LoadRanges after reopening: %v", err)
		}
		if diff := cmp.Diff(sampleRows, got); diff != "" {
			t.Errorf("LoadRanges mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRangeFormat(t *testing.T) {
	data := FormatRanges(sampleRows)
	if want := "1,8,9\n0,2,9,10\n63\n"; string(data) != want {
		t.Errorf("FormatRanges = %q, want %q", data, want)
	}

	got, err := ParseRanges(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleRows, got); diff != "" {
		t.Errorf("ParseRanges mismatch (-want +got):\n%s", diff)
	}

	got, err = ParseRanges([]byte("1, 8 ,9\r\n0,2,9,10\r\n63"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleRows, got); diff != "" {
		t.Errorf("ParseRanges with CRLF and spaces mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseRanges([]byte("1,x,3\n")); !errors.Is(err, ErrMalformed) {
		t.Errorf("ParseRanges(garbage) error = %v, want ErrMalformed", err)
	}
}

func TestRangeFile(t *testing.T) {
	f := RangeFile{Path: filepath.Join(t.TempDir(), RangeFileName)}

	if _, err := f.LoadRanges(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadRanges on a missing file: error = %v, want ErrNotFound", err)
	}
	if err := f.SaveRanges(sampleRows); err != nil {
		t.Fatalf("SaveRanges: %v", err)
	}
	got, err := f.LoadRanges()
	if err != nil {
		t.Fatalf("LoadRanges: %v", err)
	}
	if diff := cmp.Diff(sampleRows, got); diff != "" {
		t.Errorf("LoadRanges mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(f.Path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

// TestWarmFromRangeFile runs the process-wide warm-up against a text file.
// No other test in this package touches the index.
func TestWarmFromRangeFile(t *testing.T) {
	f := RangeFile{Path: filepath.Join(t.TempDir(), RangeFileName)}
	if err := board.WarmCheckableRanges(f); err != nil {
		t.Fatalf("WarmCheckableRanges: %v", err)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		t.Fatalf("range file was not written: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 64 {
		t.Errorf("range file has %d lines, want 64", lines)
	}

	got, err := f.LoadRanges()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(board.CheckableRangeRows(), got); diff != "" {
		t.Errorf("stored table mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(log.New(&buf, "", 0))
	l.Infof("opened %d tables", 3)
	l.Warningf("slow")
	if got := buf.String(); !strings.Contains(got, "badger INFO: opened 3 tables") || !strings.Contains(got, "badger WARN: slow") {
		t.Errorf("log output = %q", got)
	}
}

func TestDataPaths(t *testing.T) {
	base := t.TempDir()

	dataDir, err := ResolveDataDir(filepath.Join(base, "data"))
	if err != nil {
		t.Fatalf("ResolveDataDir failed: %v", err)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if want := filepath.Join(base, "data", "db"); dbDir != want {
		t.Errorf("GetDatabaseDir = %q, want %q", dbDir, want)
	}
	if got, want := RangeFilePath(dataDir), filepath.Join(base, "data", RangeFileName); got != want {
		t.Errorf("RangeFilePath = %q, want %q", got, want)
	}

	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", base)
		got, err := ResolveDataDir("")
		if err != nil {
			t.Fatalf("ResolveDataDir: %v", err)
		}
		if want := filepath.Join(base, appName); got != want {
			t.Errorf("ResolveDataDir(\"\") = %q, want %q", got, want)
		}
	}
}

func TestNilLogger(t *testing.T) {
	if NewLogger(nil) != nil {
		t.Error("NewLogger(nil) should keep Badger quiet")
	}
}
