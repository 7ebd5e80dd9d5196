package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var ErrEvidenceWrite = errors.New("store: write evidence")

// EvidenceFileName names the evidence file for a pair
func EvidenceFileName(first, second string) string {
	return first + "__" + second + ".log"
}

// WriteEvidence writes rows to dir/name, one comma separated row per line,
// creating dir when missing. An existing file is replaced.
func WriteEvidence(dir, name string, rows [][]int) error {
	if dir == "" {
		return fmt.Errorf("%w: storage directory is not set", ErrEvidenceWrite)
	}
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("%w: invalid file name %q", ErrEvidenceWrite, name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrEvidenceWrite, err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEvidenceWrite, err)
	}
	w := bufio.NewWriter(f)
	for _, row := range rows {
		for i, x := range row {
			if i > 0 {
				w.WriteByte(',')
			}
			w.WriteString(strconv.Itoa(x))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrEvidenceWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEvidenceWrite, err)
	}
	return nil
}
