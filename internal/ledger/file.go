package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"ledgerconv/internal/fileutil"
)

// Options control the framing records around the PIC lines.
type Options struct {
	HeaderRecord string
	Trailer      bool
}

// Render assembles a ledger document: optional header, PIC lines, optional
// trailer. Every line is newline-terminated.
func Render(layout Layout, lines []string, opts Options) []byte {
	var b strings.Builder
	b.Grow((layout.Width() + 1) * (len(lines) + 2))
	if header := layout.HeaderRecord(opts.HeaderRecord); header != "" {
		b.WriteString(header)
		b.WriteByte('\n')
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if opts.Trailer {
		b.WriteString(layout.Trailer(len(lines)))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WriteFile atomically replaces path with content.
func WriteFile(path string, content []byte) error {
	if err := fileutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return fmt.Errorf("write ledger %s: %w", path, err)
	}
	return nil
}

// ReadIDs returns the record identifier of every PIC line in r. Header and
// trailer records are ignored.
func ReadIDs(r io.Reader, layout Layout) ([]string, error) {
	var ids []string
	err := scanLines(r, func(line string) {
		if id, ok := layout.LineID(line); ok {
			ids = append(ids, id)
		}
	})
	return ids, err
}

// CountRecords counts the PIC lines of the ledger at path.
func CountRecords(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	count := 0
	err = scanLines(file, func(line string) {
		if strings.HasPrefix(line, RecordTag) {
			count++
		}
	})
	if err != nil {
		return 0, fmt.Errorf("count ledger records %s: %w", path, err)
	}
	return count, nil
}

func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		fn(strings.TrimRight(scanner.Text(), "\r"))
	}
	return scanner.Err()
}
