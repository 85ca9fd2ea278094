package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
)

const (
	maxLineBytes = 1 << 20

	// DefaultPollInterval is how often Follow checks for new lines.
	DefaultPollInterval = 250 * time.Millisecond
)

// Reader tails one log file.
type Reader struct {
	fs   afero.Fs
	path string
}

// NewReader returns a Reader for path on fsys.
func NewReader(fsys afero.Fs, path string) *Reader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Reader{fs: fsys, path: path}
}

// Path returns the file being read.
func (r *Reader) Path() string {
	return r.path
}

// Last returns up to limit trailing lines and the offset just past them. A
// missing file yields no lines and offset 0.
func (r *Reader) Last(limit int) ([]string, int64, error) {
	file, size, err := r.open()
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()
	if limit <= 0 {
		return nil, size, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	offset, err := scanLines(file, func(line string) {
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, 0, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := 0; i < count; i++ {
		lines = append(lines, ring[(start+i)%limit])
	}
	return lines, offset, nil
}

// ReadFrom returns the complete lines written after offset and the offset to
// resume from. A partial trailing line is left for the next read.
func (r *Reader) ReadFrom(offset int64) ([]string, int64, error) {
	file, size, err := r.open()
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	if offset < 0 || offset > size {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}
	var lines []string
	read, err := scanLines(file, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, offset, err
	}
	return lines, offset + read, nil
}

// Follow calls fn for every line appended after offset until ctx ends.
func (r *Reader) Follow(ctx context.Context, offset int64, interval time.Duration, fn func(string)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		lines, next, err := r.ReadFrom(offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			fn(line)
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Reader) open() (afero.File, int64, error) {
	file, err := r.fs.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, 0, fmt.Errorf("log path %q is a directory", r.path)
	}
	return file, info.Size(), nil
}

// scanLines feeds every newline-terminated line to fn and reports how many
// bytes those lines covered.
func scanLines(src io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(src, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadSlice('\n')
		switch {
		case err == nil:
			consumed += int64(len(line))
			fn(string(trimEOL(line)))
		case errors.Is(err, bufio.ErrBufferFull):
			long, n, err := readLongLine(reader, line)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return consumed, nil
				}
				return consumed, fmt.Errorf("read log file: %w", err)
			}
			consumed += int64(n)
			fn(string(trimEOL(long)))
		case errors.Is(err, io.EOF):
			return consumed, nil
		default:
			return consumed, fmt.Errorf("read log file: %w", err)
		}
	}
}

// readLongLine finishes a line longer than the read buffer. Lines past
// maxLineBytes are cut; n is the full length consumed.
func readLongLine(reader *bufio.Reader, prefix []byte) (line []byte, n int, err error) {
	buf := append([]byte(nil), prefix...)
	n = len(prefix)
	for {
		chunk, err := reader.ReadSlice('\n')
		n += len(chunk)
		if room := maxLineBytes - len(buf); room > 0 {
			buf = append(buf, chunk[:min(room, len(chunk))]...)
		}
		if err == nil {
			return buf, n, nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return nil, n, err
		}
	}
}

func trimEOL(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}
