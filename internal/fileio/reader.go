// Package fileio reads CSV files into text for the conversion engine and
// writes converted output back to disk or stdout.
//
// Reading applies, in order:
//
//  1. Size limiting (files over Limits.MaxSize are rejected)
//  2. Byte counting for logging
//  3. Charset detection and decoding of legacy encodings to UTF-8
//  4. UTF-8 BOM removal
//  5. Replacement of invalid UTF-8 with U+FFFD
package fileio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/csvconv/internal/logging"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Errors returned by the reader. Their text is matched by core.MapError.
var (
	ErrNoFile       = errors.New("no file provided")
	ErrNotCSV       = errors.New("file must be a CSV file")
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyFile    = errors.New("empty file")
	ErrEncoding     = errors.New("encoding error")
)

// detectSampleSize is how many bytes are inspected for charset detection.
const detectSampleSize = 2048

// Limits constrains what ReadCSV accepts.
type Limits struct {
	MaxSize           int64    // Maximum size in bytes; 0 means unlimited
	AllowedExtensions []string // Accepted extensions, e.g. ".csv"; empty accepts any
	DetectEncoding    bool     // Decode non-UTF-8 input using charset detection
}

// DefaultLimits returns a 10MB limit for .csv files with encoding detection.
func DefaultLimits() Limits {
	return Limits{
		MaxSize:           10 * 1024 * 1024,
		AllowedExtensions: []string{".csv"},
		DetectEncoding:    true,
	}
}

func (l Limits) allows(path string) bool {
	if len(l.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range l.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

// ReadCSV reads the file at path and returns its text as UTF-8.
func ReadCSV(ctx context.Context, path string, lim Limits) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrNoFile
	}
	if !lim.allows(path) {
		return "", fmt.Errorf("%w: %s", ErrNotCSV, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("failed to read file: %s is a directory", path)
	}
	if lim.MaxSize > 0 && info.Size() > lim.MaxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, info.Size(), lim.MaxSize)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, filepath.Base(path))
	}

	logging.FromContext(ctx).Debug("reading file", "path", path, "size", info.Size())
	return ReadText(ctx, f, lim)
}

// ReadText reads all of r and returns it as UTF-8 text. The size limit is
// enforced while reading, so r may be a pipe of unknown length.
func ReadText(ctx context.Context, r io.Reader, lim Limits) (string, error) {
	if r == nil {
		return "", ErrNoFile
	}

	src := r
	if lim.MaxSize > 0 {
		src = io.LimitReader(r, lim.MaxSize+1)
	}
	counter := &countingReader{reader: src}

	decoded, charset, err := decodeReader(counter, lim.DetectEncoding)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(newSanitizingReader(skipBOM(decoded)))
	if err != nil {
		if charset != "utf-8" {
			return "", fmt.Errorf("%w: decoding %s: %v", ErrEncoding, charset, err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if lim.MaxSize > 0 && counter.n > lim.MaxSize {
		return "", fmt.Errorf("%w: exceeds limit of %d bytes", ErrFileTooLarge, lim.MaxSize)
	}

	logging.FromContext(ctx).Debug("text decoded",
		"bytes_read", counter.n,
		"charset", charset,
		"chars", utf8.RuneCount(data),
	)
	return string(data), nil
}

// decodeReader wraps r with a decoder for its charset. Input that is already
// valid UTF-8 is never re-decoded.
func decodeReader(r io.Reader, detect bool) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, detectSampleSize)
	if !detect {
		return br, "utf-8", nil
	}

	sample, err := br.Peek(detectSampleSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(sample) == 0 || validUTF8Prefix(sample) {
		return br, "utf-8", nil
	}

	charset := "utf-8"
	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil && res != nil {
		charset = strings.ToLower(res.Charset)
	}

	if charset == "utf-8" {
		return br, charset, nil
	}
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, "", fmt.Errorf("%w: unsupported charset %s", ErrEncoding, charset)
	}
	return transform.NewReader(br, enc.NewDecoder()), charset, nil
}

// lookupEncoding maps a detected charset name to a decoder. Common
// spreadsheet exports are matched directly; other names go through the
// WHATWG index.
func lookupEncoding(charset string) (encoding.Encoding, error) {
	switch charset {
	case "windows-1252":
		return charmap.Windows1252, nil
	case "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15":
		return charmap.ISO8859_15, nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	}
	return htmlindex.Get(charset)
}

// validUTF8Prefix reports whether b is valid UTF-8, allowing for a rune cut
// off at the end of the sample.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && i < len(b); i++ {
		if utf8.Valid(b[:len(b)-i]) {
			return i == 0 || !utf8.FullRune(b[len(b)-i:])
		}
	}
	return false
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 byte order mark, commonly added by Windows
// programs.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// sanitizingReader replaces each invalid UTF-8 byte with U+FFFD as it streams.
type sanitizingReader struct {
	src *bufio.Reader
	buf []byte // Encoded runes not yet returned
}

func newSanitizingReader(r io.Reader) *sanitizingReader {
	return &sanitizingReader{src: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (s *sanitizingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.buf) < len(p) {
		r, _, err := s.src.ReadRune()
		if err != nil {
			if len(s.buf) > 0 {
				break
			}
			return 0, err
		}
		// Invalid bytes come back as RuneError, which encodes as U+FFFD.
		s.buf = utf8.AppendRune(s.buf, r)
	}
	n := copy(p, s.buf)
	if n == len(s.buf) {
		s.buf = s.buf[:0]
	} else {
		s.buf = s.buf[n:]
	}
	return n, nil
}

// countingReader tracks bytes read for logging and the size limit.
type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}
