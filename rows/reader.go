package rows

import (
	"bufio"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/usageload/core"
)

const byteOrderMark = "\uFEFF"

// Reader produces Records from a delimited text stream.
type Reader struct {
	csv    *csv.Reader
	header *core.Header
	digest hash.Hash
	closer io.Closer
	line   int
	done   bool
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	delimiter rune
	trimSpace bool
}

// WithDelimiter sets the column delimiter. Default is ','.
func WithDelimiter(delimiter rune) Option {
	return func(o *options) {
		o.delimiter = delimiter
	}
}

// WithTrimSpace trims leading white space from every value.
func WithTrimSpace(trim bool) Option {
	return func(o *options) {
		o.trimSpace = trim
	}
}

// Open opens the file at path and reads its header.
// The caller must Close the returned Reader.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInput, err)
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader wraps r and consumes the header line.
// Returns an error wrapping core.ErrInput if the header cannot be read.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := &options{delimiter: ','}
	for _, opt := range opts {
		opt(o)
	}
	if !validDelimiter(o.delimiter) {
		return nil, fmt.Errorf("%w: invalid delimiter %q", core.ErrInput, o.delimiter)
	}

	digest, err := blake2b.New(32, nil)
	if err != nil {
		return nil, err
	}

	src := bufio.NewReader(io.TeeReader(r, digest))
	if err := skipByteOrderMark(src); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", core.ErrInput, err)
	}

	cr := csv.NewReader(src)
	cr.Comma = o.delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = o.trimSpace

	reader := &Reader{
		csv:    cr,
		digest: digest,
	}

	columns, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %w", core.ErrInput, core.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", core.ErrInput, err)
	}
	reader.header = core.NewHeader(columns)
	reader.line, _ = cr.FieldPos(0)

	return reader, nil
}

// skipByteOrderMark discards a leading UTF-8 byte order mark so that a
// quoted first header field still parses.
func skipByteOrderMark(r *bufio.Reader) error {
	mark, err := r.Peek(len(byteOrderMark))
	if err != nil && err != io.EOF {
		return err
	}
	if string(mark) == byteOrderMark {
		_, err = r.Discard(len(byteOrderMark))
		return err
	}
	return nil
}

// Header returns the column names read from the first line.
func (r *Reader) Header() []string {
	return r.header.Columns()
}

// Next returns the next Record, or io.EOF once the input is exhausted.
// A malformed row returns an error wrapping core.ErrInput; the Reader
// must not be used after that.
func (r *Reader) Next() (core.Record, error) {
	if r.done {
		return core.Record{}, io.EOF
	}

	values, err := r.csv.Read()
	if err == io.EOF {
		r.done = true
		return core.Record{}, io.EOF
	}
	if err != nil {
		r.done = true
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return core.Record{}, fmt.Errorf("%w: line %d: %w", core.ErrInput, parseErr.StartLine, parseErr.Err)
		}
		return core.Record{}, fmt.Errorf("%w: %w", core.ErrInput, err)
	}

	r.line, _ = r.csv.FieldPos(0)
	return core.NewRecord(r.header, r.line, values), nil
}

// Digest returns the hex BLAKE2b-256 sum of the bytes consumed so far.
// After Next has returned io.EOF it covers the whole input.
func (r *Reader) Digest() string {
	return hex.EncodeToString(r.digest.Sum(nil))
}

// Close closes the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	r.done = true
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// ParseDelimiter converts a flag value into a delimiter rune.
// Accepts a single character, the escape "\t", or the word "tab".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	d, _ := utf8.DecodeRuneInString(s)
	if !validDelimiter(d) {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return d, nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
