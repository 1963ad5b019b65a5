// Package gnt decodes the CASIA GNT handwriting sample format: a flat stream
// of records, each holding one grayscale character image and its GB2312 label.
package gnt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"
)

// On-disk sizes of the fixed record fields.
const (
	lengthFieldSize = 4
	labelSize       = 2
	dimsSize        = 4

	// recordOverhead is everything except the pixel payload. The length
	// field counts itself, so a record declares recordOverhead+width*height.
	recordOverhead = lengthFieldSize + labelSize + dimsSize
)

// Record is one decoded GNT sample. It is handed to the caller on each
// decode step; the Reader keeps no reference to it afterwards.
type Record struct {
	Label  string // label text, decoded from GB2312
	Width  int    // pixel columns
	Height int    // pixel rows
	Pixels []byte // row-major grayscale intensities, len Width*Height
}

// At returns the intensity at column x, row y.
func (r *Record) At(x, y int) byte {
	return r.Pixels[y*r.Width+x]
}

// Gray wraps the pixel payload as an image.Gray without copying.
func (r *Record) Gray() *image.Gray {
	return &image.Gray{
		Pix:    r.Pixels,
		Stride: r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Options configures a Reader.
type Options struct {
	// TrustDeclaredLength skips cross-checking the record's declared size
	// against the size implied by its dimensions. The original CASIA
	// tooling never validates the field; leave this false to catch corrupt
	// or misaligned files instead of silently yielding garbage images.
	TrustDeclaredLength bool
}

// DefaultOptions returns the default reader options.
func DefaultOptions() Options {
	return Options{}
}

// Reader is a pull-based cursor over a GNT byte stream. Records are decoded
// one at a time as the caller asks for them; nothing is buffered beyond
// bufio readahead. A Reader is not safe for concurrent use and cannot be
// rewound — to iterate again, open a fresh stream.
type Reader struct {
	br     *bufio.Reader
	opts   Options
	offset int64
	err    error // sticky; set by the first structural failure
}

// NewReader returns a Reader positioned at the start of a record.
func NewReader(r io.Reader) *Reader {
	return NewReaderOptions(r, DefaultOptions())
}

// NewReaderOptions returns a Reader with explicit options.
func NewReaderOptions(r io.Reader, opts Options) *Reader {
	return &Reader{br: bufio.NewReader(r), opts: opts}
}

// Offset returns the number of bytes consumed so far. After a successful
// Next this is exactly the start of the following record.
func (r *Reader) Offset() int64 { return r.offset }

// Next decodes and returns the next record. It returns io.EOF when the
// stream ends exactly on a record boundary; any other error is fatal for the
// stream and repeated calls keep returning it.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	rec, err := r.next()
	if err != nil && err != io.EOF {
		r.err = err
	}
	return rec, err
}

func (r *Reader) next() (*Record, error) {
	start := r.offset

	var hdr [lengthFieldSize]byte
	n, err := io.ReadFull(r.br, hdr[:])
	if err == io.EOF {
		// Nothing left at a record boundary: the one clean terminator.
		return nil, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return nil, &TruncatedError{Offset: start, Field: "record length", Need: lengthFieldSize, Got: n}
	}
	if err != nil {
		return nil, fmt.Errorf("gnt: read record length at offset %d: %w", start, err)
	}
	r.offset += lengthFieldSize
	declared := binary.LittleEndian.Uint32(hdr[:])

	// The two label bytes are independent GB2312 code units, not a 16-bit
	// integer; they are decoded as one double-byte sequence.
	var rawLabel [labelSize]byte
	if err := r.readField("label", rawLabel[:]); err != nil {
		return nil, err
	}
	label, err := DecodeLabel(rawLabel[:])
	if err != nil {
		return nil, &LabelError{Offset: r.offset - labelSize, Raw: rawLabel, Err: err}
	}

	var dims [dimsSize]byte
	if err := r.readField("dimensions", dims[:]); err != nil {
		return nil, err
	}
	width := int(binary.LittleEndian.Uint16(dims[0:2]))
	height := int(binary.LittleEndian.Uint16(dims[2:4]))
	payload := width * height

	if !r.opts.TrustDeclaredLength {
		if computed := recordOverhead + payload; int(declared) != computed {
			return nil, &LengthMismatchError{Offset: start, Declared: declared, Computed: computed}
		}
	}

	pixels := make([]byte, payload)
	if err := r.readField("pixel payload", pixels); err != nil {
		return nil, err
	}

	return &Record{Label: label, Width: width, Height: height, Pixels: pixels}, nil
}

// readField reads an exact-length field, mapping any early end of stream to
// TruncatedError. A clean io.EOF is not possible here: once the length field
// has been read, the rest of the record is owed.
func (r *Reader) readField(field string, buf []byte) error {
	n, err := io.ReadFull(r.br, buf)
	switch err {
	case nil:
		r.offset += int64(n)
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return &TruncatedError{Offset: r.offset, Field: field, Need: len(buf), Got: n}
	default:
		return fmt.Errorf("gnt: read %s at offset %d: %w", field, r.offset, err)
	}
}

// ReadAll decodes every remaining record. On error it returns the records
// decoded before the failure along with the error. Prefer Next for large
// files; ReadAll materializes the whole stream in memory.
func (r *Reader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
