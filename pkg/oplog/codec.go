package oplog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameSize bounds a single encoded record.
const MaxFrameSize = 16 << 20

// ErrFrameTooLarge is returned for frames over MaxFrameSize.
var ErrFrameTooLarge = errors.New("oplog: frame too large")

// Marshal encodes r as a msgpack payload without framing.
func Marshal(r Record) ([]byte, error) {
	return msgpack.Marshal(&r)
}

// Unmarshal decodes a payload produced by Marshal.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("oplog: decode record: %w", err)
	}
	return r, nil
}

// WriteFrame writes r to w as one length-prefixed frame.
func WriteFrame(w io.Writer, r Record) error {
	payload, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("oplog: encode record %d: %w", r.Seq, err)
	}
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Reader reads frames written by WriteFrame.
type Reader struct {
	r *bufio.Reader
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF at a clean end of stream.
func (r *Reader) Next() (Record, error) {
	var header [4]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Record{}, fmt.Errorf("oplog: truncated frame header: %w", err)
		}
		return Record{}, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return Record{}, ErrFrameTooLarge
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return Record{}, fmt.Errorf("oplog: truncated frame: %w", err)
	}
	return Unmarshal(payload)
}

// Decode reads every record from r.
func Decode(r io.Reader) ([]Record, error) {
	rd := NewReader(r)
	var out []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
