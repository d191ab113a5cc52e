// Package reader implements Reader, a cursor over a BitSeq (§4.5),
// generalized from structex's decoder.go byte/bit cursor (which walks a
// reflect-driven struct tree over an io.Reader) to a standalone cursor
// over an in-memory BitSeq that FieldType trees parse against.
package reader

import (
	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/dtype"
	"github.com/scgriffiths/bitformat-go/fieldtype"
)

// Reader wraps a BitSeq and a bit position, advancing as bits are read.
type Reader struct {
	bits bitseq.BitSeq
	pos  int
}

// New builds a Reader starting at position 0.
func New(bits bitseq.BitSeq) *Reader {
	return &Reader{bits: bits}
}

// Pos returns the current bit position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total number of bits available.
func (r *Reader) Len() int { return r.bits.Len() }

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return r.bits.Len() - r.pos }

func (r *Reader) bitsAt(pos, n int) (bitseq.BitSeq, error) {
	if n < 0 || pos+n > r.bits.Len() {
		return bitseq.BitSeq{}, bferr.NewRead("read past end: position %d, requested %d bits, %d available", pos, n, r.bits.Len()-pos)
	}
	return r.bits.Slice(pos, pos+n)
}

// Read returns the next n bits as a BitSeq and advances past them.
func (r *Reader) Read(n int) (bitseq.BitSeq, error) {
	bits, err := r.bitsAt(r.pos, n)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	r.pos += n
	return bits, nil
}

// Peek is Read without advancing the cursor.
func (r *Reader) Peek(n int) (bitseq.BitSeq, error) {
	return r.bitsAt(r.pos, n)
}

// ReadDtype reads exactly d.BitLength() bits, advances, and returns the
// decoded value.
func (r *Reader) ReadDtype(d dtype.Dtype) (interface{}, error) {
	n, err := d.BitLength()
	if err != nil {
		return nil, err
	}
	bits, err := r.Read(n)
	if err != nil {
		return nil, err
	}
	return d.Unpack(bits)
}

// PeekDtype is ReadDtype without advancing the cursor.
func (r *Reader) PeekDtype(d dtype.Dtype) (interface{}, error) {
	n, err := d.BitLength()
	if err != nil {
		return nil, err
	}
	bits, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	return d.Unpack(bits)
}

// Parse parses ft at the current position against env, advancing past
// however many bits it consumed.
func (r *Reader) Parse(ft fieldtype.FieldType, env fieldtype.Env) error {
	remaining, err := r.bits.Slice(r.pos, r.bits.Len())
	if err != nil {
		return err
	}
	consumed, err := ft.Parse(remaining, env)
	if err != nil {
		return err
	}
	r.pos += consumed
	return nil
}
