/*
Package cursor implements a sequential reader and writer over a fixed-size
byte buffer with absolute seeking.

The buffer never grows; any read or write that would run past the end fails
with ErrOutOfRange and leaves both the buffer and the position untouched.
*/
package cursor

import "errors"

// ErrOutOfRange is returned when an operation would run past the end of the
// buffer.
var ErrOutOfRange = errors.New("cursor: out of range")

// Cursor is a position within a fixed-size byte buffer. It implements
// io.Writer, io.ByteReader and io.ByteWriter.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of b. Writes go directly to b.
func New(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Seek moves the cursor to the absolute address.
func (c *Cursor) Seek(address int) {
	c.pos = address
}

// Rewind moves the cursor back to the start of the buffer.
func (c *Cursor) Rewind() {
	c.pos = 0
}

// Size returns the size of the underlying buffer.
func (c *Cursor) Size() int {
	return len(c.buf)
}

// Position returns the current address.
func (c *Cursor) Position() int {
	return c.pos
}

func (c *Cursor) check(n int) error {
	if c.pos < 0 || n < 0 || c.pos+n > len(c.buf) {
		return ErrOutOfRange
	}
	return nil
}

// ReadBytes returns a copy of the next n bytes and advances the cursor.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, c.buf[c.pos:])
	c.pos += n
	return b, nil
}

// ReadByte returns the next byte and advances the cursor.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.check(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// WriteByte writes b and advances the cursor.
func (c *Cursor) WriteByte(b byte) error {
	if err := c.check(1); err != nil {
		return err
	}
	c.buf[c.pos] = b
	c.pos++
	return nil
}

// WriteBytes writes all of p and advances the cursor. Nothing is written if p
// does not fit.
func (c *Cursor) WriteBytes(p []byte) error {
	if err := c.check(len(p)); err != nil {
		return err
	}
	c.pos += copy(c.buf[c.pos:], p)
	return nil
}

// Write implements io.Writer.
func (c *Cursor) Write(p []byte) (int, error) {
	if err := c.WriteBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// FillUntil writes b repeatedly until the cursor reaches stop. It does
// nothing if the cursor is already at or beyond stop.
func (c *Cursor) FillUntil(b byte, stop int) error {
	if c.pos >= stop {
		return nil
	}
	if err := c.check(stop - c.pos); err != nil {
		return err
	}
	for ; c.pos < stop; c.pos++ {
		c.buf[c.pos] = b
	}
	return nil
}
