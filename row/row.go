// Package row implements the fixed-width codec for table rows: a u32 id
// followed by two NUL-padded text columns. Size is published so the tree
// layer can derive leaf capacity from it.
package row

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

const (
	IDSize       = 4
	UsernameSize = 32
	EmailSize    = 255

	// Size is the serialized row width consumed per leaf cell.
	Size = IDSize + UsernameSize + EmailSize
)

var (
	ErrInvalidID     = errors.New("row: id is invalid")
	ErrStringTooLong = errors.New("row: string is too long")
	// ErrCorrupt reports row bytes this codec could not have produced.
	ErrCorrupt = errors.New("row: corrupt row bytes")
)

// Row is one record of the table's fixed schema. Text columns are stored
// NUL-padded to their maximum width.
type Row struct {
	ID       uint32
	username [UsernameSize]byte
	email    [EmailSize]byte
}

// New builds a row from text fields, validating the id and the column
// widths.
func New(id, username, email string) (Row, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return Row{}, ErrInvalidID
	}
	return NewFromValues(uint32(n), username, email)
}

// NewFromValues builds a row from already-typed fields.
func NewFromValues(id uint32, username, email string) (Row, error) {
	if len(username) > UsernameSize || len(email) > EmailSize {
		return Row{}, ErrStringTooLong
	}
	var r Row
	r.ID = id
	copy(r.username[:], username)
	copy(r.email[:], email)
	return r, nil
}

func (r Row) Username() string { return trimNUL(r.username[:]) }

func (r Row) Email() string { return trimNUL(r.email[:]) }

// Serialize writes the row into dst, which must hold at least Size bytes.
func (r Row) Serialize(dst []byte) {
	_ = dst[Size-1]
	binary.LittleEndian.PutUint32(dst[0:IDSize], r.ID)
	copy(dst[IDSize:IDSize+UsernameSize], r.username[:])
	copy(dst[IDSize+UsernameSize:Size], r.email[:])
}

// Deserialize decodes a row from src. Serialize always NUL-pads the text
// columns, so a non-NUL byte after the first NUL cannot come from this
// codec and is reported as ErrCorrupt.
func Deserialize(src []byte) (Row, error) {
	if len(src) < Size {
		return Row{}, fmt.Errorf("%w: %d bytes, want %d", ErrCorrupt, len(src), Size)
	}
	var r Row
	r.ID = binary.LittleEndian.Uint32(src[0:IDSize])
	copy(r.username[:], src[IDSize:IDSize+UsernameSize])
	copy(r.email[:], src[IDSize+UsernameSize:Size])
	if !validPadding(r.username[:]) || !validPadding(r.email[:]) {
		return Row{}, ErrCorrupt
	}
	return r, nil
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username(), r.Email())
}

func validPadding(field []byte) bool {
	i := bytes.IndexByte(field, 0)
	if i < 0 {
		return true
	}
	for _, b := range field[i:] {
		if b != 0 {
			return false
		}
	}
	return true
}

func trimNUL(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
