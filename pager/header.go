package pager

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header page layout (page 0, little-endian):
//
//	bytes 0-3    magic "TTBL"
//	bytes 4-5    format version
//	bytes 6-9    root page number
//	bytes 10-13  row count
//	bytes 14-17  page count
const (
	HeaderPageNum uint32 = 0
	FormatVersion uint16 = 1

	magicOffset     = 0
	versionOffset   = 4
	rootOffset      = 6
	rowCountOffset  = 10
	pageCountOffset = 14
)

var headerMagic = [4]byte{'T', 'T', 'B', 'L'}

// Header is the table metadata recorded on page 0. It must round-trip:
// writing it, reopening the file and reading it back yields the same
// values.
type Header struct {
	RootPage  uint32
	RowCount  uint32
	PageCount uint32
}

// WriteHeader encodes h onto the header page. The page is persisted on
// the next Flush like any other.
func (p *Pager) WriteHeader(h Header) error {
	page, err := p.GetPage(HeaderPageNum)
	if err != nil {
		return err
	}
	copy(page[magicOffset:], headerMagic[:])
	binary.LittleEndian.PutUint16(page[versionOffset:], FormatVersion)
	binary.LittleEndian.PutUint32(page[rootOffset:], h.RootPage)
	binary.LittleEndian.PutUint32(page[rowCountOffset:], h.RowCount)
	binary.LittleEndian.PutUint32(page[pageCountOffset:], h.PageCount)
	return nil
}

// ReadHeader decodes the header page, validating magic and version.
func (p *Pager) ReadHeader() (Header, error) {
	page, err := p.GetPage(HeaderPageNum)
	if err != nil {
		return Header{}, err
	}
	if !bytes.Equal(page[magicOffset:magicOffset+4], headerMagic[:]) {
		return Header{}, fmt.Errorf("%w: bad magic in header page", ErrStorage)
	}
	if v := binary.LittleEndian.Uint16(page[versionOffset:]); v != FormatVersion {
		return Header{}, fmt.Errorf("%w: unsupported format version %d", ErrStorage, v)
	}
	return Header{
		RootPage:  binary.LittleEndian.Uint32(page[rootOffset:]),
		RowCount:  binary.LittleEndian.Uint32(page[rowCountOffset:]),
		PageCount: binary.LittleEndian.Uint32(page[pageCountOffset:]),
	}, nil
}
