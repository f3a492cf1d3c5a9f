package pdb

import "fmt"

// columnEntrySize is ColumnEntry's fixed width: two u16 fields, no string
// region (§4.4).
const columnEntrySize = 2 + 2

// ColumnEntry is a `(column_type, column_number)` row (§4.4).
type ColumnEntry struct {
	ColumnType   uint16
	ColumnNumber uint16
}

func (r ColumnEntry) PageType() PageType { return PageTypeColumns }
func (r ColumnEntry) ByteLen() int       { return columnEntrySize }

func (r ColumnEntry) Encode() []byte {
	buf := make([]byte, columnEntrySize)
	writeU16(buf, 0, r.ColumnType)
	writeU16(buf, 2, r.ColumnNumber)
	return buf
}

func decodeColumnEntry(buf []byte, off int) (RowVariant, int, error) {
	if off+columnEntrySize > len(buf) {
		return nil, 0, fmt.Errorf("%w: column entry at %d", ErrBounds, off)
	}
	return ColumnEntry{
		ColumnType:   readU16(buf, off),
		ColumnNumber: readU16(buf, off+2),
	}, columnEntrySize, nil
}

func init() {
	registerDecoder(PageTypeColumns, decodeColumnEntry)
}
