package pdb

import "fmt"

// Genre, Key, Label and HistoryPlaylist share the same on-disk shape:
// `(id: u32, name: string)` with a single string-offset field in the fixed
// header pointing to the trailing name region (§4.4).

const simpleRowHeaderSize = 4 + 2 // id u32 + name_offset u16

// Genre is a `(id, name)` row (§4.4).
type Genre struct {
	ID   uint32
	Name TaggedString
}

func (r Genre) PageType() PageType { return PageTypeGenres }
func (r Genre) ByteLen() int       { return simpleRowHeaderSize + r.Name.ByteLen() }
func (r Genre) Encode() []byte     { return encodeSimpleRow(r.ID, r.Name) }

// Key is a `(id, name)` row (§4.4).
type Key struct {
	ID   uint32
	Name TaggedString
}

func (r Key) PageType() PageType { return PageTypeKeys }
func (r Key) ByteLen() int       { return simpleRowHeaderSize + r.Name.ByteLen() }
func (r Key) Encode() []byte     { return encodeSimpleRow(r.ID, r.Name) }

// Label is a `(id, name)` row (§4.4).
type Label struct {
	ID   uint32
	Name TaggedString
}

func (r Label) PageType() PageType { return PageTypeLabels }
func (r Label) ByteLen() int       { return simpleRowHeaderSize + r.Name.ByteLen() }
func (r Label) Encode() []byte     { return encodeSimpleRow(r.ID, r.Name) }

// HistoryPlaylist is a `(id, name)` row (§4.4).
type HistoryPlaylist struct {
	ID   uint32
	Name TaggedString
}

func (r HistoryPlaylist) PageType() PageType { return PageTypeHistoryPlaylists }
func (r HistoryPlaylist) ByteLen() int       { return simpleRowHeaderSize + r.Name.ByteLen() }
func (r HistoryPlaylist) Encode() []byte     { return encodeSimpleRow(r.ID, r.Name) }

func encodeSimpleRow(id uint32, name TaggedString) []byte {
	buf := make([]byte, simpleRowHeaderSize+name.ByteLen())
	writeU32(buf, 0, id)
	writeU16(buf, 4, simpleRowHeaderSize)
	WriteTaggedString(buf, simpleRowHeaderSize, name)
	return buf
}

func decodeSimpleRow(buf []byte, off int) (id uint32, name TaggedString, width int, err error) {
	if off+simpleRowHeaderSize > len(buf) {
		return 0, TaggedString{}, 0, fmt.Errorf("%w: simple row header at %d", ErrBounds, off)
	}
	id = readU32(buf, off)
	nameOff := int(readU16(buf, off+4))
	name, n, err := ReadTaggedString(buf, off+nameOff)
	if err != nil {
		return 0, TaggedString{}, 0, err
	}
	return id, name, nameOff + n, nil
}

func init() {
	registerDecoder(PageTypeGenres, func(buf []byte, off int) (RowVariant, int, error) {
		id, name, w, err := decodeSimpleRow(buf, off)
		if err != nil {
			return nil, 0, err
		}
		return Genre{ID: id, Name: name}, w, nil
	})
	registerDecoder(PageTypeKeys, func(buf []byte, off int) (RowVariant, int, error) {
		id, name, w, err := decodeSimpleRow(buf, off)
		if err != nil {
			return nil, 0, err
		}
		return Key{ID: id, Name: name}, w, nil
	})
	registerDecoder(PageTypeLabels, func(buf []byte, off int) (RowVariant, int, error) {
		id, name, w, err := decodeSimpleRow(buf, off)
		if err != nil {
			return nil, 0, err
		}
		return Label{ID: id, Name: name}, w, nil
	})
	registerDecoder(PageTypeHistoryPlaylists, func(buf []byte, off int) (RowVariant, int, error) {
		id, name, w, err := decodeSimpleRow(buf, off)
		if err != nil {
			return nil, 0, err
		}
		return HistoryPlaylist{ID: id, Name: name}, w, nil
	})
}
