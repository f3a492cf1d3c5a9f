package pdb

import "fmt"

// artworkHeaderSize covers Artwork's fixed id field; its string region
// ("path") always begins immediately after (§4.4).
const artworkHeaderSize = 4

// Artwork is a `(id, path)` row (§4.4).
type Artwork struct {
	ID   uint32
	Path TaggedString
}

func (r Artwork) PageType() PageType { return PageTypeArtwork }
func (r Artwork) ByteLen() int       { return artworkHeaderSize + r.Path.ByteLen() }

func (r Artwork) Encode() []byte {
	buf := make([]byte, r.ByteLen())
	writeU32(buf, 0, r.ID)
	WriteTaggedString(buf, artworkHeaderSize, r.Path)
	return buf
}

func decodeArtwork(buf []byte, off int) (RowVariant, int, error) {
	if off+artworkHeaderSize > len(buf) {
		return nil, 0, fmt.Errorf("%w: artwork header at %d", ErrBounds, off)
	}
	id := readU32(buf, off)
	path, n, err := ReadTaggedString(buf, off+artworkHeaderSize)
	if err != nil {
		return nil, 0, err
	}
	return Artwork{ID: id, Path: path}, artworkHeaderSize + n, nil
}

// colorHeaderSize covers Color's fixed fields: unknown:u32 code:u8
// name_offset:u8 color_id:u16 (§4.4).
const colorHeaderSize = 4 + 1 + 1 + 2

// Color is the Color row variant (§4.4).
type Color struct {
	Unknown uint32
	Code    uint8
	ColorID uint16
	Name    TaggedString
}

func (r Color) PageType() PageType { return PageTypeColors }
func (r Color) ByteLen() int       { return colorHeaderSize + r.Name.ByteLen() }

func (r Color) Encode() []byte {
	buf := make([]byte, r.ByteLen())
	writeU32(buf, 0, r.Unknown)
	buf[4] = r.Code
	buf[5] = colorHeaderSize
	writeU16(buf, 6, r.ColorID)
	WriteTaggedString(buf, colorHeaderSize, r.Name)
	return buf
}

func decodeColor(buf []byte, off int) (RowVariant, int, error) {
	if off+colorHeaderSize > len(buf) {
		return nil, 0, fmt.Errorf("%w: color header at %d", ErrBounds, off)
	}
	r := Color{
		Unknown: readU32(buf, off),
		Code:    buf[off+4],
		ColorID: readU16(buf, off+6),
	}
	nameOff := int(buf[off+5])
	name, n, err := ReadTaggedString(buf, off+nameOff)
	if err != nil {
		return nil, 0, err
	}
	r.Name = name
	return r, nameOff + n, nil
}

func init() {
	registerDecoder(PageTypeArtwork, decodeArtwork)
	registerDecoder(PageTypeColors, decodeColor)
}
