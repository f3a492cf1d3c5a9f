package pdb

import "fmt"

// albumMagic is the fixed byte spec.md §4.4 lists inline in Album's field
// order ("0x44"); preserved and validated rather than reinterpreted.
const albumMagic = 0x44

// albumHeaderSize is the fixed-width portion of an Album row, ending at the
// one-byte name_offset field (§4.4):
//
//	unknown:u32 index_shift:u16 flags:u32 artist_id:u32 album_art_id:u32
//	playlist_id:u32 magic:u8(=0x44) unknown2:u8 id:u32 name_offset:u8
const albumHeaderSize = 4 + 2 + 4 + 4 + 4 + 4 + 1 + 1 + 4 + 1 // 29

// Album is the Album row variant (§4.4).
type Album struct {
	Unknown     uint32
	IndexShift  uint16
	Flags       uint32
	ArtistID    uint32
	AlbumArtID  uint32
	PlaylistID  uint32
	Unknown2    uint8
	ID          uint32
	Name        TaggedString
}

func (r Album) PageType() PageType { return PageTypeAlbums }
func (r Album) ByteLen() int       { return albumHeaderSize + r.Name.ByteLen() }

func (r Album) Encode() []byte {
	buf := make([]byte, r.ByteLen())
	writeU32(buf, 0, r.Unknown)
	writeU16(buf, 4, r.IndexShift)
	writeU32(buf, 6, r.Flags)
	writeU32(buf, 10, r.ArtistID)
	writeU32(buf, 14, r.AlbumArtID)
	writeU32(buf, 18, r.PlaylistID)
	buf[22] = albumMagic
	buf[23] = r.Unknown2
	writeU32(buf, 24, r.ID)
	buf[28] = albumHeaderSize
	WriteTaggedString(buf, albumHeaderSize, r.Name)
	return buf
}

func decodeAlbum(buf []byte, off int) (RowVariant, int, error) {
	if off+albumHeaderSize > len(buf) {
		return nil, 0, fmt.Errorf("%w: album header at %d", ErrBounds, off)
	}
	if buf[off+22] != albumMagic {
		return nil, 0, fmt.Errorf("%w: album magic byte at %d", ErrAssertion, off+22)
	}
	r := Album{
		Unknown:    readU32(buf, off),
		IndexShift: readU16(buf, off+4),
		Flags:      readU32(buf, off+6),
		ArtistID:   readU32(buf, off+10),
		AlbumArtID: readU32(buf, off+14),
		PlaylistID: readU32(buf, off+18),
		Unknown2:   buf[off+23],
		ID:         readU32(buf, off+24),
	}
	nameOff := int(buf[off+28])
	name, n, err := ReadTaggedString(buf, off+nameOff)
	if err != nil {
		return nil, 0, err
	}
	r.Name = name
	return r, nameOff + n, nil
}

func init() {
	registerDecoder(PageTypeAlbums, decodeAlbum)
}
