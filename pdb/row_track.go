package pdb

import "fmt"

// Track is the largest row variant: a fixed 212-byte header (numeric
// fields plus a trailing table of 21 string offsets) followed by the 21
// string regions themselves (§4.4).
//
// The distilled spec names the numeric fields and notes "≥21 string
// regions" without pinning exact byte offsets for either; the concrete
// layout below is this implementation's resolution (see DESIGN.md), built
// to satisfy every named field and the declared total sizes:
//
//	trackHeaderSize        = 212
//	trackNumericFieldsSize = 79  (24 named numeric fields)
//	+ 1 id field (4 bytes), the row's own primary key
//	+ trackReservedSize    = 87  (undocumented "unknown" padding, preserved verbatim)
//	+ trackStringCount*2   = 42  (21 string offsets, trailing)
//	  79 + 4 + 87 + 42 = 212
const (
	trackHeaderSize    = 212
	trackStringCount   = 21
	trackOffsetTableOff = trackHeaderSize - trackStringCount*2 // 170
	trackReservedSize   = trackOffsetTableOff - (79 + 4)       // 87
	trackReservedOff    = 79 + 4                               // 83
)

// Named string slot indices; slots 9..20 are preserved losslessly but have
// no spec-given name (§4.4 "etc.").
const (
	trackSlotISRC = iota
	trackSlotPath
	trackSlotTitle
	trackSlotComment
	trackSlotAnalyzePath
	trackSlotAnalyzeDate
	trackSlotReleaseDate
	trackSlotMixName
	trackSlotDateAdded
)

// Track is the Track row variant (§4.4).
type Track struct {
	ID                 uint32
	Tempo              uint16 // x100
	Rating              uint8 // 0..5
	SampleRate          uint32
	Duration            uint32
	BitDepth            uint16
	SampleDepth         uint16
	Bitrate             uint32
	PlayCount           uint32
	Year                uint16
	ColorID             uint32
	GenreID             uint32
	ArtistID            uint32
	AlbumID             uint32
	KeyID               uint32
	ArtworkID           uint32
	TrackNumber         uint32
	DiscNumber          uint32
	AnalyzeDateEncoded  uint32
	ComposerID          uint32
	LabelID             uint32
	RemixerID           uint32
	OriginalArtistID    uint32
	AutoloadHotcues     bool
	KuvoPublic          bool

	Reserved [trackReservedSize]byte

	// Strings holds all 21 string regions in on-disk order; use the
	// ISRC/Path/... accessors for the named slots.
	Strings [trackStringCount]TaggedString
}

func (r Track) ISRC() TaggedString        { return r.Strings[trackSlotISRC] }
func (r Track) Path() TaggedString        { return r.Strings[trackSlotPath] }
func (r Track) Title() TaggedString       { return r.Strings[trackSlotTitle] }
func (r Track) Comment() TaggedString     { return r.Strings[trackSlotComment] }
func (r Track) AnalyzePath() TaggedString { return r.Strings[trackSlotAnalyzePath] }
func (r Track) AnalyzeDate() TaggedString { return r.Strings[trackSlotAnalyzeDate] }
func (r Track) ReleaseDate() TaggedString { return r.Strings[trackSlotReleaseDate] }
func (r Track) MixName() TaggedString     { return r.Strings[trackSlotMixName] }
func (r Track) DateAdded() TaggedString   { return r.Strings[trackSlotDateAdded] }

func (r Track) PageType() PageType { return PageTypeTracks }

func (r Track) ByteLen() int {
	n := trackHeaderSize
	for _, s := range r.Strings {
		n += s.ByteLen()
	}
	return n
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (r Track) Encode() []byte {
	buf := make([]byte, r.ByteLen())
	writeU32(buf, 0, r.ID)
	writeU16(buf, 4, r.Tempo)
	buf[6] = r.Rating
	writeU32(buf, 7, r.SampleRate)
	writeU32(buf, 11, r.Duration)
	writeU16(buf, 15, r.BitDepth)
	writeU16(buf, 17, r.SampleDepth)
	writeU32(buf, 19, r.Bitrate)
	writeU32(buf, 23, r.PlayCount)
	writeU16(buf, 27, r.Year)
	writeU32(buf, 29, r.ColorID)
	writeU32(buf, 33, r.GenreID)
	writeU32(buf, 37, r.ArtistID)
	writeU32(buf, 41, r.AlbumID)
	writeU32(buf, 45, r.KeyID)
	writeU32(buf, 49, r.ArtworkID)
	writeU32(buf, 53, r.TrackNumber)
	writeU32(buf, 57, r.DiscNumber)
	writeU32(buf, 61, r.AnalyzeDateEncoded)
	writeU32(buf, 65, r.ComposerID)
	writeU32(buf, 69, r.LabelID)
	writeU32(buf, 73, r.RemixerID)
	writeU32(buf, 77, r.OriginalArtistID)
	// byte 81: autoload_hotcues, byte 82: kuvo_public (2 of the 79 bytes)
	buf[81] = boolByte(r.AutoloadHotcues)
	buf[82] = boolByte(r.KuvoPublic)
	// bytes 83..170: reserved/unknown, preserved verbatim
	copy(buf[trackReservedOff:trackOffsetTableOff], r.Reserved[:])

	off := trackHeaderSize
	for i, s := range r.Strings {
		writeU16(buf, trackOffsetTableOff+i*2, uint16(off))
		WriteTaggedString(buf, off, s)
		off += s.ByteLen()
	}
	return buf
}

func decodeTrack(buf []byte, off int) (RowVariant, int, error) {
	if off+trackHeaderSize > len(buf) {
		return nil, 0, fmt.Errorf("%w: track header at %d", ErrBounds, off)
	}
	r := Track{
		ID:                 readU32(buf, off),
		Tempo:              readU16(buf, off+4),
		Rating:             buf[off+6],
		SampleRate:         readU32(buf, off+7),
		Duration:           readU32(buf, off+11),
		BitDepth:           readU16(buf, off+15),
		SampleDepth:        readU16(buf, off+17),
		Bitrate:            readU32(buf, off+19),
		PlayCount:          readU32(buf, off+23),
		Year:               readU16(buf, off+27),
		ColorID:            readU32(buf, off+29),
		GenreID:            readU32(buf, off+33),
		ArtistID:           readU32(buf, off+37),
		AlbumID:            readU32(buf, off+41),
		KeyID:              readU32(buf, off+45),
		ArtworkID:          readU32(buf, off+49),
		TrackNumber:        readU32(buf, off+53),
		DiscNumber:         readU32(buf, off+57),
		AnalyzeDateEncoded: readU32(buf, off+61),
		ComposerID:         readU32(buf, off+65),
		LabelID:            readU32(buf, off+69),
		RemixerID:          readU32(buf, off+73),
		OriginalArtistID:   readU32(buf, off+77),
		AutoloadHotcues:    buf[off+81] != 0,
		KuvoPublic:         buf[off+82] != 0,
	}
	copy(r.Reserved[:], buf[off+trackReservedOff:off+trackOffsetTableOff])

	maxEnd := off
	for i := 0; i < trackStringCount; i++ {
		strOff := int(readU16(buf, off+trackOffsetTableOff+i*2))
		s, n, err := ReadTaggedString(buf, off+strOff)
		if err != nil {
			return nil, 0, err
		}
		r.Strings[i] = s
		if end := strOff + n; off+end > maxEnd {
			maxEnd = off + end
		}
	}
	return r, maxEnd - off, nil
}

func init() {
	registerDecoder(PageTypeTracks, decodeTrack)
}
