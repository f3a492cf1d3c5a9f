package pdb

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// ───────────────────────────────────────────────────────────────────────────
// Scalar little-endian helpers
// ───────────────────────────────────────────────────────────────────────────
//
// Every multi-byte field in a PDB file is little-endian. These are thin
// wrappers over encoding/binary so row and page code reads the same way
// the teacher's pager.go and row_codec.go do: plain binary.LittleEndian
// calls against byte slices, no reflection-based codec.

func readU16(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off : off+2])
}

func writeU16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:off+2], v)
}

func readU32(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

func writeU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

// readU24 reads a 3-byte little-endian word into the low 24 bits of a
// uint32, used for the page header's packed_row_counts field (§4.3).
func readU24(buf []byte, off int) uint32 {
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
}

func writeU24(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
}

// ───────────────────────────────────────────────────────────────────────────
// Tagged strings (§4.1)
// ───────────────────────────────────────────────────────────────────────────
//
// String fields are length-prefixed by a single tag byte whose encoding
// must be preserved byte-exact on write, even for rows the caller never
// touched. TaggedString keeps the raw tag and payload alongside the
// decoded text so round-trips of unmutated rows are lossless.
//
// spec.md §9 flags the tag scheme as ambiguous in the distilled source
// ("detection by high-nibble only; preserve tag byte verbatim") and leaves
// exact disambiguation between the short-ASCII and long-UTF16LE forms an
// open question. Resolved here (see DESIGN.md) as four non-overlapping
// tag ranges so encode/decode round-trips unambiguously:
//
//	0x00        empty, no payload
//	0x40..0x7F  short ASCII: low 6 bits * 2 = region length (tag+pad+payload);
//	            an odd-length text carries one trailing NUL in its payload
//	0x90        ISRC: fixed 12-byte ASCII payload, no length field
//	0x92        long UTF-16LE: following u16 = region length (tag+u16+payload)

const (
	tagEmpty      byte = 0x00
	tagISRC       byte = 0x90
	tagLongUTF16  byte = 0x92
	shortASCIIMin byte = 0x40
	shortASCIIMax byte = 0x7F
)

// isrcWidth is the fixed payload width (bytes) of an ISRC code region.
const isrcWidth = 12

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// TaggedString is a string region as stored in a row: the original tag
// byte (preserved verbatim), the raw payload bytes, and the decoded text.
type TaggedString struct {
	Tag    byte
	Raw    []byte // payload bytes exactly as read, tag+length header excluded
	Text   string
	isLong bool // true if encoded as UTF-16LE long form
	isISRC bool
}

// ByteLen returns the total on-disk size of this string region, tag byte
// included.
func (s TaggedString) ByteLen() int {
	switch {
	case s.Tag == tagEmpty:
		return 1
	case s.isISRC:
		return 1 + isrcWidth
	case s.isLong:
		return 1 + 2 + len(s.Raw)
	default: // short ASCII
		return 1 + 1 + len(s.Raw)
	}
}

// ReadTaggedString reads a tagged string region starting at buf[off],
// preserving the exact tag so a later Write reproduces the same bytes.
func ReadTaggedString(buf []byte, off int) (TaggedString, int, error) {
	if off >= len(buf) {
		return TaggedString{}, 0, fmt.Errorf("%w: tag at %d", ErrBounds, off)
	}
	tag := buf[off]
	switch {
	case tag == tagEmpty:
		return TaggedString{Tag: tag}, 1, nil

	case tag == tagISRC:
		end := off + 1 + isrcWidth
		if end > len(buf) {
			return TaggedString{}, 0, fmt.Errorf("%w: isrc string at %d", ErrBounds, off)
		}
		raw := append([]byte{}, buf[off+1:end]...)
		return TaggedString{Tag: tag, Raw: raw, Text: string(raw), isISRC: true}, 1 + isrcWidth, nil

	case tag == tagLongUTF16:
		if off+3 > len(buf) {
			return TaggedString{}, 0, fmt.Errorf("%w: long string header at %d", ErrBounds, off)
		}
		totalLen := int(readU16(buf, off+1))
		if totalLen < 3 {
			return TaggedString{}, 0, fmt.Errorf("%w: long string tag 0x%02x", ErrUnknownTag, tag)
		}
		payloadLen := totalLen - 3
		start := off + 3
		end := start + payloadLen
		if end > len(buf) {
			return TaggedString{}, 0, fmt.Errorf("%w: long string at %d", ErrBounds, off)
		}
		raw := append([]byte{}, buf[start:end]...)
		text, err := utf16LE.NewDecoder().String(string(raw))
		if err != nil {
			return TaggedString{}, 0, fmt.Errorf("decode utf16le string at %d: %w", off, err)
		}
		return TaggedString{Tag: tag, Raw: raw, Text: text, isLong: true}, totalLen, nil

	case tag >= shortASCIIMin && tag <= shortASCIIMax:
		// Short ASCII: low 6 bits * 2 = total region length, tag+pad+payload.
		totalLen := int(tag&0x3F) * 2
		if totalLen < 2 {
			return TaggedString{}, 0, fmt.Errorf("%w: short string tag 0x%02x", ErrUnknownTag, tag)
		}
		payloadLen := totalLen - 2
		start := off + 2 // skip tag + 1 pad byte
		end := start + payloadLen
		if end > len(buf) {
			return TaggedString{}, 0, fmt.Errorf("%w: short string at %d", ErrBounds, off)
		}
		raw := append([]byte{}, buf[start:end]...)
		text := raw
		if len(text) > 0 && text[len(text)-1] == 0 {
			text = text[:len(text)-1] // trailing pad of an odd-length text
		}
		return TaggedString{Tag: tag, Raw: raw, Text: string(text)}, totalLen, nil

	default:
		return TaggedString{}, 0, fmt.Errorf("%w: string tag 0x%02x at %d", ErrUnknownTag, tag, off)
	}
}

// WriteTaggedString writes s at buf[off] and returns the number of bytes
// written. Unmutated values always reproduce their original tag and raw
// payload exactly, since s.Raw/s.Tag are whatever ReadTaggedString saw.
func WriteTaggedString(buf []byte, off int, s TaggedString) int {
	switch {
	case s.Tag == tagEmpty && len(s.Raw) == 0:
		buf[off] = tagEmpty
		return 1
	case s.isISRC:
		buf[off] = s.Tag
		copy(buf[off+1:off+1+isrcWidth], s.Raw)
		return 1 + isrcWidth
	case s.isLong:
		buf[off] = s.Tag
		writeU16(buf, off+1, uint16(3+len(s.Raw)))
		copy(buf[off+3:], s.Raw)
		return 3 + len(s.Raw)
	default:
		buf[off] = s.Tag
		buf[off+1] = 0 // pad byte
		copy(buf[off+2:], s.Raw)
		return 2 + len(s.Raw)
	}
}

// NewShortASCIIString builds a TaggedString using the short ASCII form.
// Callers mutating a row's text go through here (or NewLongUTF16String)
// rather than poking tags directly.
func NewShortASCIIString(text string) (TaggedString, error) {
	if text == "" {
		return TaggedString{Tag: tagEmpty}, nil
	}
	raw := []byte(text)
	if len(raw)%2 != 0 {
		raw = append(raw, 0) // the region length is always even
	}
	totalLen := len(raw) + 2
	if totalLen > int(0x3F)*2 {
		return TaggedString{}, fmt.Errorf("pdb: %q too long for short ASCII form", text)
	}
	tag := shortASCIIMin | byte(totalLen/2)
	return TaggedString{Tag: tag, Raw: raw, Text: text}, nil
}

// NewLongUTF16String builds a TaggedString using the long UTF-16LE form.
func NewLongUTF16String(text string) (TaggedString, error) {
	if text == "" {
		return TaggedString{Tag: tagEmpty}, nil
	}
	raw, err := utf16LE.NewEncoder().String(text)
	if err != nil {
		return TaggedString{}, fmt.Errorf("encode utf16le string %q: %w", text, err)
	}
	return TaggedString{Tag: tagLongUTF16, Raw: []byte(raw), Text: text, isLong: true}, nil
}

// NewAutoString picks the short ASCII form for plain ASCII text that fits,
// and falls back to the long UTF-16LE form otherwise. RowHandle.Set does not
// re-encode strings itself; a caller building a new row value uses this to
// encode a new Go string.
func NewAutoString(text string) (TaggedString, error) {
	if isShortASCIIEligible(text) {
		return NewShortASCIIString(text)
	}
	return NewLongUTF16String(text)
}

func isShortASCIIEligible(s string) bool {
	if len(s)+2 > int(0x3F)*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// NewISRCString builds a TaggedString using the fixed-width ISRC form,
// truncating or zero-padding to isrcWidth bytes.
func NewISRCString(code string) TaggedString {
	raw := make([]byte, isrcWidth)
	copy(raw, code)
	return TaggedString{Tag: tagISRC, Raw: raw, Text: string(raw), isISRC: true}
}
