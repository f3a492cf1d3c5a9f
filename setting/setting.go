// Package setting reads and writes SETTING files (MYSETTING, MYSETTING2,
// DJMMYSETTING, DEVSETTING): the device-configuration collaborator format
// that shares the PDB engine's binary-IO conventions but is otherwise an
// independent, much simpler wrapper (spec.md §1, §6). It deliberately does
// not parse the per-kind `data` payload — that stays opaque bytes, since
// the per-setting-kind layouts are out of scope here.
package setting

import (
	"encoding/binary"
	"fmt"
)

// fieldWidth is the fixed, NUL-padded width of each of the three wrapper
// strings. len_strings is always fieldWidth*3 = 96 in every known sample,
// which together with the preceding/following u32 length fields makes the
// wrapper's fixed portion exactly 104 bytes (spec.md §6):
// len_strings(4) + brand(32) + software(32) + version(32) + len_data(4).
const (
	fieldWidth      = 32
	fixedHeaderSize = 4 + fieldWidth*3 + 4
)

// Record is a SETTING file's common wrapper (§6): `(len_strings, brand,
// software, version, len_data, data, crc16, unknown)`. Data is kept fully
// opaque, so round-tripping it back out byte-for-byte does not require
// understanding its contents.
type Record struct {
	Brand    string
	Software string
	Version  string
	Data     []byte
	Unknown  uint16
}

func decodeField(buf []byte) string {
	i := 0
	for i < len(buf) && buf[i] != 0 {
		i++
	}
	return string(buf[:i])
}

func encodeField(s string) ([]byte, error) {
	if len(s) > fieldWidth {
		return nil, fmt.Errorf("setting: field %q exceeds width %d", s, fieldWidth)
	}
	buf := make([]byte, fieldWidth)
	copy(buf, s)
	return buf, nil
}

// Parse decodes a SETTING record from buf.
func Parse(buf []byte) (*Record, error) {
	if len(buf) < fixedHeaderSize {
		return nil, fmt.Errorf("setting: buffer shorter than fixed header (%d bytes)", fixedHeaderSize)
	}
	lenStrings := binary.LittleEndian.Uint32(buf[0:4])
	if lenStrings != fieldWidth*3 {
		return nil, fmt.Errorf("setting: unexpected len_strings %d, want %d", lenStrings, fieldWidth*3)
	}
	brand := decodeField(buf[4 : 4+fieldWidth])
	software := decodeField(buf[4+fieldWidth : 4+2*fieldWidth])
	version := decodeField(buf[4+2*fieldWidth : 4+3*fieldWidth])

	lenData := binary.LittleEndian.Uint32(buf[fixedHeaderSize-4 : fixedHeaderSize])
	off := fixedHeaderSize
	need := off + int(lenData) + 2 + 2
	if len(buf) < need {
		return nil, fmt.Errorf("setting: buffer too small for data/crc16/unknown")
	}
	data := append([]byte{}, buf[off:off+int(lenData)]...)
	off += int(lenData)

	storedCRC := binary.LittleEndian.Uint16(buf[off : off+2])
	off += 2
	unknown := binary.LittleEndian.Uint16(buf[off : off+2])

	if got := crc16(buf[:off-2]); got != storedCRC {
		return nil, fmt.Errorf("setting: crc16 mismatch: got %#04x, stored %#04x", got, storedCRC)
	}

	return &Record{
		Brand:    brand,
		Software: software,
		Version:  version,
		Data:     data,
		Unknown:  unknown,
	}, nil
}

// Encode serializes r, recomputing crc16 over everything preceding it.
func (r *Record) Encode() ([]byte, error) {
	brand, err := encodeField(r.Brand)
	if err != nil {
		return nil, err
	}
	software, err := encodeField(r.Software)
	if err != nil {
		return nil, err
	}
	version, err := encodeField(r.Version)
	if err != nil {
		return nil, err
	}

	size := fixedHeaderSize + len(r.Data) + 2 + 2
	buf := make([]byte, size)

	binary.LittleEndian.PutUint32(buf[0:4], fieldWidth*3)
	copy(buf[4:], brand)
	copy(buf[4+fieldWidth:], software)
	copy(buf[4+2*fieldWidth:], version)

	binary.LittleEndian.PutUint32(buf[fixedHeaderSize-4:fixedHeaderSize], uint32(len(r.Data)))
	off := fixedHeaderSize
	copy(buf[off:], r.Data)
	off += len(r.Data)

	binary.LittleEndian.PutUint16(buf[off:off+2], crc16(buf[:off]))
	off += 2
	binary.LittleEndian.PutUint16(buf[off:off+2], r.Unknown)

	return buf, nil
}

// crc16 is the CRC-16/CCITT-FALSE variant the SETTING wrapper checksums
// with. No library in the retrieval pack offers CRC-16 (only
// hash/crc32.Castagnoli, via the teacher's page integrity check, which is
// a different polynomial and width); this is the one place in this module
// that falls back to a hand-rolled implementation (see DESIGN.md).
func crc16(data []byte) uint16 {
	var crc uint16 = 0xFFFF
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
