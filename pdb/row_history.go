package pdb

import "fmt"

// historyEntrySize is HistoryEntry's fixed width: three u32 fields, no
// string region (§4.4).
const historyEntrySize = 4 + 4 + 4

// HistoryEntry is a `(track_id, playlist_id, entry_index)` row (§4.4).
type HistoryEntry struct {
	TrackID    uint32
	PlaylistID uint32
	EntryIndex uint32
}

func (r HistoryEntry) PageType() PageType { return PageTypeHistoryEntries }
func (r HistoryEntry) ByteLen() int       { return historyEntrySize }

func (r HistoryEntry) Encode() []byte {
	buf := make([]byte, historyEntrySize)
	writeU32(buf, 0, r.TrackID)
	writeU32(buf, 4, r.PlaylistID)
	writeU32(buf, 8, r.EntryIndex)
	return buf
}

func decodeHistoryEntry(buf []byte, off int) (RowVariant, int, error) {
	if off+historyEntrySize > len(buf) {
		return nil, 0, fmt.Errorf("%w: history entry at %d", ErrBounds, off)
	}
	return HistoryEntry{
		TrackID:    readU32(buf, off),
		PlaylistID: readU32(buf, off+4),
		EntryIndex: readU32(buf, off+8),
	}, historyEntrySize, nil
}

func init() {
	registerDecoder(PageTypeHistoryEntries, decodeHistoryEntry)
}
