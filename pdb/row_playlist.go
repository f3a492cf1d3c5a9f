package pdb

import "fmt"

// playlistTreeNodeHeaderSize covers parent_id, unknown, sort_order, id and
// raw_is_folder, all u32 (§4.4); the name string follows immediately.
const playlistTreeNodeHeaderSize = 4 * 5

// PlaylistTreeNode is a node in the playlist folder/playlist tree (§4.4).
type PlaylistTreeNode struct {
	ParentID   uint32
	Unknown    uint32
	SortOrder  uint32
	ID         uint32
	RawIsFolder uint32
	Name       TaggedString
}

// IsFolder reports whether this node is a folder rather than a playlist:
// `raw_is_folder & 1 != 0` (§4.4).
func (r PlaylistTreeNode) IsFolder() bool { return r.RawIsFolder&1 != 0 }

func (r PlaylistTreeNode) PageType() PageType { return PageTypePlaylistTree }
func (r PlaylistTreeNode) ByteLen() int       { return playlistTreeNodeHeaderSize + r.Name.ByteLen() }

func (r PlaylistTreeNode) Encode() []byte {
	buf := make([]byte, r.ByteLen())
	writeU32(buf, 0, r.ParentID)
	writeU32(buf, 4, r.Unknown)
	writeU32(buf, 8, r.SortOrder)
	writeU32(buf, 12, r.ID)
	writeU32(buf, 16, r.RawIsFolder)
	WriteTaggedString(buf, playlistTreeNodeHeaderSize, r.Name)
	return buf
}

func decodePlaylistTreeNode(buf []byte, off int) (RowVariant, int, error) {
	if off+playlistTreeNodeHeaderSize > len(buf) {
		return nil, 0, fmt.Errorf("%w: playlist tree node header at %d", ErrBounds, off)
	}
	r := PlaylistTreeNode{
		ParentID:    readU32(buf, off),
		Unknown:     readU32(buf, off+4),
		SortOrder:   readU32(buf, off+8),
		ID:          readU32(buf, off+12),
		RawIsFolder: readU32(buf, off+16),
	}
	name, n, err := ReadTaggedString(buf, off+playlistTreeNodeHeaderSize)
	if err != nil {
		return nil, 0, err
	}
	r.Name = name
	return r, playlistTreeNodeHeaderSize + n, nil
}

// playlistEntrySize is PlaylistEntry's fixed width: three u32 fields
// (§4.4).
const playlistEntrySize = 4 + 4 + 4

// PlaylistEntry is a `(entry_index, track_id, playlist_id)` row (§4.4).
type PlaylistEntry struct {
	EntryIndex uint32
	TrackID    uint32
	PlaylistID uint32
}

func (r PlaylistEntry) PageType() PageType { return PageTypePlaylistEntries }
func (r PlaylistEntry) ByteLen() int       { return playlistEntrySize }

func (r PlaylistEntry) Encode() []byte {
	buf := make([]byte, playlistEntrySize)
	writeU32(buf, 0, r.EntryIndex)
	writeU32(buf, 4, r.TrackID)
	writeU32(buf, 8, r.PlaylistID)
	return buf
}

func decodePlaylistEntry(buf []byte, off int) (RowVariant, int, error) {
	if off+playlistEntrySize > len(buf) {
		return nil, 0, fmt.Errorf("%w: playlist entry at %d", ErrBounds, off)
	}
	return PlaylistEntry{
		EntryIndex: readU32(buf, off),
		TrackID:    readU32(buf, off+4),
		PlaylistID: readU32(buf, off+8),
	}, playlistEntrySize, nil
}

func init() {
	registerDecoder(PageTypePlaylistTree, decodePlaylistTreeNode)
	registerDecoder(PageTypePlaylistEntries, decodePlaylistEntry)
}
