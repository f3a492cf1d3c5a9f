package pdb

import "fmt"

// PageType identifies the row variant a table's page chain carries (§4.4,
// §6). Values match the on-disk tag order; "Unknown*" slots are preserved
// verbatim on write (§6) rather than reinterpreted.
type PageType uint32

const (
	PageTypeTracks           PageType = 0
	PageTypeGenres           PageType = 1
	PageTypeArtists          PageType = 2
	PageTypeAlbums           PageType = 3
	PageTypeLabels           PageType = 4
	PageTypeKeys             PageType = 5
	PageTypeColors           PageType = 6
	PageTypePlaylistTree     PageType = 7
	PageTypePlaylistEntries  PageType = 8
	PageTypeUnknown1         PageType = 9
	PageTypeUnknown2         PageType = 10
	PageTypeUnknown3         PageType = 11
	PageTypeUnknown4         PageType = 12
	PageTypeUnknown5         PageType = 13
	PageTypeArtwork          PageType = 14
	PageTypeUnknown6         PageType = 15
	PageTypeUnknown7         PageType = 16
	PageTypeColumns          PageType = 17
	PageTypeUnknown8         PageType = 18
	PageTypeUnknown9         PageType = 19
	PageTypeHistoryPlaylists PageType = 20
	PageTypeHistoryEntries   PageType = 21
	PageTypeHistory          PageType = 22
	PageTypeUnknown10        PageType = 23
	PageTypeUnknown11        PageType = 24
	PageTypeUnknown12        PageType = 25
	PageTypeUnknown13        PageType = 26
)

// String gives a human-readable label, falling back to "Unknown(n)" for
// page types outside the known-named set, so a foreign page type keeps its
// raw value when printed.
func (pt PageType) String() string {
	if s, ok := pageTypeNames[pt]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", uint32(pt))
}

var pageTypeNames = map[PageType]string{
	PageTypeTracks:           "Tracks",
	PageTypeGenres:           "Genres",
	PageTypeArtists:          "Artists",
	PageTypeAlbums:           "Albums",
	PageTypeLabels:           "Labels",
	PageTypeKeys:             "Keys",
	PageTypeColors:           "Colors",
	PageTypePlaylistTree:     "PlaylistTree",
	PageTypePlaylistEntries:  "PlaylistEntries",
	PageTypeArtwork:          "Artwork",
	PageTypeColumns:          "Columns",
	PageTypeHistoryPlaylists: "HistoryPlaylists",
	PageTypeHistoryEntries:   "HistoryEntries",
	PageTypeHistory:          "History",
}

// RowVariant is implemented by every typed row (§4.4). Encode/ByteLen let
// the page serializer lay out rows without knowing their concrete type;
// PageType lets the table/chain layer (§4.6) route a page to the right
// parser.
type RowVariant interface {
	PageType() PageType
	Encode() []byte
	ByteLen() int
}

// rowDecoder parses one row of a known variant starting at buf[off] within
// a page body, returning the decoded row and the row's total byte width.
type rowDecoder func(buf []byte, off int) (RowVariant, int, error)

// decoders is the capability table (§9 "Variadic row dispatch") mapping a
// PageType to its row parser. Populated by each row_*.go file's init().
var decoders = map[PageType]rowDecoder{}

func registerDecoder(pt PageType, fn rowDecoder) {
	decoders[pt] = fn
}
