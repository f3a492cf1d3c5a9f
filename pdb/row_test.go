package pdb

import "testing"

func mustAutoString(t *testing.T, s string) TaggedString {
	t.Helper()
	ts, err := NewAutoString(s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestAlbum_RoundTrip(t *testing.T) {
	a := Album{
		Unknown:    1,
		IndexShift: 2,
		Flags:      3,
		ArtistID:   4,
		AlbumArtID: 5,
		PlaylistID: 6,
		Unknown2:   7,
		ID:         42,
		Name:       mustAutoString(t, "Discovery"),
	}
	buf := a.Encode()
	if len(buf) != a.ByteLen() {
		t.Fatalf("Encode length %d != ByteLen %d", len(buf), a.ByteLen())
	}
	decoded, n, err := decodeAlbum(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(Album)
	if got.ID != a.ID || got.ArtistID != a.ArtistID || got.Name.Text != "Discovery" || n != len(buf) {
		t.Fatalf("got %+v (n=%d), want %+v (n=%d)", got, n, a, len(buf))
	}
}

func TestAlbum_BadMagicIsAssertionError(t *testing.T) {
	a := Album{ID: 1, Name: mustAutoString(t, "x")}
	buf := a.Encode()
	buf[22] = 0xFF // magic byte offset, see row_album.go's Encode
	if _, _, err := decodeAlbum(buf, 0); err == nil {
		t.Fatal("expected an assertion error for a corrupted magic byte")
	}
}

func TestArtist_RoundTripBothMagicWidths(t *testing.T) {
	tests := []struct {
		name  string
		magic uint16
	}{
		{"short-name-offset", artistMagicShort},
		{"long-name-offset", artistMagicLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Artist{Magic: tt.magic, IndexShift: 1, ID: 99, Name: mustAutoString(t, "Daft Punk")}
			buf := a.Encode()
			decoded, n, err := decodeArtist(buf, 0)
			if err != nil {
				t.Fatal(err)
			}
			got := decoded.(Artist)
			if got.ID != a.ID || got.Name.Text != "Daft Punk" || n != len(buf) {
				t.Fatalf("got %+v (n=%d), want %+v (n=%d)", got, n, a, len(buf))
			}
		})
	}
}

func TestArtist_UnknownMagicIsUnknownTag(t *testing.T) {
	a := Artist{Magic: 0x99, ID: 1, Name: mustAutoString(t, "x")}
	buf := a.Encode()
	if _, _, err := decodeArtist(buf, 0); err == nil {
		t.Fatal("expected an unknown-tag error for an unrecognized magic")
	}
}

func TestPlaylistTreeNode_IsFolder(t *testing.T) {
	folder := PlaylistTreeNode{RawIsFolder: 1}
	if !folder.IsFolder() {
		t.Error("RawIsFolder=1 should report IsFolder() true")
	}
	playlist := PlaylistTreeNode{RawIsFolder: 0}
	if playlist.IsFolder() {
		t.Error("RawIsFolder=0 should report IsFolder() false")
	}
	// Only the low bit is defined; higher bits must not affect IsFolder.
	flagsAndFolder := PlaylistTreeNode{RawIsFolder: 0b110}
	if flagsAndFolder.IsFolder() {
		t.Error("only bit 0 should mark a folder")
	}
}

func TestPlaylistTreeNode_RoundTrip(t *testing.T) {
	n := PlaylistTreeNode{ParentID: 1, SortOrder: 2, ID: 3, RawIsFolder: 1, Name: mustAutoString(t, "Favorites")}
	buf := n.Encode()
	decoded, width, err := decodePlaylistTreeNode(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(PlaylistTreeNode)
	if got.ID != n.ID || !got.IsFolder() || got.Name.Text != "Favorites" || width != len(buf) {
		t.Fatalf("got %+v (width=%d), want %+v", got, width, n)
	}
}

func TestColor_RoundTrip(t *testing.T) {
	c := Color{Unknown: 1, Code: 2, ColorID: 3, Name: mustAutoString(t, "Rose")}
	buf := c.Encode()
	decoded, n, err := decodeColor(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(Color)
	if got.ColorID != c.ColorID || got.Name.Text != "Rose" || n != len(buf) {
		t.Fatalf("got %+v (n=%d), want %+v", got, n, c)
	}
}

func TestColumnEntry_RoundTrip(t *testing.T) {
	c := ColumnEntry{ColumnType: 1, ColumnNumber: 2}
	buf := c.Encode()
	decoded, n, err := decodeColumnEntry(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.(ColumnEntry) != c || n != columnEntrySize {
		t.Fatalf("got %+v (n=%d), want %+v", decoded, n, c)
	}
}

func TestHistoryEntry_RoundTrip(t *testing.T) {
	h := HistoryEntry{TrackID: 1, PlaylistID: 2, EntryIndex: 3}
	buf := h.Encode()
	decoded, _, err := decodeHistoryEntry(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.(HistoryEntry) != h {
		t.Fatalf("got %+v, want %+v", decoded, h)
	}
}

func TestPlaylistEntry_RoundTrip(t *testing.T) {
	e := PlaylistEntry{EntryIndex: 1, TrackID: 2, PlaylistID: 3}
	buf := e.Encode()
	decoded, _, err := decodePlaylistEntry(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.(PlaylistEntry) != e {
		t.Fatalf("got %+v, want %+v", decoded, e)
	}
}

func TestArtwork_RoundTrip(t *testing.T) {
	a := Artwork{ID: 1, Path: mustAutoString(t, "/PIONEER/ARTWORK/ABCD0001.JPG")}
	buf := a.Encode()
	decoded, n, err := decodeArtwork(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(Artwork)
	if got.ID != a.ID || got.Path.Text != a.Path.Text || n != len(buf) {
		t.Fatalf("got %+v (n=%d), want %+v", got, n, a)
	}
}

func makeTrack(id uint32, rating uint8, title string) Track {
	var tr Track
	tr.ID = id
	tr.Rating = rating
	tr.Tempo = 12800
	tr.Strings[trackSlotISRC] = NewISRCString("GBAYE6800521")
	tr.Strings[trackSlotPath] = mustAutoStringNoT("/PIONEER/TRACK1.MP3")
	tr.Strings[trackSlotTitle] = mustAutoStringNoT(title)
	return tr
}

func mustAutoStringNoT(s string) TaggedString {
	ts, err := NewAutoString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestTrack_RoundTrip(t *testing.T) {
	tr := makeTrack(1, 5, "Strobe")
	buf := tr.Encode()
	if len(buf) != tr.ByteLen() {
		t.Fatalf("Encode length %d != ByteLen %d", len(buf), tr.ByteLen())
	}
	decoded, n, err := decodeTrack(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(Track)
	if got.ID != tr.ID || got.Rating != tr.Rating || got.Tempo != tr.Tempo {
		t.Fatalf("got %+v, want %+v", got, tr)
	}
	if got.Title().Text != "Strobe" {
		t.Fatalf("title = %q, want %q", got.Title().Text, "Strobe")
	}
	if got.ISRC().Text == "" {
		t.Fatal("ISRC slot lost on round trip")
	}
	if n != len(buf) {
		t.Fatalf("consumed %d, want %d", n, len(buf))
	}
}

func TestTrack_RatingMutationPreservesOtherFields(t *testing.T) {
	tr := makeTrack(7, 2, "Around the World")
	tr.Rating = 5
	buf := tr.Encode()
	decoded, _, err := decodeTrack(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(Track)
	if got.Rating != 5 {
		t.Fatalf("rating = %d, want 5", got.Rating)
	}
	if got.Title().Text != "Around the World" {
		t.Fatalf("title changed: got %q", got.Title().Text)
	}
}
