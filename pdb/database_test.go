package pdb

import (
	"testing"
)

// buildFixture assembles a minimal two-page PDB image in memory: a header
// page declaring a single Genres table, followed by one data page holding
// the given names. There is no multi-megabyte commercial export.pdb
// available in this environment, so engine-level tests exercise the format
// against a synthetic fixture built the same way SerializePage/
// marshalTableDescriptor describe it (§6, §8).
func buildFixture(t *testing.T, pageSize int, names ...string) []byte {
	t.Helper()

	rows := buildGenreRows(names...)
	genrePage, err := SerializePage(pageSize, PageHeader{
		PageIndex: 1,
		PageType:  uint32(PageTypeGenres),
		PageFlags: PageFlagData,
	}, rows, allPresent(len(rows)))
	if err != nil {
		t.Fatal(err)
	}

	header := make([]byte, pageSize)
	writeU32(header, headerPageSizeOff, uint32(pageSize))
	writeU32(header, headerNumTablesOff, 1)
	writeU32(header, headerNextUnusedOff, 2)
	marshalTableDescriptor(TableDescriptor{
		PageType:  PageTypeGenres,
		FirstPage: 1,
		LastPage:  1,
	}, header, headerTableDescsOff)

	buf := make([]byte, pageSize*2)
	copy(buf[:pageSize], header)
	copy(buf[pageSize:], genrePage)
	return buf
}

func TestDatabase_OpenNonPersistent_IterRowsReadsFixture(t *testing.T) {
	data := buildFixture(t, testPageSize, "House", "Techno")
	db, err := OpenNonPersistent(data, Plain, Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var got []string
	for h, err := range IterRows[Genre](db) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, h.Value().Name.Text)
	}
	if len(got) != 2 || got[0] != "House" || got[1] != "Techno" {
		t.Fatalf("got %v, want [House Techno]", got)
	}
}

func TestDatabase_OpenNonPersistent_CloseIsNoOp(t *testing.T) {
	data := buildFixture(t, testPageSize, "House")
	db, err := OpenNonPersistent(data, Plain, Config{})
	if err != nil {
		t.Fatal(err)
	}
	before := append([]byte{}, data...)
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if string(data) != string(before) {
		t.Fatal("OpenNonPersistent's Close must never write back (§4.7, §8 invariant)")
	}
}

func TestDatabase_IterRows_UnknownPageTypeYieldsNothing(t *testing.T) {
	data := buildFixture(t, testPageSize, "House")
	db, err := OpenNonPersistent(data, Plain, Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	count := 0
	for range IterRows[Artist](db) {
		count++
	}
	if count != 0 {
		t.Fatalf("got %d Artist rows from a fixture with no Artists table, want 0", count)
	}
}

func TestDatabase_Open_BadMagicFails(t *testing.T) {
	data := buildFixture(t, testPageSize, "House")
	writeU32(data, headerZeroOff, 1) // corrupt the leading zero/magic word
	backing := newSeekBuf(data)
	if _, err := Open(backing, Plain, Config{}); err == nil {
		t.Fatal("expected an error opening a header with a non-zero magic word")
	}
}

func TestDatabase_Open_MutateThenCloseRoundTrips(t *testing.T) {
	data := buildFixture(t, testPageSize, "House", "Techno")
	backing := newSeekBuf(data)

	db, err := Open(backing, Plain, Config{})
	if err != nil {
		t.Fatal(err)
	}

	renamed, err := NewShortASCIIString("Drum and Bass")
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for h, err := range IterRows[Genre](db) {
		if err != nil {
			t.Fatal(err)
		}
		if h.Value().Name.Text == "Techno" {
			g := h.Value()
			g.Name = renamed
			h.Set(g)
			found = true
		}
	}
	if !found {
		t.Fatal("did not find the Techno row to mutate")
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	reread, err := OpenNonPersistent(backing.data, Plain, Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer reread.Close()

	var names []string
	for h, err := range IterRows[Genre](reread) {
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, h.Value().Name.Text)
	}
	if len(names) != 2 || names[0] != "House" || names[1] != "Drum and Bass" {
		t.Fatalf("got %v, want [House \"Drum and Bass\"]", names)
	}
}

func TestDatabase_Open_UntouchedPageRoundTripsByteIdentical(t *testing.T) {
	data := buildFixture(t, testPageSize, "House", "Techno", "Trance")
	original := append([]byte{}, data...)
	backing := newSeekBuf(data)

	db, err := Open(backing, Plain, Config{})
	if err != nil {
		t.Fatal(err)
	}
	// Read every row but never call Set: no page should be marked dirty.
	for _, err := range IterRows[Genre](db) {
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if string(backing.data) != string(original) {
		t.Fatal("reading without mutating changed the on-disk bytes")
	}
}

func TestDatabase_Obfuscated_RoundTrip(t *testing.T) {
	data := buildFixture(t, testPageSize, "House")
	key := []byte{0x11, 0x22, 0x33}

	encoded := make([]byte, len(data))
	xorBuffer(encoded, data, key)

	backing := newSeekBuf(encoded)
	db, err := Open(backing, Obfuscated, Config{ObfuscationKey: key})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var got []string
	for h, err := range IterRows[Genre](db) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, h.Value().Name.Text)
	}
	if len(got) != 1 || got[0] != "House" {
		t.Fatalf("got %v, want [House]", got)
	}
}
