package pdb

import "testing"

func TestTableDescriptor_RoundTrip(t *testing.T) {
	td := TableDescriptor{PageType: PageTypeTracks, EmptyCandidate: 1, FirstPage: 2, LastPage: 3}
	buf := make([]byte, tableDescriptorSize)
	marshalTableDescriptor(td, buf, 0)
	got := parseTableDescriptor(buf, 0)
	if got != td {
		t.Fatalf("got %+v, want %+v", got, td)
	}
}

func TestTableDescriptor_OffsetRespected(t *testing.T) {
	td := TableDescriptor{PageType: PageTypeGenres, FirstPage: 9, LastPage: 10}
	buf := make([]byte, tableDescriptorSize*2)
	marshalTableDescriptor(td, buf, tableDescriptorSize)
	got := parseTableDescriptor(buf, tableDescriptorSize)
	if got != td {
		t.Fatalf("got %+v, want %+v", got, td)
	}
}

func TestChainPages_EmptyChain(t *testing.T) {
	pages, err := chainPages(0, func(uint32) (*Page, error) {
		t.Fatal("get should not be called for an empty chain")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if pages != nil {
		t.Fatalf("got %v, want nil", pages)
	}
}

func TestChainPages_WalksUntilSentinel(t *testing.T) {
	byIndex := map[uint32]*Page{
		1: {Header: PageHeader{PageIndex: 1, NextPage: 2}},
		2: {Header: PageHeader{PageIndex: 2, NextPage: 3}},
		3: {Header: PageHeader{PageIndex: 3, NextPage: 0}},
	}
	pages, err := chainPages(1, func(idx uint32) (*Page, error) {
		return byIndex[idx], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, pg := range pages {
		if pg.Header.PageIndex != uint32(i+1) {
			t.Errorf("pages[%d].PageIndex = %d, want %d", i, pg.Header.PageIndex, i+1)
		}
	}
}

func TestChainPages_PropagatesGetError(t *testing.T) {
	wantErr := ErrBounds
	_, err := chainPages(1, func(uint32) (*Page, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}
