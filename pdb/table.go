package pdb

// TableDescriptor names one table's row variant and its page chain bounds
// (§3, §6). `page_type` is the enumerated tag (§4.4); `first_page`/
// `last_page` are page indices, 0 meaning an empty chain (§8 boundary
// case).
type TableDescriptor struct {
	PageType       PageType
	EmptyCandidate uint32
	FirstPage      uint32
	LastPage       uint32
}

// tableDescriptorSize is one table descriptor's on-disk width: four u32
// fields (§6).
const tableDescriptorSize = 4 * 4

func parseTableDescriptor(buf []byte, off int) TableDescriptor {
	return TableDescriptor{
		PageType:       PageType(readU32(buf, off)),
		EmptyCandidate: readU32(buf, off+4),
		FirstPage:      readU32(buf, off+8),
		LastPage:       readU32(buf, off+12),
	}
}

func marshalTableDescriptor(t TableDescriptor, buf []byte, off int) {
	writeU32(buf, off, uint32(t.PageType))
	writeU32(buf, off+4, t.EmptyCandidate)
	writeU32(buf, off+8, t.FirstPage)
	writeU32(buf, off+12, t.LastPage)
}

// chainPages walks a table's page chain from FirstPage to sentinel 0,
// following next_page, via the supplied page accessor. An empty chain
// (FirstPage == 0) yields no pages (§8 boundary case). Index-type pages
// (IsDataPage() == false) are forwarded without reinterpretation, per
// §4.6 — their body is not a row area, so the caller skips decoding rows
// from them but still follows NextPage.
// On a get error mid-chain, chainPages returns the pages walked so far
// alongside the error, so a caller iterating pages as they arrive (e.g.
// IterRows) can still surface rows from the pages that did resolve.
func chainPages(firstPage uint32, get func(uint32) (*Page, error)) ([]*Page, error) {
	if firstPage == 0 {
		return nil, nil
	}
	var pages []*Page
	idx := firstPage
	for idx != 0 {
		pg, err := get(idx)
		if err != nil {
			return pages, err
		}
		pages = append(pages, pg)
		idx = pg.Header.NextPage
	}
	return pages, nil
}
