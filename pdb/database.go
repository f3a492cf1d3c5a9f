package pdb

import (
	"fmt"
	"io"
	"iter"
)

// ───────────────────────────────────────────────────────────────────────────
// Global header (§3, §6)
// ───────────────────────────────────────────────────────────────────────────

const (
	headerZeroOff       = 0
	headerPageSizeOff   = 4
	headerNumTablesOff  = 8
	headerNextUnusedOff = 12
	headerUnknownOff    = 16
	headerSequenceOff   = 20
	headerGapOff        = 24
	headerTableDescsOff = 28
	headerMinPageSize   = headerTableDescsOff
)

// DatabaseType selects whether the underlying stream carries a plain PDB or
// one obfuscated by the fixed XOR cipher (§4.7, §6).
type DatabaseType int

const (
	Plain DatabaseType = iota
	Obfuscated
)

// Config carries the settings Open/OpenNonPersistent need beyond the
// stream itself.
type Config struct {
	// ObfuscationKey is the XOR key to wrap the stream with when kind is
	// Obfuscated. The protocol documents a fixed key for device exports,
	// but this package never hardcodes it: the exact bytes are a
	// deployment detail the caller supplies (mirrors
	// original_source/src/xor.rs's with_key, which likewise takes the key
	// as a parameter rather than a compiled-in constant).
	ObfuscationKey []byte
}

// pageSlot is a cached, parsed page plus any row-level overrides recorded
// by mutation handles. dirty pages are fully re-serialized on Close;
// clean pages are never written, so they round-trip byte-for-byte by
// construction (§4.5 invariant) — we simply never touch their bytes.
type pageSlot struct {
	page      *Page
	dirty     bool
	overrides map[int]RowVariant // logical row slot index -> replacement value
}

// Database is the PDB storage engine (§4.7). It owns its stream/buffer for
// its lifetime; see §5 for the concurrency and ownership model.
type Database struct {
	kind       DatabaseType
	persistent bool

	stream io.ReadWriteSeeker // persistent mode
	data   []byte             // non-persistent mode (decoded copy if Obfuscated)

	pageSize       int
	nextUnusedPage uint32
	unknown        uint32
	sequence       uint32
	tables         []TableDescriptor

	pages map[uint32]*pageSlot
	free  *freeManager
}

// Open opens a persistent Database over stream, which the engine owns
// exclusively until Close (§5). For kind == Obfuscated, stream is wrapped
// in an XorStream with cfg.ObfuscationKey before the header is read.
func Open(stream io.ReadWriteSeeker, kind DatabaseType, cfg Config) (*Database, error) {
	if kind == Obfuscated {
		stream = NewXorStream(stream, cfg.ObfuscationKey)
	}
	db := &Database{
		kind:       kind,
		persistent: true,
		stream:     stream,
		pages:      map[uint32]*pageSlot{},
		free:       newFreeManager(),
	}
	if err := db.readHeader(); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenNonPersistent opens data as a read-only Database: it never writes
// back, so Close is a no-op and reads in Plain mode slice directly into
// data with no copy. Obfuscated data is decoded into a fresh buffer once
// up front, since there is no useful "zero-copy" variant of an XOR
// transform.
func OpenNonPersistent(data []byte, kind DatabaseType, cfg Config) (*Database, error) {
	if kind == Obfuscated {
		decoded := make([]byte, len(data))
		xorBuffer(decoded, data, cfg.ObfuscationKey)
		data = decoded
	}
	db := &Database{
		kind:       kind,
		persistent: false,
		data:       data,
		pages:      map[uint32]*pageSlot{},
		free:       newFreeManager(),
	}
	if err := db.readHeaderFromSlice(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) readHeader() error {
	if _, err := db.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek header: %v", ErrIO, err)
	}
	prefix := make([]byte, headerTableDescsOff)
	if _, err := io.ReadFull(db.stream, prefix); err != nil {
		return fmt.Errorf("%w: read header: %v", ErrIO, err)
	}
	pageSize, err := parseHeaderPrefix(prefix)
	if err != nil {
		return err
	}
	if _, err := db.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek header page: %v", ErrIO, err)
	}
	buf := make([]byte, pageSize)
	if _, err := io.ReadFull(db.stream, buf); err != nil {
		return fmt.Errorf("%w: read header page: %v", ErrIO, err)
	}
	db.applyHeader(buf, pageSize)
	return nil
}

func (db *Database) readHeaderFromSlice() error {
	if len(db.data) < headerTableDescsOff {
		return fmt.Errorf("%w: buffer too small for header", ErrBounds)
	}
	pageSize, err := parseHeaderPrefix(db.data[:headerTableDescsOff])
	if err != nil {
		return err
	}
	if len(db.data) < pageSize {
		return fmt.Errorf("%w: buffer shorter than page_size %d", ErrBounds, pageSize)
	}
	db.applyHeader(db.data[:pageSize], pageSize)
	return nil
}

// parseHeaderPrefix validates and reads the leading magic/page_size pair
// (§6 bytes 0-7), which must be known before the rest of the header (whose
// extent depends on page_size) can be read.
func parseHeaderPrefix(buf []byte) (int, error) {
	if readU32(buf, headerZeroOff) != 0 {
		return 0, fmt.Errorf("%w: header magic != 0", ErrAssertion)
	}
	pageSize := int(readU32(buf, headerPageSizeOff))
	if pageSize < headerMinPageSize {
		return 0, fmt.Errorf("%w: implausible page_size %d", ErrAssertion, pageSize)
	}
	return pageSize, nil
}

func (db *Database) applyHeader(buf []byte, pageSize int) {
	db.pageSize = pageSize
	numTables := readU32(buf, headerNumTablesOff)
	db.nextUnusedPage = readU32(buf, headerNextUnusedOff)
	db.unknown = readU32(buf, headerUnknownOff)
	db.sequence = readU32(buf, headerSequenceOff)
	db.tables = make([]TableDescriptor, numTables)
	for i := range db.tables {
		db.tables[i] = parseTableDescriptor(buf, headerTableDescsOff+i*tableDescriptorSize)
	}
}

func (db *Database) writeHeader() error {
	buf := make([]byte, db.pageSize)
	writeU32(buf, headerPageSizeOff, uint32(db.pageSize))
	writeU32(buf, headerNumTablesOff, uint32(len(db.tables)))
	writeU32(buf, headerNextUnusedOff, db.nextUnusedPage)
	writeU32(buf, headerUnknownOff, db.unknown)
	writeU32(buf, headerSequenceOff, db.sequence)
	for i, t := range db.tables {
		marshalTableDescriptor(t, buf, headerTableDescsOff+i*tableDescriptorSize)
	}
	if _, err := db.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek header for write: %v", ErrIO, err)
	}
	if _, err := db.stream.Write(buf); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrIO, err)
	}
	return nil
}

// Tables returns the table descriptors parsed from the global header.
func (db *Database) Tables() []TableDescriptor {
	out := make([]TableDescriptor, len(db.tables))
	copy(out, db.tables)
	return out
}

func (db *Database) findTable(pt PageType) (TableDescriptor, bool) {
	for _, t := range db.tables {
		if t.PageType == pt {
			return t, true
		}
	}
	return TableDescriptor{}, false
}

func (db *Database) loadPageBytes(idx uint32) ([]byte, error) {
	off := int64(idx) * int64(db.pageSize)
	if db.persistent {
		if _, err := db.stream.Seek(off, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: seek page %d: %v", ErrIO, idx, err)
		}
		buf := make([]byte, db.pageSize)
		if _, err := io.ReadFull(db.stream, buf); err != nil {
			return nil, fmt.Errorf("%w: read page %d: %v", ErrIO, idx, err)
		}
		return buf, nil
	}
	end := off + int64(db.pageSize)
	if off < 0 || end > int64(len(db.data)) {
		return nil, fmt.Errorf("%w: page %d out of range", ErrBounds, idx)
	}
	return db.data[off:end], nil
}

func (db *Database) getPage(idx uint32, expectedType PageType) (*Page, error) {
	if slot, ok := db.pages[idx]; ok {
		return slot.page, nil
	}
	buf, err := db.loadPageBytes(idx)
	if err != nil {
		return nil, err
	}
	pg, err := ParsePage(buf, db.pageSize, idx, uint32(expectedType))
	if err != nil {
		return nil, err
	}
	db.pages[idx] = &pageSlot{page: pg}
	return pg, nil
}

// RowHandle is the mutation proxy yielded by IterRows (§9 "Mutation
// proxies"). In a persistent Database, Set re-encodes the row and marks
// its backing page dirty so Close re-serializes it; in a non-persistent
// Database, Set only updates the caller's local copy, since
// OpenNonPersistent commits to never writing back (§4.7).
type RowHandle[V RowVariant] struct {
	value V

	db        *Database
	pageIndex uint32
	rowIndex  int
}

// Value returns the row's current (possibly already-Set) value.
func (h *RowHandle[V]) Value() V { return h.value }

// Set replaces the row's value. In persistent mode this marks the backing
// page dirty; the new bytes are computed at Close.
func (h *RowHandle[V]) Set(v V) {
	h.value = v
	if h.db.persistent {
		h.db.markRowDirty(h.pageIndex, h.rowIndex, v)
	}
}

func (db *Database) markRowDirty(pageIndex uint32, rowIndex int, v RowVariant) {
	slot := db.pages[pageIndex]
	slot.dirty = true
	if slot.overrides == nil {
		slot.overrides = map[int]RowVariant{}
	}
	slot.overrides[rowIndex] = v
}

// IterRows walks V's page chain and decodes each present row, yielding a
// RowHandle per row (§4.7). An unknown page type (no table with V's
// PAGE_TYPE) yields nothing, matching §7 error kind 4. An error decoding a
// page's row directory or a single row is yielded in-line and iteration
// moves on to the next row or page. An error loading a page of the chain
// is yielded once, after the rows of the pages before it, and ends
// iteration for this table only. None of these poison the Database (§7
// policy: row/page errors are local).
func IterRows[V RowVariant](db *Database) iter.Seq2[*RowHandle[V], error] {
	return func(yield func(*RowHandle[V], error) bool) {
		var zero V
		pt := zero.PageType()
		table, ok := db.findTable(pt)
		if !ok || table.FirstPage == 0 {
			return
		}
		decode, ok := decoders[pt]
		if !ok {
			return
		}

		pages, chainErr := chainPages(table.FirstPage, func(idx uint32) (*Page, error) {
			return db.getPage(idx, pt)
		})
		for _, pg := range pages {
			if !pg.Header.IsDataPage() {
				continue
			}
			entries, err := pg.rowEntries()
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			for rowIdx, e := range entries {
				if !e.Present {
					continue
				}
				variant, _, err := decode(pg.Raw, PageHeaderSize+int(e.Offset))
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}
				v, ok := variant.(V)
				if !ok {
					continue
				}
				h := &RowHandle[V]{value: v, db: db, pageIndex: pg.Header.PageIndex, rowIndex: rowIdx}
				if !yield(h, nil) {
					return
				}
			}
		}
		if chainErr != nil {
			yield(nil, chainErr)
		}
	}
}

// reserializePage rebuilds idx's full page image from its current row set
// (original rows plus recorded overrides), per §4.5 "Serializing a page".
// Tombstoned slots are preserved as absent so num_rows does not change —
// this Database does not implement row insertion/deletion (not in scope
// of §4.7's operation list); a row whose re-encoding no longer fits the
// page surfaces ErrCapacity (§7 kind 5).
func (db *Database) reserializePage(idx uint32, slot *pageSlot) ([]byte, error) {
	pg := slot.page
	entries, err := pg.rowEntries()
	if err != nil {
		return nil, err
	}
	decode := decoders[PageType(pg.Header.PageType)]

	rows := make([][]byte, len(entries))
	present := make([]bool, len(entries))
	for i, e := range entries {
		if !e.Present {
			continue
		}
		present[i] = true
		if v, ok := slot.overrides[i]; ok {
			rows[i] = v.Encode()
			continue
		}
		variant, _, err := decode(pg.Raw, PageHeaderSize+int(e.Offset))
		if err != nil {
			return nil, err
		}
		rows[i] = variant.Encode()
	}
	return SerializePage(db.pageSize, pg.Header, rows, present)
}

// Close flushes every dirty page, then the global header (§5 ordering: a
// reader racing with Close may observe updated rows with a stale header).
// In non-persistent mode, Close is a no-op (§4.7, §8 invariant).
func (db *Database) Close() error {
	if !db.persistent {
		return nil
	}
	for idx, slot := range db.pages {
		if !slot.dirty {
			continue
		}
		buf, err := db.reserializePage(idx, slot)
		if err != nil {
			return fmt.Errorf("close: page %d: %w", idx, err)
		}
		if _, err := db.stream.Seek(int64(idx)*int64(db.pageSize), io.SeekStart); err != nil {
			return fmt.Errorf("%w: seek page %d for write: %v", ErrIO, idx, err)
		}
		if _, err := db.stream.Write(buf); err != nil {
			return fmt.Errorf("%w: write page %d: %v", ErrIO, idx, err)
		}
		slot.dirty = false
	}
	if err := db.writeHeader(); err != nil {
		return err
	}
	if closer, ok := db.stream.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
