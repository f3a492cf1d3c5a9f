package pdb

import "errors"

// Error taxonomy for the PDB engine. Row-level errors are local: IterRows
// yields them in-line without poisoning the engine.
// Header-level errors are fatal: Open/Close refuse to proceed.
var (
	// ErrIO wraps an underlying read/write/seek failure on the backing stream.
	ErrIO = errors.New("pdb: io error")

	// ErrAssertion marks a fixed field that did not match its expected value,
	// e.g. the leading zero u32 or a page's self-reported page_index.
	ErrAssertion = errors.New("pdb: assertion failed")

	// ErrBounds marks an offset table entry that points outside the page
	// body, or a row whose declared width would read past the page end.
	ErrBounds = errors.New("pdb: offset out of bounds")

	// ErrUnknownTag marks a string-encoding tag or an Artist magic value
	// outside the enumerated set; the row carrying it is not decoded. A
	// table whose page type has no registered decoder yields no rows
	// instead of this error.
	ErrUnknownTag = errors.New("pdb: unknown tag")

	// ErrCapacity marks a page whose rows no longer fit in PageSize when it
	// is re-serialized. The engine does not allocate a fresh page or extend
	// the chain in that case.
	ErrCapacity = errors.New("pdb: capacity exceeded")
)
