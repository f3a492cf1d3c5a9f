package pdb

import (
	"io"
)

// XorStream is a transparent stream-cipher wrapper (§4.2) around any
// combination of io.Reader / io.Writer / io.Seeker. It XORs every byte that
// passes through with a cycling key, and tracks seeks so the key-cycle
// position always matches the underlying stream's offset.
//
// Modelled on original_source/src/xor.rs's XorStream<T>: a Cycle<IntoIter<u8>>
// there becomes an explicit key index here, since Go has no built-in cyclic
// iterator.
type XorStream struct {
	stream  io.ReadWriteSeeker
	key     []byte
	keyPos  int64 // current position in the key cycle, 0..len(key)
	keySize int64
}

// NewXorStream wraps stream with key. An empty key is replaced by {0}, per
// spec.md §4.2, so the wrapper is always well-defined.
func NewXorStream(stream io.ReadWriteSeeker, key []byte) *XorStream {
	if len(key) == 0 {
		key = []byte{0}
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &XorStream{stream: stream, key: k, keySize: int64(len(k))}
}

// Read decodes bytes as b ⊕ key[(pos+i) mod |key|]. The wrapper never loses
// bytes: it returns however many bytes the inner stream returned, XORed.
func (x *XorStream) Read(p []byte) (int, error) {
	n, err := x.stream.Read(p)
	for i := 0; i < n; i++ {
		p[i] ^= x.key[x.keyPos]
		x.keyPos = (x.keyPos + 1) % x.keySize
	}
	return n, err
}

// Write encodes bytes symmetrically with Read. Buffering is limited to this
// single call, per spec.md §4.2.
func (x *XorStream) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	keyPos := x.keyPos
	for i, b := range p {
		buf[i] = b ^ x.key[keyPos]
		keyPos = (keyPos + 1) % x.keySize
	}
	n, err := x.stream.Write(buf)
	// Only advance the key cycle by what was actually written, so a short
	// write leaves the cycle aligned with the bytes that made it through.
	for i := 0; i < n; i++ {
		x.keyPos = (x.keyPos + 1) % x.keySize
	}
	return n, err
}

// xorBuffer XORs src against key (cycled) into dst, used for the
// non-persistent engine's one-shot buffer decode where there is no
// seekable stream to wrap in an XorStream.
func xorBuffer(dst, src, key []byte) {
	if len(key) == 0 {
		key = []byte{0}
	}
	for i, b := range src {
		dst[i] = b ^ key[i%len(key)]
	}
}

// Seek moves the underlying stream and advances or rewinds the key-cycle
// position by the same delta, so subsequent reads/writes XOR with the byte
// of the key that corresponds to the new absolute offset.
func (x *XorStream) Seek(offset int64, whence int) (int64, error) {
	oldPos, err := x.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	newPos, err := x.stream.Seek(offset, whence)
	if err != nil {
		return 0, err
	}

	var delta int64
	if newPos >= oldPos {
		delta = (newPos - oldPos) % x.keySize
	} else {
		delta = x.keySize - ((oldPos - newPos) % x.keySize)
	}
	x.keyPos = ((x.keyPos+delta)%x.keySize + x.keySize) % x.keySize
	return newPos, nil
}
