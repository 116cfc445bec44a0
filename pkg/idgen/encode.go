package idgen

import "unsafe"

const (
	// NarrowLen is the length of a narrow ID: 6 groups of 6 bits.
	NarrowLen = 6
	// WideLen is the length of a wide ID: 11 groups of 6 bits. The top
	// group holds v>>60, so its two high bits are always zero and the last
	// character is always one of 'A'..'P'.
	WideLen = 11

	groupBits = 6
	groupMask = 1<<groupBits - 1
)

// NarrowID is a 6 character ID. Only the low 36 bits of the encoded value
// are represented.
type NarrowID [NarrowLen]byte

// WideID is an 11 character ID holding every bit of a uint64.
type WideID [WideLen]byte

// put writes len(dst) characters for v, least significant group first.
func put(dst []byte, v uint64) {
	for i := range dst {
		dst[i] = Alphabet[v&groupMask]
		v >>= groupBits
	}
}

// EncodeNarrow maps the low 36 bits of v to 6 characters. Bits above 36
// are discarded.
func EncodeNarrow(v uint64) NarrowID {
	var id NarrowID
	put(id[:], v)
	return id
}

// EncodeWide maps all 64 bits of v to 11 characters. Distinct inputs
// always give distinct outputs.
func EncodeWide(v uint64) WideID {
	var id WideID
	put(id[:], v)
	return id
}

// EncodeNarrowMixed is EncodeNarrow(Mix(v)).
func EncodeNarrowMixed(v uint64) NarrowID {
	return EncodeNarrow(Mix(v))
}

// EncodeWideMixed is EncodeWide(Mix(v)).
func EncodeWideMixed(v uint64) WideID {
	return EncodeWide(Mix(v))
}

// String returns an owned copy of the ID text.
func (id NarrowID) String() string { return string(id[:]) }

// Bytes returns the characters backed by id itself.
func (id *NarrowID) Bytes() []byte { return id[:] }

// View returns the ID text without copying. The string aliases id and is
// only valid while id is not modified.
func (id *NarrowID) View() string { return unsafe.String(&id[0], NarrowLen) }

// String returns an owned copy of the ID text.
func (id WideID) String() string { return string(id[:]) }

// Bytes returns the characters backed by id itself.
func (id *WideID) Bytes() []byte { return id[:] }

// View returns the ID text without copying. The string aliases id and is
// only valid while id is not modified.
func (id *WideID) View() string { return unsafe.String(&id[0], WideLen) }

// ID is a fixed-size encoded identifier of either width. It is a plain
// value: copying it copies the characters and nothing is heap allocated.
type ID struct {
	buf [WideLen]byte
	n   uint8
}

// Encode maps v to an ID of width w. Only Narrow and Wide are legal
// widths; any other value encodes as Narrow, so Encode never fails. Use
// Width.Validate to reject widths that come from configuration.
func Encode(v uint64, w Width) ID {
	if w != Wide {
		w = Narrow
	}
	id := ID{n: uint8(w)}
	put(id.buf[:w], v)
	return id
}

// Width reports the width the ID was encoded with.
func (id ID) Width() Width { return Width(id.n) }

// Len returns the number of characters in the ID.
func (id ID) Len() int { return int(id.n) }

// String returns an owned copy of the ID text.
func (id ID) String() string { return string(id.buf[:id.n]) }

// Bytes returns the characters backed by id itself.
func (id *ID) Bytes() []byte { return id.buf[:id.n:id.n] }

// View returns the text of id without copying. The result aliases id and
// must not be used after id is modified or goes out of scope.
func View(id *ID) string {
	if id.n == 0 {
		return ""
	}
	return unsafe.String(&id.buf[0], int(id.n))
}
