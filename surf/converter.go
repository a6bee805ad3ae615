// Package surf implements a succinct range filter: a LOUDS-encoded trie over
// a sorted, deduplicated key set that answers membership, prefix and range
// queries in space close to the information-theoretic minimum. Ported from
// original_source/surf.h.
package surf

// Converter encodes a domain value T into the byte string the trie is built
// and queried over. Encodings must preserve T's ordering: a < b in T must
// imply Converter.ToBytes(a) < Converter.ToBytes(b) lexicographically.
type Converter[T any] interface {
	ToBytes(value T) []byte
}

// StringConverter is the identity converter: strings are already ordered
// lexicographically by their own bytes, per original_source/surf.h's
// DefaultSurfConverter<std::string>.
type StringConverter struct{}

func (StringConverter) ToBytes(value string) []byte {
	return []byte(value)
}

// IntConverter encodes a signed 32-bit integer into 5 bytes so that
// lexicographic byte order matches integer order. It splits the 32 bits,
// high to low, into 6/6/6/7/7-bit groups and flips the sign bit inside the
// first group, exactly matching original_source/surf.h's
// DefaultSurfConverter<int>::ToString.
type IntConverter struct{}

func (IntConverter) ToBytes(value int32) []byte {
	y := uint32(value)
	return []byte{
		byte((y>>26)&0x3F) ^ 0x20,
		byte((y >> 20) & 0x3F),
		byte((y >> 14) & 0x3F),
		byte((y >> 7) & 0x7F),
		byte(y & 0x7F),
	}
}
