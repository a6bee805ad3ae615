package surf

import (
	"github.com/ageraab/approxfilters/hashfamily"
	"github.com/ageraab/approxfilters/vector"
)

// SuffixType selects how much of a key's remainder is kept at each leaf
// after the trie's labeled path stops disambiguating it, per
// original_source/surf.h's SuffixType enum.
type SuffixType int

const (
	// Empty stores nothing; Find degrades to a prefix check, Hash-filter style.
	Empty SuffixType = iota
	// Hash stores suffixSize bits of a hash of the full key.
	Hash
	// Real stores the single next raw byte of the key (or the terminator
	// sentinel if the key ends at this node).
	Real
)

// terminatorByte marks a key boundary inside the trie's label stream;
// original_source/consts.h's kTerminator.
const terminatorByte = 0xFF

// suffixVector stores one suffix value per trie leaf, plus an optional
// per-leaf "matches anything" flag used by fixed-length mode (spec.md
// §4.8.9). Ported from original_source/surf.h's SuffixVector, generalized
// with the any-wildcard original_source doesn't implement.
type suffixVector struct {
	suffixType SuffixType
	suffixSize uint
	data       *vector.CompressedVector
	size       uint

	useAny   bool
	anyFlags []bool
}

func newSuffixVector(suffixType SuffixType, capacity, suffixSize uint, useAny bool) *suffixVector {
	sv := &suffixVector{suffixType: suffixType, suffixSize: suffixSize, useAny: useAny}
	if suffixType != Empty {
		width := suffixSize
		if suffixType == Real {
			width = 8
		}
		if capacity == 0 {
			capacity = 1
		}
		sv.data = vector.NewCompressedVector(capacity, width)
	}
	if useAny {
		sv.anyFlags = make([]bool, 0, capacity)
	}
	return sv
}

// addSuffix records the suffix for a leaf reached by consuming key[:pos+1].
func (sv *suffixVector) addSuffix(key []byte, pos int) {
	var value uint32
	switch sv.suffixType {
	case Real:
		if pos+1 < len(key) {
			value = uint32(key[pos+1])
		} else {
			value = terminatorByte
		}
	case Hash:
		value = uint32(hashfamily.Sum64(key) % (uint64(1) << sv.suffixSize))
	}
	if sv.data != nil {
		sv.data.Set(sv.size, value)
	}
	if sv.useAny {
		sv.anyFlags = append(sv.anyFlags, false)
	}
	sv.size++
}

// addAnySuffix records a wildcard leaf: its stored suffix matches any
// query, per spec.md §4.8.9's fixed-length truncation.
func (sv *suffixVector) addAnySuffix() {
	if !sv.useAny {
		panic("approxfilters: addAnySuffix called on a suffix vector without any-wildcard support")
	}
	if sv.data != nil {
		sv.data.Set(sv.size, 0)
	}
	sv.anyFlags = append(sv.anyFlags, true)
	sv.size++
}

// match reports whether key's suffix at depth pos agrees with the value
// stored at leaf index.
func (sv *suffixVector) match(key []byte, pos int, index uint) bool {
	if sv.useAny && index < uint(len(sv.anyFlags)) && sv.anyFlags[index] {
		return true
	}
	switch sv.suffixType {
	case Empty:
		return true
	case Real:
		var next uint32
		if pos+1 < len(key) {
			next = uint32(key[pos+1])
		} else {
			next = terminatorByte
		}
		return sv.data.Get(index) == next
	case Hash:
		return sv.data.Get(index) == uint32(hashfamily.Sum64(key)%(uint64(1)<<sv.suffixSize))
	}
	return true
}

func (sv *suffixVector) dataSizeBits() uint {
	if sv.data == nil {
		return 0
	}
	return sv.data.BitsSize()
}
