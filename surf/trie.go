package surf

import "github.com/ageraab/approxfilters/bitvector"

// trie is a LOUDS-encoded succinct trie: labels, a has-child bit per label
// and a LOUDS bit per label, plus a suffixVector holding what each leaf
// doesn't need a full labeled path for. Ported from
// original_source/surf.h's FastSuccinctTrie.
type trie struct {
	labels   []byte
	hasChild *bitvector.BitVector
	louds    *bitvector.BitVector
	values   *suffixVector

	suffixType SuffixType
	suffixSize uint
}

// haveCommonPrefixes reports whether a and b agree on every byte in
// [0, pos], and both are at least pos+1 bytes long.
func haveCommonPrefixes(a, b []byte, pos int) bool {
	if pos < 0 {
		return true
	}
	if len(a) <= pos || len(b) <= pos {
		return false
	}
	for i := pos; i >= 0; i-- {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isSubstr reports whether a is a prefix of b.
func isSubstr(a, b []byte) bool {
	if len(a) == 0 {
		return true
	}
	return haveCommonPrefixes(a, b, len(a)-1)
}

// build emits the trie's labels/hasChild/louds/suffix structures for a
// sorted, already prefix-disambiguated key set. anyFlags, if non-nil, marks
// keys whose leaf should store an any-wildcard suffix instead of a value
// derived from their (possibly truncated) bytes — spec.md §4.8.9.
func (t *trie) build(values [][]byte, anyFlags []bool, suffixType SuffixType, suffixSize uint) {
	t.suffixType = suffixType
	switch suffixType {
	case Empty:
		t.suffixSize = 0
	case Real:
		t.suffixSize = 8
	default:
		t.suffixSize = suffixSize
	}

	useAny := anyFlags != nil
	t.values = newSuffixVector(suffixType, uint(len(values)), t.suffixSize, useAny)
	t.hasChild = bitvector.NewBitVector()
	t.louds = bitvector.NewBitVector()

	done := make([]bool, len(values))
	idx := 0
	for updated := true; updated; idx++ {
		updated = false
		for i, v := range values {
			if done[i] {
				continue
			}
			if idx >= len(v) {
				continue
			}
			updated = true

			if i == 0 || !haveCommonPrefixes(values[i-1], v, idx) {
				t.labels = append(t.labels, v[idx])
				t.hasChild.PushBack(false)
				firstChild := i == 0 || !(idx == 0 || haveCommonPrefixes(values[i-1], v, idx-1))
				t.louds.PushBack(firstChild)
				if i == len(values)-1 || !haveCommonPrefixes(v, values[i+1], idx) {
					t.addLeaf(values, anyFlags, i, idx)
					done[i] = true
				}
			}
			if !done[i] {
				if idx+1 < len(v) {
					t.hasChild.Set(t.hasChild.Size()-1, true)
				} else {
					t.addLeaf(values, anyFlags, i, idx)
					done[i] = true
				}
			}
		}
	}

	t.hasChild.Build()
	t.louds.Build()
}

func (t *trie) addLeaf(values [][]byte, anyFlags []bool, i, idx int) {
	if anyFlags != nil && anyFlags[i] {
		t.values.addAnySuffix()
		return
	}
	t.values.addSuffix(values[i], idx)
}

func (t *trie) find(key []byte) bool {
	pos := -1
	for idx, c := range key {
		pos = t.goTo(pos, c, false)
		if pos == -1 {
			return false
		}
		if !t.hasChild.Get(uint(pos)) {
			return t.values.match(key, idx, uint(pos)-t.hasChild.Rank(uint(pos)))
		}
	}
	if pos != -1 && !t.hasChild.Get(uint(pos)) {
		return true
	}
	pos = t.goTo(pos, terminatorByte, false)
	return pos != -1
}

func (t *trie) findPrefix(prefix []byte) bool {
	pos := -1
	idx := 0
	for _, c := range prefix {
		if pos != -1 && !t.hasChild.Get(uint(pos)) {
			return t.suffixType != Real || t.values.match(prefix, idx-1, uint(pos)-t.hasChild.Rank(uint(pos)))
		}
		pos = t.goTo(pos, c, false)
		if pos == -1 {
			return false
		}
		idx++
	}
	return pos != -1
}

// lowerBound returns the trie's own byte encoding of the smallest stored
// key that is >= key, reconstructed from the labels actually visited, or nil
// when every stored key is smaller than key.
func (t *trie) lowerBound(key []byte) []byte {
	var result []byte
	pos := -1
	idx := 0
	exactMatch := true

	for pos == -1 || t.hasChild.Get(uint(pos)) {
		newPos := pos
		if exactMatch {
			if idx == len(key) {
				break
			}
			newPos = t.goTo(pos, key[idx], true)
			if newPos == -1 {
				for newPos == -1 {
					if pos == -1 {
						return nil
					}
					if t.labels[pos] != terminatorByte {
						result = result[:len(result)-1]
					}
					pos = t.moveToParent(pos)
					idx--
					newPos = t.goToInt(pos, int(key[idx])+1, true)
				}
				exactMatch = false
			} else if t.labels[newPos] != key[idx] {
				exactMatch = false
			}
		} else {
			newPos = t.moveToChildren(pos)
		}

		pos = newPos
		if t.labels[pos] != terminatorByte {
			result = append(result, t.labels[pos])
		}
		idx++
	}
	if exactMatch {
		return key
	}
	return result
}

func (t *trie) calculateSizeBits() uint {
	size := uint(len(t.labels)) * 8
	size += t.hasChild.Size() + t.louds.Size()
	size += t.values.dataSizeBits()
	return size
}

func (t *trie) moveToChildren(parent int) int {
	if parent == -1 {
		return 0
	}
	if !t.hasChild.Get(uint(parent)) {
		return -1
	}
	pos, ok := t.louds.Select(t.hasChild.Rank(uint(parent)) + 1)
	if !ok {
		return -1
	}
	return pos
}

func (t *trie) moveToParent(child int) int {
	r := t.louds.Rank(uint(child))
	if r == 1 {
		return -1
	}
	pos, ok := t.hasChild.Select(r - 1)
	if !ok {
		return -1
	}
	return pos
}

// findChild takes c as an int, not a byte, so the lowerBound ascend case in
// lowerBound can pass 256 (one past the largest possible label) without
// wrapping around to 0, matching the reference's label comparisons done in
// a wider-than-byte type.
func (t *trie) findChild(start int, c int, lowerBound bool) int {
	for i := start; i < len(t.labels); i++ {
		if i > start && t.louds.Get(uint(i)) {
			return -1
		}
		if int(t.labels[i]) == c || (lowerBound && int(t.labels[i]) > c) {
			return i
		}
	}
	return -1
}

func (t *trie) goTo(start int, c byte, lowerBound bool) int {
	return t.goToInt(start, int(c), lowerBound)
}

func (t *trie) goToInt(start int, c int, lowerBound bool) int {
	childrenStart := t.moveToChildren(start)
	if childrenStart == -1 {
		return -1
	}
	return t.findChild(childrenStart, c, lowerBound)
}
