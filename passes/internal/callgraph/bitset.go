package callgraph

// BitSet is a compact set of function indices.
type BitSet struct {
	bits []uint64
}

// NewBitSet creates a BitSet that can hold values up to maxVal (inclusive)
// without growing.
func NewBitSet(maxVal int) *BitSet {
	words := (maxVal + 64) / 64
	return &BitSet{bits: make([]uint64, words)}
}

// Set adds val to the set and reports whether it was newly added.
func (b *BitSet) Set(val uint32) bool {
	word := val / 64
	if int(word) >= len(b.bits) {
		b.grow(int(word) + 1)
	}
	mask := uint64(1) << (val % 64)
	if b.bits[word]&mask != 0 {
		return false
	}
	b.bits[word] |= mask
	return true
}

// Has returns true if val is in the set.
func (b *BitSet) Has(val uint32) bool {
	word := val / 64
	if int(word) >= len(b.bits) {
		return false
	}
	return b.bits[word]&(1<<(val%64)) != 0
}

// ToSlice returns the members in increasing order.
func (b *BitSet) ToSlice() []uint32 {
	var result []uint32
	for i, word := range b.bits {
		for word != 0 {
			bit := trailingZeros(word)
			result = append(result, uint32(i*64+bit))
			word &= word - 1
		}
	}
	return result
}

// Count returns the number of elements in the set.
func (b *BitSet) Count() int {
	count := 0
	for _, word := range b.bits {
		for word != 0 {
			word &= word - 1
			count++
		}
	}
	return count
}

func (b *BitSet) grow(n int) {
	newBits := make([]uint64, n)
	copy(newBits, b.bits)
	b.bits = newBits
}

func trailingZeros(x uint64) int {
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
