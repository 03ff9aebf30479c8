package fsm

import "github.com/bits-and-blooms/bitset"

var _ Hashable = &StateSet{}

// StateSet is an immutable set of NFA state numbers used as the identity of a
// DFA state during subset construction.
type StateSet struct {
	bits     *bitset.BitSet
	hashCode uint64
}

// NewStateSet freezes bits. The caller must not modify bits afterwards.
func NewStateSet(bits *bitset.BitSet) *StateSet {
	hashCode := uint64(bits.Count())
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		hashCode += scramble(uint64(i))
	}
	return &StateSet{bits: bits, hashCode: hashCode}
}

// scramble spreads state numbers over the whole word so that sums of nearby
// numbers rarely collide. It is the 64-bit MurmurHash3 finalizer.
func scramble(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}

func (s *StateSet) Hash() uint64 {
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	o, ok := other.(*StateSet)
	if !ok {
		return false
	}
	if s == nil || o == nil {
		return s == o
	}
	return s.hashCode == o.hashCode && s.bits.Equal(o.bits)
}

// GetArray returns the members in ascending order.
func (s *StateSet) GetArray() []int {
	values := make([]int, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		values = append(values, int(i))
	}
	return values
}

func (s *StateSet) Size() int {
	return int(s.bits.Count())
}

func (s *StateSet) Contains(state int) bool {
	return s.bits.Test(uint(state))
}
