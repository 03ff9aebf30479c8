package fsm

// Hashable is a key of HashMap.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// HashMap is a chained hash map keyed by Hashable values. It lets subset
// construction look up a DFA state by the content of its state set.
type HashMap[T any] struct {
	buckets []*entry[T]
	size    int
	mask    uint64
}

type entry[T any] struct {
	key   Hashable
	value T
	next  *entry[T]
}

// loadFactor is the size/buckets ratio above which the map grows.
const loadFactor = 0.75

type optionsHashMap struct {
	capacity int
}

type OptionsHashMap func(*optionsHashMap)

// WithCapacity sets the initial bucket count, rounded up to a power of two.
func WithCapacity(capacity int) OptionsHashMap {
	return func(o *optionsHashMap) {
		o.capacity = capacity
	}
}

func NewHashMap[T any](options ...OptionsHashMap) *HashMap[T] {
	opts := &optionsHashMap{
		capacity: 1,
	}
	for _, fn := range options {
		fn(opts)
	}

	capacity := 1
	for capacity < opts.capacity {
		capacity <<= 1
	}

	return &HashMap[T]{
		buckets: make([]*entry[T], capacity),
		mask:    uint64(capacity - 1),
	}
}

// Set inserts or replaces the value stored under key.
func (m *HashMap[T]) Set(key Hashable, value T) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	m.buckets[index] = &entry[T]{
		key:   key,
		value: value,
		next:  m.buckets[index],
	}
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > loadFactor {
		m.resize()
	}
}

func (m *HashMap[T]) Get(key Hashable) (T, bool) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

func (m *HashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*entry[T], newCap)
	newMask := uint64(newCap - 1)

	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			index := e.key.Hash() & newMask
			newBuckets[index] = &entry[T]{
				key:   e.key,
				value: e.value,
				next:  newBuckets[index],
			}
		}
	}

	m.buckets = newBuckets
	m.mask = newMask
}

func (m *HashMap[T]) Size() int {
	return m.size
}
