// Package kvstore provides the string key/value storage the market engine
// persists through: an in-memory store for tests and tooling, and a sqlite
// store for the daemon. Values are opaque strings; callers own the encoding.
package kvstore

// Store is the minimal kv surface the engine needs. Get returns nil for a
// missing key. Apply writes a whole batch of puts and deletes atomically so
// one engine operation never half-lands on disk.
type Store interface {
	Get(key string) (*string, error)
	Set(key, value string) error
	Delete(key string) error
	Apply(puts map[string]string, dels []string) error
	Close() error
}

// Batch accumulates the dirty keys of one operation before a single Apply.
type Batch struct {
	puts map[string]string
	dels []string
}

func NewBatch() *Batch {
	return &Batch{puts: make(map[string]string)}
}

func (b *Batch) Put(key, value string) {
	b.puts[key] = value
}

func (b *Batch) Del(key string) {
	delete(b.puts, key)
	b.dels = append(b.dels, key)
}

// Len reports how many staged writes the batch holds.
func (b *Batch) Len() int {
	return len(b.puts) + len(b.dels)
}

// Flush applies the staged writes and resets the batch.
func (b *Batch) Flush(s Store) error {
	if b.Len() == 0 {
		return nil
	}
	if err := s.Apply(b.puts, b.dels); err != nil {
		return err
	}
	b.puts = make(map[string]string)
	b.dels = nil
	return nil
}
