package kvstore

import "sync"

// Mem is the in-memory Store for tests and dev runs. Safe for concurrent use.
type Mem struct {
	mu sync.RWMutex
	db map[string]string
}

func NewMem() *Mem {
	return &Mem{db: make(map[string]string)}
}

func (m *Mem) Get(key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.db[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *Mem) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db[key] = value
	return nil
}

func (m *Mem) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.db, key)
	return nil
}

func (m *Mem) Apply(puts map[string]string, dels []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range puts {
		m.db[k] = v
	}
	for _, k := range dels {
		delete(m.db, k)
	}
	return nil
}

func (m *Mem) Close() error {
	return nil
}

// Len reports how many keys are stored, handy in tests.
func (m *Mem) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}
