package market

import "fmt"

// MockOwnership is an in-memory ownership registry for tests, dev runs and
// the bundled daemon. Ids are sequential from zero, matching the engine's
// expectation.
type MockOwnership struct {
	owners map[uint64]Address
	next   uint64

	// FailTransfer forces the next Transfer to error, for unwinding tests.
	FailTransfer bool
}

func NewMockOwnership() *MockOwnership {
	return &MockOwnership{owners: make(map[uint64]Address)}
}

func (m *MockOwnership) OwnerOf(id uint64) (Address, error) {
	owner, ok := m.owners[id]
	if !ok {
		return "", fmt.Errorf("asset %d does not exist", id)
	}
	return owner, nil
}

func (m *MockOwnership) MintTo(to Address) (uint64, error) {
	id := m.next
	m.next++
	m.owners[id] = to
	return id, nil
}

func (m *MockOwnership) Transfer(from, to Address, id uint64) error {
	if m.FailTransfer {
		m.FailTransfer = false
		return fmt.Errorf("transfer rejected")
	}
	owner, ok := m.owners[id]
	if !ok {
		return fmt.Errorf("asset %d does not exist", id)
	}
	if owner != from {
		return fmt.Errorf("asset %d held by %s, not %s", id, owner, from)
	}
	m.owners[id] = to
	return nil
}
