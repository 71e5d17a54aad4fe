package cart

import (
	"context"
	"sync"
)

// MemoryLocalStores holds device carts in process memory. Used by tests and single-process
// development runs.
type MemoryLocalStores struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryLocalStores() *MemoryLocalStores {
	return &MemoryLocalStores{data: map[string][]byte{}}
}

// For returns the store bound to deviceID.
func (m *MemoryLocalStores) For(deviceID string) LocalStore {
	return &MemoryLocalStore{parent: m, deviceID: deviceID}
}

// Factory adapts the registry to a LocalStoreFactory.
func (m *MemoryLocalStores) Factory() LocalStoreFactory {
	return m.For
}

// Raw returns the stored bytes for deviceID and whether an entry exists.
func (m *MemoryLocalStores) Raw(deviceID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[deviceID]
	return v, ok
}

// SetRaw stores arbitrary bytes for deviceID.
func (m *MemoryLocalStores) SetRaw(deviceID string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[deviceID] = raw
}

type MemoryLocalStore struct {
	parent   *MemoryLocalStores
	deviceID string
}

func (s *MemoryLocalStore) Load(context.Context) ([]Line, error) {
	raw, ok := s.parent.Raw(s.deviceID)
	if !ok {
		return nil, nil
	}
	return DecodeLines(raw)
}

func (s *MemoryLocalStore) Save(_ context.Context, lines []Line) error {
	payload, err := EncodeLines(lines)
	if err != nil {
		return err
	}
	s.parent.SetRaw(s.deviceID, payload)
	return nil
}

func (s *MemoryLocalStore) Delete(context.Context) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	delete(s.parent.data, s.deviceID)
	return nil
}
