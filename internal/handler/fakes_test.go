package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/repository"
)

type memProperties struct {
	mu     sync.Mutex
	rows   map[int64]model.Property
	nextID int64
}

func newMemProperties(seed []model.Property) *memProperties {
	m := &memProperties{rows: map[int64]model.Property{}}
	for _, p := range seed {
		m.rows[p.ID] = p
		m.nextID = max(m.nextID, p.ID)
	}
	return m
}

func (m *memProperties) filter(keep func(model.Property) bool) []model.Property {
	out := []model.Property{}
	for _, p := range m.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memProperties) Create(_ context.Context, p *model.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.rows[p.ID] = *p
	return nil
}

func (m *memProperties) GetByID(_ context.Context, id int64) (*model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memProperties) ListByStatus(_ context.Context, status model.Status) ([]model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(p model.Property) bool { return p.Status == status }), nil
}

func (m *memProperties) ListByAgent(_ context.Context, agentID string) ([]model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(p model.Property) bool { return p.AgentID == agentID }), nil
}

func (m *memProperties) ListAll(_ context.Context, limit int) ([]model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(model.Property) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memProperties) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m *memProperties) Update(_ context.Context, p *model.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memProperties) SetStatus(_ context.Context, id int64, status model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	m.rows[id] = p
	return nil
}

func (m *memProperties) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memProperties) SetPhoto(_ context.Context, id int64, fileID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PhotoFileID = fileID
	p.Images = append(p.Images, url)
	m.rows[id] = p
	return nil
}

type memUsers map[string]model.User

func (m memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m memUsers) Count(context.Context) (int, error) { return len(m), nil }

func (m memUsers) CountByRole(_ context.Context, role model.Role) (int, error) {
	n := 0
	for _, u := range m {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memPayments struct {
	mu   sync.Mutex
	rows []model.Payment
}

func (m *memPayments) Insert(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *p)
	return nil
}

func (m *memPayments) SetStatus(_ context.Context, id uuid.UUID, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPayments) ListRecent(_ context.Context, limit int) ([]model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.Payment{}, m.rows...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPayments) SumSuccessful(context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum float64
	for _, p := range m.rows {
		if p.Status == model.PaymentSuccess {
			sum += p.Amount
		}
	}
	return sum, nil
}
