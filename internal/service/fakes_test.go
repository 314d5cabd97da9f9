package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/repository"
)

type memPropertyStore struct {
	mu     sync.Mutex
	rows   map[int64]model.Property
	nextID int64
	calls  int
}

func newMemPropertyStore(seed []model.Property) *memPropertyStore {
	s := &memPropertyStore{rows: map[int64]model.Property{}}
	for _, p := range seed {
		s.rows[p.ID] = p
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	return s
}

func (s *memPropertyStore) sorted(keep func(model.Property) bool) []model.Property {
	out := []model.Property{}
	for _, p := range s.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memPropertyStore) Create(_ context.Context, p *model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.rows[p.ID] = *p
	return nil
}

func (s *memPropertyStore) GetByID(_ context.Context, id int64) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *memPropertyStore) ListByStatus(_ context.Context, status model.Status) ([]model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.sorted(func(p model.Property) bool { return p.Status == status }), nil
}

func (s *memPropertyStore) ListByAgent(_ context.Context, agentID string) ([]model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(p model.Property) bool { return p.AgentID == agentID }), nil
}

func (s *memPropertyStore) ListAll(_ context.Context, limit int) ([]model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sorted(func(model.Property) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memPropertyStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func (s *memPropertyStore) Update(_ context.Context, p *model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.rows[p.ID] = *p
	return nil
}

func (s *memPropertyStore) SetStatus(_ context.Context, id int64, status model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	s.rows[id] = p
	return nil
}

func (s *memPropertyStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *memPropertyStore) SetPhoto(_ context.Context, id int64, fileID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PhotoFileID = fileID
	p.Images = append(append([]string{}, p.Images...), url)
	s.rows[id] = p
	return nil
}

type memUserStore struct {
	users map[string]model.User
}

func newMemUserStore(users ...model.User) *memUserStore {
	s := &memUserStore{users: map[string]model.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) Count(context.Context) (int, error) { return len(s.users), nil }

func (s *memUserStore) CountByRole(_ context.Context, role model.Role) (int, error) {
	n := 0
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memPaymentStore struct {
	mu       sync.Mutex
	payments []model.Payment
	settled  chan uuid.UUID
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{settled: make(chan uuid.UUID, 8)}
}

func (s *memPaymentStore) Insert(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *p)
	return nil
}

func (s *memPaymentStore) SetStatus(_ context.Context, id uuid.UUID, status model.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments[i].Status = status
			s.settled <- id
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memPaymentStore) ListRecent(_ context.Context, limit int) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.Payment{}, s.payments...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memPaymentStore) SumSuccessful(context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, p := range s.payments {
		if p.Status == model.PaymentSuccess {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (s *memPaymentStore) status(id uuid.UUID) model.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			return p.Status
		}
	}
	return ""
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]model.Property
}

func newMemCache() *memCache { return &memCache{entries: map[string][]model.Property{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	*(dest.(*[]model.Property)) = append([]model.Property{}, v...)
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]model.Property{}, value.([]model.Property)...)
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev.Kind = routingKey
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

type memPhotoStore struct {
	files map[string][]byte
	types map[string]string
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{files: map[string][]byte{}, types: map[string]string{}}
}

func (s *memPhotoStore) UploadPhoto(_ context.Context, src io.Reader, filename, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return "", err
	}
	id := "file-" + filename
	s.files[id] = buf.Bytes()
	s.types[id] = contentType
	return id, nil
}

func (s *memPhotoStore) DownloadPhoto(_ context.Context, id string) ([]byte, string, error) {
	data, ok := s.files[id]
	if !ok {
		return nil, "", repository.ErrNotFound
	}
	return data, s.types[id], nil
}
