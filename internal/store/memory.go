package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/pkg/tool"
)

// Memory is the default Store: plain keyed maps with process lifetime.
// The mutex protects map integrity only; concurrent updates to the same
// record stay last-write-wins, which is all this service promises.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	subscriptions map[string]*models.Subscription
	negotiations map[string]*models.BillNegotiation
	priceAlerts  map[string]*models.PriceAlert
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]*models.User),
		subscriptions: make(map[string]*models.Subscription),
		negotiations:  make(map[string]*models.BillNegotiation),
		priceAlerts:   make(map[string]*models.PriceAlert),
	}
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = tool.GenerateUUIDV7()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateUser(ctx context.Context, id string, patch *models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Apply(patch)
	cp := *u
	return &cp, nil
}

func (m *Memory) CreateSubscription(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if s.ID == "" {
		s.ID = tool.GenerateUUIDV7()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	cp := *s
	m.subscriptions[s.ID] = &cp
	return s, nil
}

func (m *Memory) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Subscription
	for _, s := range m.subscriptions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sortByCreation(out, func(s *models.Subscription) (time.Time, string) { return s.CreatedAt, s.ID })
	return out, nil
}

func (m *Memory) UpdateSubscription(ctx context.Context, id string, patch *models.SubscriptionPatch) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.Apply(patch)
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	return &cp, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscriptions[id]; !ok {
		return false, nil
	}
	delete(m.subscriptions, id)
	return true, nil
}

func (m *Memory) CreateNegotiation(ctx context.Context, n *models.BillNegotiation) (*models.BillNegotiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = tool.GenerateUUIDV7()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	cp := *n
	m.negotiations[n.ID] = &cp
	return n, nil
}

func (m *Memory) GetNegotiation(ctx context.Context, id string) (*models.BillNegotiation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.negotiations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *Memory) ListNegotiationsByUser(ctx context.Context, userID string) ([]*models.BillNegotiation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.BillNegotiation
	for _, n := range m.negotiations {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sortByCreation(out, func(n *models.BillNegotiation) (time.Time, string) { return n.CreatedAt, n.ID })
	return out, nil
}

func (m *Memory) UpdateNegotiation(ctx context.Context, id string, patch *models.BillNegotiationPatch) (*models.BillNegotiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.negotiations[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.Apply(patch)
	cp := *n
	return &cp, nil
}

func (m *Memory) CreatePriceAlert(ctx context.Context, a *models.PriceAlert) (*models.PriceAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = tool.GenerateUUIDV7()
	}
	if a.AlertDate.IsZero() {
		a.AlertDate = time.Now().UTC()
	}
	cp := *a
	m.priceAlerts[a.ID] = &cp
	return a, nil
}

func (m *Memory) ListPriceAlertsByUser(ctx context.Context, userID string) ([]*models.PriceAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.PriceAlert
	for _, a := range m.priceAlerts {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sortByCreation(out, func(a *models.PriceAlert) (time.Time, string) { return a.AlertDate, a.ID })
	return out, nil
}

func (m *Memory) AcknowledgePriceAlert(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.priceAlerts[id]
	if !ok {
		return ErrNotFound
	}
	a.Acknowledged = true
	return nil
}

// sortByCreation keeps listing order deterministic: creation time, id.
func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi < idj
		}
		return ti.Before(tj)
	})
}
