// Package servicetest provides in-memory stores and a fake payment gateway for tests.
package servicetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"

	"fooddelivery/internal/model"
	"fooddelivery/internal/payment"
	"fooddelivery/internal/repository"
)

type Restaurants struct {
	mu   sync.RWMutex
	byID map[string]*model.Restaurant
}

func NewRestaurants(rs ...*model.Restaurant) *Restaurants {
	r := &Restaurants{byID: make(map[string]*model.Restaurant)}
	for _, rest := range rs {
		r.byID[rest.ID] = rest
	}
	return r
}

func (r *Restaurants) GetByID(_ context.Context, id string) (*model.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rest, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rest, nil
}

type Orders struct {
	mu          sync.RWMutex
	byID         map[string]model.Order
	reconciledAt map[string]time.Time
	restaurants  *Restaurants

	CreateErr   error
	GetErr      error
	MarkPaidErr error
}

func NewOrders(restaurants *Restaurants) *Orders {
	return &Orders{
		byID:         make(map[string]model.Order),
		reconciledAt: make(map[string]time.Time),
		restaurants:  restaurants,
	}
}

func (s *Orders) Put(o model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[o.ID] = o
}

func (s *Orders) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *Orders) Get(id string) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	return o, ok
}

func (s *Orders) Create(_ context.Context, o *model.Order) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[o.ID]; ok {
		return repository.ErrDuplicate
	}
	s.byID[o.ID] = *o
	return nil
}

func (s *Orders) GetByID(_ context.Context, id string) (*model.Order, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (s *Orders) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	s.mu.RLock()
	orders := []model.Order{}
	for _, o := range s.byID {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	for i := range orders {
		orders[i].User = &model.User{ID: userID}
		if s.restaurants != nil {
			if rest, err := s.restaurants.GetByID(ctx, orders[i].RestaurantID); err == nil {
				orders[i].Restaurant = rest
			}
		}
	}
	return orders, nil
}

func (s *Orders) MarkPaid(_ context.Context, id string, amount int64) (bool, error) {
	if s.MarkPaidErr != nil {
		return false, s.MarkPaidErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if o.Status != model.OrderStatusPlaced {
		return false, nil
	}
	o.Status = model.OrderStatusPaid
	o.TotalAmount = amount
	s.byID[id] = o
	return true, nil
}

func (s *Orders) ListStalePlaced(_ context.Context, after, before time.Time, limit int) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []model.Order
	for _, o := range s.byID {
		if o.Status == model.OrderStatusPlaced && o.CreatedAt.After(after) && o.CreatedAt.Before(before) && o.CheckoutSessionID != "" {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		ri, rj := s.reconciledAt[orders[i].ID], s.reconciledAt[orders[j].ID]
		if !ri.Equal(rj) {
			return ri.Before(rj)
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *Orders) TouchReconciled(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	s.reconciledAt[id] = at
	return nil
}

type Users struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
	next    int
}

func NewUsers() *Users {
	return &Users{byEmail: make(map[string]model.User)}
}

func (s *Users) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	s.next++
	u.ID = fmt.Sprintf("user-%d", s.next)
	u.CreatedAt = time.Now()
	s.byEmail[u.Email] = *u
	return nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// Gateway records session requests and verifies webhooks with Secret.
type Gateway struct {
	mu       sync.Mutex
	Secret   string
	NoURL    bool
	Err      error
	requests []payment.SessionRequest
	sessions map[string]*payment.Session
}

func NewGateway(secret string) *Gateway {
	return &Gateway{Secret: secret, sessions: make(map[string]*payment.Session)}
}

func (g *Gateway) Requests() []payment.SessionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]payment.SessionRequest(nil), g.requests...)
}

func (g *Gateway) SetSession(s *payment.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[s.ID] = s
}

func (g *Gateway) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, req)
	if g.Err != nil {
		return nil, g.Err
	}

	id := fmt.Sprintf("cs_test_%d", len(g.requests))
	s := &payment.Session{
		ID: id,
		Metadata: map[string]string{
			payment.MetadataOrderID:      req.OrderID,
			payment.MetadataRestaurantID: req.RestaurantID,
		},
		PaymentStatus: "unpaid",
	}
	if !g.NoURL {
		s.URL = "https://checkout.test/" + id
	}
	g.sessions[id] = s
	return s, nil
}

func (g *Gateway) GetCheckoutSession(_ context.Context, id string) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such checkout session: %s", id)
	}
	return s, nil
}

func (g *Gateway) ConstructEvent(payload []byte, signature string) (*payment.Event, error) {
	return payment.ParseEvent(payload, signature, g.Secret)
}

// SignEvent encodes event and signs it the way the gateway does.
func SignEvent(t testing.TB, secret string, event any) ([]byte, string) {
	t.Helper()

	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   raw,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return sp.Payload, sp.Header
}

func CompletedSessionEvent(orderID string, amountTotal int64) map[string]any {
	return map[string]any{
		"id":     "evt_test_completed",
		"object": "event",
		"type":   payment.EventCheckoutSessionCompleted,
		"data": map[string]any{
			"object": map[string]any{
				"id":             "cs_test_completed",
				"object":         "checkout.session",
				"amount_total":   amountTotal,
				"payment_status": payment.PaymentStatusPaid,
				"metadata":       map[string]string{payment.MetadataOrderID: orderID},
			},
		},
	}
}
