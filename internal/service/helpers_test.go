package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/orderdesk/internal/catalog"
	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]string, 0, len(p.events))
	for _, e := range p.events {
		res = append(res, e.Kind)
	}
	return res
}

type stubGateway struct {
	result *model.ChargeResult
	err    error
	calls  []model.Charge
}

func (g *stubGateway) Charge(ctx context.Context, charge model.Charge) (*model.ChargeResult, error) {
	g.calls = append(g.calls, charge)
	return g.result, g.err
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type stubNotifier struct {
	err  error
	sent []sentMail
}

func (n *stubNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return n.err
}

type failingCreate[T any] struct {
	Records[T]
	err error
}

func (f failingCreate[T]) Create(ctx context.Context, id string, v T) error {
	return f.err
}

type fixture struct {
	store   *repository.MemoryStore
	users   *repository.Collection[model.User]
	tokens  *repository.Collection[model.Token]
	carts   *repository.Collection[model.Cart]
	orders  *repository.Collection[model.Order]
	catalog *catalog.Catalog
	clock   *fakeClock
	events  *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	menu, err := catalog.New([]model.MenuItem{
		{Code: "A", Name: "Margherita", Price: 500},
		{Code: "B", Name: "Pepperoni", Price: 1000},
		{Code: "C", Name: "Slice", Price: 5},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	store := repository.NewMemoryStore()
	return &fixture{
		store:   store,
		users:   repository.NewCollection[model.User](store, "users"),
		tokens:  repository.NewCollection[model.Token](store, "tokens"),
		carts:   repository.NewCollection[model.Cart](store, "shoppingcarts"),
		orders:  repository.NewCollection[model.Order](store, "orders"),
		catalog: menu,
		clock:   newFakeClock(),
		events:  &recordingPublisher{},
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	err = f.users.Create(context.Background(), email, model.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
		TOSAgreement: true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func (f *fixture) sessions() *SessionManager {
	m := NewSessionManager(f.users, f.tokens)
	m.now = f.clock.Now
	return m
}

func (f *fixture) cartManager() *CartManager {
	m := NewCartManager(f.carts, f.catalog, f.events)
	m.now = f.clock.Now
	return m
}
