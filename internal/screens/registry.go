package screens

import (
	"context"
	"sync"
	"time"

	"github.com/diewo77/go-facturas/internal/cache"
	"github.com/diewo77/go-facturas/internal/services"
	"go.uber.org/zap"
)

// Screens is the set of screens mounted for one browser session.
type Screens struct {
	mu       sync.Mutex
	api      services.InvoiceAPI
	pageSize int

	entry    *Entry
	customer *InvoiceView
	admin    *InvoiceView
}

func newScreens(api services.InvoiceAPI, pageSize int) *Screens {
	return &Screens{api: api, pageSize: pageSize}
}

func (s *Screens) Entry() *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		s.entry = NewEntry(s.api)
	}
	return s.entry
}

// Customer returns the invoice view for customerID. A view for a different
// customer is unmounted and replaced; fresh reports whether the returned view
// still needs its initial load.
func (s *Screens) Customer(customerID string) (view *InvoiceView, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer != nil && s.customer.Mounted() && s.customer.CustomerID() == customerID {
		return s.customer, false
	}
	if s.customer != nil {
		s.customer.Unmount()
	}
	s.customer = NewCustomerView(s.api, customerID, s.pageSize)
	return s.customer, true
}

// CurrentCustomer returns the mounted customer view if it belongs to customerID.
func (s *Screens) CurrentCustomer(customerID string) (*InvoiceView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil || !s.customer.Mounted() || s.customer.CustomerID() != customerID {
		return nil, false
	}
	return s.customer, true
}

func (s *Screens) Admin() *InvoiceView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin == nil {
		s.admin = NewAdminView(s.api, s.pageSize)
	}
	return s.admin
}

// Close unmounts every invoice view of the session.
func (s *Screens) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer != nil {
		s.customer.Unmount()
	}
	if s.admin != nil {
		s.admin.Unmount()
	}
}

// Registry maps session ids to their screens. Idle sessions expire after ttl.
type Registry struct {
	mu       sync.Mutex
	api      services.InvoiceAPI
	pageSize int
	ttl      time.Duration
	log      *zap.Logger
	sessions *cache.TTLCache[string, *Screens]
}

func NewRegistry(api services.InvoiceAPI, pageSize int, ttl time.Duration, log *zap.Logger, opts ...cache.Option[string, *Screens]) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{api: api, pageSize: pageSize, ttl: ttl, log: log}
	opts = append(opts, cache.WithEvictHook(func(id string, s *Screens) {
		s.Close()
		r.log.Debug("session screens released", zap.String("session_id", id))
	}))
	r.sessions = cache.NewTTLCache[string, *Screens](opts...)
	return r
}

// Get returns the screens of sessionID, creating them on first use, and
// extends the session's lifetime.
func (r *Registry) Get(sessionID string) *Screens {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions.Get(sessionID)
	if !ok {
		s = newScreens(r.api, r.pageSize)
	}
	r.sessions.Set(sessionID, s, r.ttl)
	return s
}

// Forget drops a session immediately.
func (r *Registry) Forget(sessionID string) {
	r.sessions.Delete(sessionID)
}

func (r *Registry) Len() int { return r.sessions.Len() }

// Sweep releases expired sessions.
func (r *Registry) Sweep() int {
	return r.sessions.Sweep()
}

// Janitor sweeps every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("expired sessions swept", zap.Int("count", n))
			}
		}
	}
}
