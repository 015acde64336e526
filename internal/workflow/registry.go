package workflow

import (
	"context"
	"sync"
	"time"
)

// DefaultIdleTimeout — через сколько без обращений сессия выгружается из памяти.
// Сохраненная пара остается в хранилище и восстановится при следующем визите.
const DefaultIdleTimeout = 30 * time.Minute

// Factory создает workflow для сессии.
type Factory func(sessionID string) *Workflow

type entry struct {
	wf       *Workflow
	lastSeen time.Time
}

// Registry хранит по одному Workflow на сессию браузера.
type Registry struct {
	mu          sync.Mutex
	entries     map[string]*entry
	factory     Factory
	idleTimeout time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

type RegistryOption func(*Registry)

// WithIdleTimeout задает время простоя, после которого сессия выгружается.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

func NewRegistry(factory Factory, opts ...RegistryOption) *Registry {
	r := &Registry{
		entries:     make(map[string]*entry),
		factory:     factory,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()
	return r
}

// Get возвращает workflow сессии, создавая его при первом обращении, и пытается
// восстановить прошлый результат. Ошибка восстановления не мешает работе:
// сессия начинается с пустого состояния, а следующий Get пробует снова.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Workflow, error) {
	r.mu.Lock()
	now := r.now()
	r.sweepLocked(now)
	e, ok := r.entries[sessionID]
	if !ok {
		e = &entry{wf: r.factory(sessionID)}
		r.entries[sessionID] = e
	}
	e.lastSeen = now
	r.mu.Unlock()

	return e.wf, e.wf.Init(ctx)
}

// State возвращает состояние сессии только для чтения. Для сессии без записи
// workflow создается временно и остается в реестре, лишь если восстановил пару.
func (r *Registry) State(ctx context.Context, sessionID string) (State, error) {
	r.mu.Lock()
	now := r.now()
	r.sweepLocked(now)
	e, ok := r.entries[sessionID]
	if ok {
		e.lastSeen = now
	}
	r.mu.Unlock()

	if ok {
		err := e.wf.Init(ctx)
		return e.wf.State(), err
	}

	wf := r.factory(sessionID)
	if err := wf.Init(ctx); err != nil {
		return wf.State(), err
	}
	if wf.Pristine() {
		return wf.State(), nil
	}

	r.mu.Lock()
	if existing, ok := r.entries[sessionID]; ok {
		wf = existing.wf
	} else {
		r.entries[sessionID] = &entry{wf: wf, lastSeen: now}
	}
	r.mu.Unlock()
	return wf.State(), nil
}

// sweepLocked выгружает простаивающие сессии не чаще раза в четверть idleTimeout.
// Сессии с незавершенной отправкой не трогаются.
func (r *Registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTimeout/4 {
		return
	}
	r.lastSweep = now

	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idleTimeout && !e.wf.busy() {
			delete(r.entries, id)
		}
	}
}

// Len возвращает количество сессий в памяти.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
