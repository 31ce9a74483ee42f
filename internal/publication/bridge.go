package publication

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/docstore"
)

// Bridge caches the latest menu and settings documents and serves their
// published projections. Both stay nil until the dashboard writes them.
type Bridge struct {
	store docstore.Store
	loc   *time.Location
	now   func() time.Time

	mu       sync.RWMutex
	menu     *dashboard.Menu
	settings *dashboard.Settings

	listenersMu sync.Mutex
	listeners   map[int]func()
	nextID      int
}

func NewBridge(store docstore.Store, loc *time.Location) *Bridge {
	if loc == nil {
		loc = time.Local
	}
	return &Bridge{
		store:     store,
		loc:       loc,
		now:       time.Now,
		listeners: make(map[int]func()),
	}
}

// Start loads both documents and keeps them current until the returned
// function is called.
func (b *Bridge) Start(ctx context.Context) (stop func()) {
	b.reloadMenu(ctx)
	b.reloadSettings(ctx)

	bg := context.WithoutCancel(ctx)
	unsubMenu := b.store.Subscribe(docstore.PathMenu, func(string) {
		b.reloadMenu(bg)
		b.changed()
	})
	unsubSettings := b.store.Subscribe(docstore.PathSettings, func(string) {
		b.reloadSettings(bg)
		b.changed()
	})
	return func() {
		unsubMenu()
		unsubSettings()
	}
}

// Read failures keep the previous snapshot.
func (b *Bridge) reloadMenu(ctx context.Context) {
	var m dashboard.Menu
	ok, err := docstore.ReadJSON(ctx, b.store, docstore.PathMenu, &m)
	if err != nil {
		log.Error().Err(err).Msg("load published menu")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !ok {
		b.menu = nil
		return
	}
	b.menu = &m
}

func (b *Bridge) reloadSettings(ctx context.Context) {
	var s dashboard.Settings
	ok, err := docstore.ReadJSON(ctx, b.store, docstore.PathSettings, &s)
	if err != nil {
		log.Error().Err(err).Msg("load published settings")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !ok {
		b.settings = nil
		return
	}
	b.settings = &s
}

// OnChange registers fn to run after every menu or settings change.
func (b *Bridge) OnChange(fn func()) (unsubscribe func()) {
	b.listenersMu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.listenersMu.Unlock()
	return func() {
		b.listenersMu.Lock()
		delete(b.listeners, id)
		b.listenersMu.Unlock()
	}
}

func (b *Bridge) changed() {
	b.listenersMu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.listenersMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// PublishedCategories returns nil until a live menu exists.
func (b *Bridge) PublishedCategories() []catalog.Category {
	b.mu.RLock()
	m := b.menu
	b.mu.RUnlock()
	if m == nil {
		return nil
	}
	return Categories(*m)
}

// PublishedRestaurant returns nil until settings exist.
func (b *Bridge) PublishedRestaurant() *catalog.Restaurant {
	b.mu.RLock()
	s := b.settings
	b.mu.RUnlock()
	if s == nil {
		return nil
	}
	r := Restaurant(*s, b.now().In(b.loc))
	return &r
}

// DeliveryFee is the settings-derived fee, for cart.WithDeliveryFee.
func (b *Bridge) DeliveryFee() (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.settings == nil {
		return 0, false
	}
	return b.settings.Delivery.DeliveryFee, true
}

// Menu returns the cached dashboard menu, if any.
func (b *Bridge) Menu() (dashboard.Menu, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.menu == nil {
		return dashboard.Menu{}, false
	}
	return *b.menu, true
}
