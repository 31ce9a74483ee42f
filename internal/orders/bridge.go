package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flamedough/api/internal/docstore"
	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const publishTimeout = 5 * time.Second

// Bridge stores orders under "orders/<id>" and assigns order numbers from
// the shared "orderCounter".
type Bridge struct {
	store  docstore.Store
	events events.Publisher
	newID  func() string

	// pushes collapses concurrent pushes of one key so a number is drawn once.
	pushes singleflight.Group
}

func NewBridge(store docstore.Store, publisher events.Publisher) *Bridge {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Bridge{
		store:  store,
		events: publisher,
		newID:  uuid.NewString,
	}
}

// PushOrder creates the order for p. The idempotency key is the storage
// id, so pushing the same key again returns the stored order without
// drawing a new order number.
func (b *Bridge) PushOrder(ctx context.Context, p Payload) (Order, error) {
	id := p.IdempotencyKey
	if id == "" {
		id = b.newID()
	}
	v, err, _ := b.pushes.Do(id, func() (any, error) {
		return b.push(ctx, id, p)
	})
	if err != nil {
		return Order{}, err
	}
	return v.(Order), nil
}

func (b *Bridge) push(ctx context.Context, id string, p Payload) (Order, error) {
	path := docstore.OrderPath(id)

	var existing Order
	ok, err := docstore.ReadJSON(ctx, b.store, path, &existing)
	if err != nil {
		return Order{}, fmt.Errorf("read order: %w", err)
	}
	if ok {
		return existing, nil
	}

	n, err := b.store.Increment(ctx, docstore.PathOrderCounter)
	if err != nil {
		return Order{}, fmt.Errorf("next order number: %w", err)
	}
	order := fromPayload(id, FormatOrderNumber(n), p, b.newID)

	created := false
	raw, err := b.store.Update(ctx, path, func(_ []byte, exists bool) ([]byte, error) {
		// Another instance pushed the same key first; keep its record.
		if exists {
			return nil, docstore.ErrNoChange
		}
		created = true
		return json.Marshal(order)
	})
	if err != nil {
		return Order{}, fmt.Errorf("write order: %w", err)
	}

	var stored Order
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Order{}, fmt.Errorf("decode order: %w", err)
	}
	if created {
		b.publish(ctx, events.OrderCreated, stored, "")
	}
	return stored, nil
}

// UpdateStatus moves an order to status. Only transitions in
// allowedTransitions are accepted.
func (b *Bridge) UpdateStatus(ctx context.Context, id string, status enum.OrderStatus) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	var previous enum.OrderStatus
	raw, err := b.store.Update(ctx, docstore.OrderPath(id), func(cur []byte, exists bool) ([]byte, error) {
		if !exists {
			return nil, ErrOrderNotFound
		}
		var o Order
		if err := json.Unmarshal(cur, &o); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		if err := validateStatusTransition(o.Status, status); err != nil {
			return nil, err
		}
		previous = o.Status
		o.Status = status
		return json.Marshal(o)
	})
	if err != nil {
		return Order{}, err
	}

	var o Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return Order{}, fmt.Errorf("decode order: %w", err)
	}
	b.publish(ctx, events.OrderStatusChanged, o, previous)
	return o, nil
}

// Get returns one order.
func (b *Bridge) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	ok, err := docstore.ReadJSON(ctx, b.store, docstore.OrderPath(id), &o)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

// AllOrders returns every order, newest first. Store failures are logged
// and yield an empty list.
func (b *Bridge) AllOrders(ctx context.Context) []Order {
	docs, err := b.store.List(ctx, docstore.PathOrders)
	if err != nil {
		log.Error().Err(err).Msg("list orders")
		return []Order{}
	}

	out := make([]Order, 0, len(docs))
	for path, raw := range docs {
		// Only direct children are orders.
		if strings.Contains(strings.TrimPrefix(path, docstore.PathOrders+"/"), "/") {
			continue
		}
		var o Order
		if err := json.Unmarshal(raw, &o); err != nil {
			log.Error().Err(err).Str("path", path).Msg("decode order")
			continue
		}
		out = append(out, o)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders by CreatedAt descending, then by id for stability.
func SortNewestFirst(list []Order) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

// Subscribe calls fn with the full order collection now and after every
// change. Consumers diff snapshots themselves.
func (b *Bridge) Subscribe(ctx context.Context, fn func([]Order)) (unsubscribe func()) {
	unsubscribe = b.store.Subscribe(docstore.PathOrders, func(string) {
		fn(b.AllOrders(ctx))
	})
	fn(b.AllOrders(ctx))
	return unsubscribe
}

// Filter returns the orders with the given status; empty status keeps all.
func Filter(list []Order, status enum.OrderStatus) []Order {
	if status == "" {
		return list
	}
	out := make([]Order, 0, len(list))
	for _, o := range list {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// NewOrderIDs returns the ids in next that are absent from prev.
func NewOrderIDs(prev, next []Order) []string {
	seen := make(map[string]bool, len(prev))
	for _, o := range prev {
		seen[o.ID] = true
	}
	var ids []string
	for _, o := range next {
		if !seen[o.ID] {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func (b *Bridge) publish(ctx context.Context, typ string, o Order, previous enum.OrderStatus) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	e := events.Event{
		Type:        typ,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Previous:    previous,
		Total:       o.Total,
		Phone:       o.Customer.Phone,
		At:          time.Now().UTC(),
	}
	if err := b.events.Publish(ctx, e); err != nil {
		log.Error().Err(err).Str("order_id", o.ID).Str("event", typ).Msg("publish order event")
	}
}
