package enum

// --- Group A: State machines ---

// OrderStatus is the dashboard-visible lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// MenuStatus controls whether a dashboard menu is published.
type MenuStatus string

const (
	MenuStatusDraft     MenuStatus = "draft"
	MenuStatusLive      MenuStatus = "live"
	MenuStatusScheduled MenuStatus = "scheduled"
)

// --- Group B: Discriminators ---

// OrderMode is delivery or pickup; it gates address fields and the delivery fee.
type OrderMode string

const (
	OrderModeDelivery OrderMode = "delivery"
	OrderModePickup   OrderMode = "pickup"
)

// Valid reports whether m is a known order mode.
func (m OrderMode) Valid() bool {
	return m == OrderModeDelivery || m == OrderModePickup
}

// StockStatus is the dashboard's three-valued availability of an item or option.
type StockStatus string

const (
	StockAvailable StockStatus = "available"
	StockSoldOut   StockStatus = "sold_out"
	StockHidden    StockStatus = "hidden"
)

// Source tells how a customer session arrived.
type Source string

const (
	SourceWeb      Source = "web"
	SourceWhatsApp Source = "whatsapp"
)

// GroupType tags the three modifier group variants on the wire.
type GroupType string

const (
	GroupRemoval GroupType = "removal"
	GroupSingle  GroupType = "single"
	GroupMulti   GroupType = "multi"
)

// --- Group C: Configurable labels ---

const (
	OrderAcceptAuto   = "auto"
	OrderAcceptManual = "manual"
)

// Currency is the fixed currency tag on order totals.
const Currency = "TRY"
