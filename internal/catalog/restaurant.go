package catalog

type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Restaurant is the customer-facing storefront header data.
type Restaurant struct {
	Name              string   `json:"name"`
	CoverImage        string   `json:"coverImage"`
	Logo              string   `json:"logo"`
	IsOpen            bool     `json:"isOpen"`
	OpensAt           string   `json:"opensAt,omitempty"`
	OpensOn           string   `json:"opensOn,omitempty"`
	PrepTime          string   `json:"prepTime"`
	MinOrder          int64    `json:"minOrder"`
	DeliveryFee       int64    `json:"deliveryFee"`
	DeliveryAvailable bool     `json:"deliveryAvailable"`
	PickupAvailable   bool     `json:"pickupAvailable"`
	Location          Location `json:"location"`
	Districts         []string `json:"districts"`
}
