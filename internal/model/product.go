package model

// Variation is a priced product option (colour, size, etc.).
type Variation struct {
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	PriceModifier float64 `json:"price_modifier"`
}

// SelectedVariation identifies a variation chosen by a caller for one
// cart or order line. It carries no price; the modifier is resolved
// against the product's variation catalogue at calculation time.
type SelectedVariation struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Product represents a catalogue product as returned by a merchant lookup,
// after validation. It is constructed fresh on every lookup and never
// persisted by this module.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	BasePrice   float64     `json:"base_price"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	StockLevel  int         `json:"stock_level"`
	Variations  []Variation `json:"variations,omitempty"`
}

// ProductsResponse is the serialised result of a product search.
// Field names are part of the tool-layer contract.
type ProductsResponse struct {
	Success    bool      `json:"success"`
	TotalCount int       `json:"total_count"`
	Products   []Product `json:"products"`
	Error      string    `json:"error"`
}
