package model

import "time"

// Order records a confirmed booking. Orders are append-only: once written
// they are never mutated or deleted. TotalPriceCents always equals the sum
// of item PriceCents * Quantity; it is recomputed on the server and never
// taken from the client.
type Order struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `json:"items"`
	TotalPriceCents uint64      `json:"-"`
	TotalPrice      float64     `json:"totalPrice"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderItem is one line of an order. PriceCents is the lesson price
// snapshotted at order time, so later catalog price changes never affect
// a committed order.
type OrderItem struct {
	LessonID   string  `json:"lessonId"`
	Subject    string  `json:"subject,omitempty"`
	Quantity   int64   `json:"quantity"`
	PriceCents uint32  `json:"-"`
	Price      float64 `json:"price"`
}

// FillPrices recomputes the decimal amounts from the cent values on the
// order and all of its items.
func (o *Order) FillPrices() {
	o.TotalPrice = float64(o.TotalPriceCents) / 100.0
	for i := range o.Items {
		o.Items[i].Price = float64(o.Items[i].PriceCents) / 100.0
	}
}
