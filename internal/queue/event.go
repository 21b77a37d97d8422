// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/afterclass/lesson-booking/internal/model"
)

// OrderQueueName is the durable queue carrying order.placed events.
const OrderQueueName = "order.placed"

// OrderPlacedEvent is published after an order commits. It carries enough
// for downstream consumers to notify or log without querying the primary
// database. Prices are the snapshots taken at order time.
type OrderPlacedEvent struct {
	OrderID    string           `json:"order_id"`
	Name       string           `json:"name"`
	Phone      string           `json:"phone"`
	Items      []OrderEventItem `json:"items"`
	TotalPrice float64          `json:"total_price"`
	PlacedAt   string           `json:"placed_at"`
}

// OrderEventItem is one line of a published order.
type OrderEventItem struct {
	LessonID string  `json:"lesson_id"`
	Subject  string  `json:"subject"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// NewOrderPlacedEvent builds the event payload from a committed order.
func NewOrderPlacedEvent(o *model.Order) OrderPlacedEvent {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderEventItem{
			LessonID: it.LessonID,
			Subject:  it.Subject,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return OrderPlacedEvent{
		OrderID:    o.ID,
		Name:       o.Name,
		Phone:      o.Phone,
		Items:      items,
		TotalPrice: o.TotalPrice,
		PlacedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
