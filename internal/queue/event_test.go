package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterclass/lesson-booking/internal/model"
)

func TestNewOrderPlacedEvent(t *testing.T) {
	o := &model.Order{
		ID:              "42",
		Name:            "Ada Lovelace",
		Phone:           "0123456789",
		TotalPriceCents: 25000,
		CreatedAt:       time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{LessonID: "1", Subject: "Mathematics", Quantity: 2, PriceCents: 9500},
			{LessonID: "3", Subject: "Sports", Quantity: 1, PriceCents: 6000},
		},
	}
	o.FillPrices()

	ev := NewOrderPlacedEvent(o)
	assert.Equal(t, "42", ev.OrderID)
	assert.Equal(t, 250.0, ev.TotalPrice)
	assert.Equal(t, "2025-03-14T09:30:00Z", ev.PlacedAt)
	require.Len(t, ev.Items, 2)
	assert.Equal(t, "Mathematics", ev.Items[0].Subject)
	assert.Equal(t, 95.0, ev.Items[0].Price)
	assert.Equal(t, int64(1), ev.Items[1].Quantity)
}

func TestFormatOrderLine(t *testing.T) {
	ev := OrderPlacedEvent{
		OrderID:    "7",
		Name:       "Ada Lovelace",
		Phone:      "0123456789",
		TotalPrice: 155.5,
		PlacedAt:   "2025-03-14T09:30:00Z",
		Items: []OrderEventItem{
			{LessonID: "1", Subject: "Mathematics", Quantity: 2, Price: 47.75},
			{LessonID: "2", Subject: "English", Quantity: 1, Price: 60.0},
		},
	}
	line := formatOrderLine(ev)
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "order_id=7")
	assert.Contains(t, line, "lines=2")
	assert.Contains(t, line, "units=3")
	assert.Contains(t, line, "total=155.50")
}
