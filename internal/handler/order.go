package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/afterclass/lesson-booking/internal/model"
	"github.com/afterclass/lesson-booking/internal/queue"
	"github.com/afterclass/lesson-booking/internal/repository"
)

// OrderEventPublisher announces committed orders to the message broker.
// Publishing is best-effort: a broker failure never fails the request.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

// OrderHandler implements order intake. An order passes through
// validation, server-side pricing, atomic capacity reservation and
// persistence; a failure at any point after the first reservation
// releases everything this request reserved before the error surfaces.
type OrderHandler struct {
	Lessons repository.LessonStore
	Orders  repository.OrderStore
	Events  OrderEventPublisher // optional; nil disables publishing
}

// NewOrderHandler constructs an OrderHandler. The stores must be non-nil;
// the publisher may be nil when no broker is configured.
func NewOrderHandler(lessons repository.LessonStore, orders repository.OrderStore, events OrderEventPublisher) *OrderHandler {
	if lessons == nil || orders == nil {
		panic("nil store passed to NewOrderHandler")
	}
	return &OrderHandler{Lessons: lessons, Orders: orders, Events: events}
}

// orderItemInput is one requested line. Price is accepted for
// compatibility with older clients but never trusted; the server
// re-prices every item from the catalog.
type orderItemInput struct {
	LessonID string   `json:"lessonId"`
	Quantity int64    `json:"quantity"`
	Price    *float64 `json:"price"`
}

type orderInput struct {
	Name       string           `json:"name"`
	Phone      string           `json:"phone"`
	Items      []orderItemInput `json:"items"`
	TotalPrice *float64         `json:"totalPrice"` // advisory only, ignored
}

// PlaceOrder handles POST /orders.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var in orderInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	// Validating: reject bad payloads before any store access.
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and phone are required"})
	}
	if len(in.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}
	lessonIDs := make([]uint64, len(in.Items))
	for i, it := range in.Items {
		id, err := parseID(it.LessonID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lesson id"})
		}
		if it.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
		}
		lessonIDs[i] = id
	}

	ctx := c.Request().Context()

	// Pricing: snapshot the current catalog price per item and recompute
	// the total. Whatever the client sent for price or totalPrice is
	// discarded here.
	items := make([]model.OrderItem, 0, len(in.Items))
	var totalCents uint64
	for i, it := range in.Items {
		lesson, err := h.Lessons.GetByID(ctx, lessonIDs[i])
		if err != nil {
			if errors.Is(err, repository.ErrLessonNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found", "lessonId": it.LessonID})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
		}
		items = append(items, model.OrderItem{
			LessonID:   lesson.ID,
			Subject:    lesson.Subject,
			Quantity:   it.Quantity,
			PriceCents: lesson.PriceCents,
		})
		totalCents += uint64(lesson.PriceCents) * uint64(it.Quantity)
	}

	// ReservingCapacity: one atomic conditional decrement per item. On
	// any failure, everything reserved so far by this request is released
	// before the error goes out.
	for i, it := range items {
		if err := h.Lessons.ReserveSpaces(ctx, lessonIDs[i], it.Quantity); err != nil {
			h.releaseReserved(lessonIDs[:i], items[:i])
			if errors.Is(err, repository.ErrInsufficientSpaces) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient spaces", "lessonId": it.LessonID})
			}
			if errors.Is(err, repository.ErrLessonNotFound) {
				// Lesson vanished between pricing and reservation.
				return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found", "lessonId": it.LessonID})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
		}
	}

	// Persisting.
	order := &model.Order{
		Name:            strings.TrimSpace(in.Name),
		Phone:           strings.TrimSpace(in.Phone),
		Items:           items,
		TotalPriceCents: totalCents,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.Orders.Create(ctx, order); err != nil {
		h.releaseReserved(lessonIDs, items)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	order.FillPrices()

	if h.Events != nil {
		ev := queue.NewOrderPlacedEvent(order)
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.Events.PublishOrderPlaced(pubCtx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{"insertedId": order.ID})
}

// releaseReserved compensates reservations already applied by this
// request. It runs on a fresh context so a client disconnect cannot
// strand a partial reservation behind a rejected order.
func (h *OrderHandler) releaseReserved(ids []uint64, items []model.OrderItem) {
	if len(items) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i, it := range items {
		if err := h.Lessons.ReleaseSpaces(ctx, ids[i], it.Quantity); err != nil {
			log.Printf("order rollback: release %d space(s) on lesson %s failed: %v", it.Quantity, it.LessonID, err)
		}
	}
}

// ListOrders handles GET /orders. It returns every placed order with its
// line items, newest first.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusOK, orders)
}
