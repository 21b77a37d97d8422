// Package repository contains the data access layer. The store contracts
// below are the only persistence surface the handlers see; the production
// implementation runs on MySQL and tests substitute an in-memory fake.
// Sentinel errors let handlers map failures to HTTP codes with errors.Is.
package repository

import (
	"context"
	"errors"

	"github.com/afterclass/lesson-booking/internal/model"
)

// ErrLessonNotFound is returned when a lesson lookup yields no rows.
var ErrLessonNotFound = errors.New("lesson not found")

// ErrOrderNotFound is returned when an order lookup yields no rows.
var ErrOrderNotFound = errors.New("order not found")

// ErrInsufficientSpaces is returned when a conditional capacity decrement
// finds fewer remaining spaces than requested. Handlers translate this
// into an HTTP 409 response.
var ErrInsufficientSpaces = errors.New("insufficient spaces")

// UpdateResult reports the outcome of a lesson patch: whether the target
// row exists and whether the write changed anything.
type UpdateResult struct {
	Matched  bool `json:"matched"`
	Modified bool `json:"modified"`
}

// LessonPatch enumerates the mutable lesson attributes. Nil fields are
// left unchanged. The identity is not part of the patch: it is immutable
// and stripped at the HTTP boundary.
type LessonPatch struct {
	Subject     *string
	Location    *string
	Instructor  *string
	Description *string
	Schedule    *string
	PriceCents  *uint32
	Spaces      *int64
}

// Empty reports whether the patch would change no fields.
func (p LessonPatch) Empty() bool {
	return p.Subject == nil && p.Location == nil && p.Instructor == nil &&
		p.Description == nil && p.Schedule == nil && p.PriceCents == nil && p.Spaces == nil
}

// LessonStore is the store contract for the lessons collection.
//
// ReserveSpaces must be a single atomic conditional decrement: the
// implementation may only subtract qty when the stored value is at least
// qty at the moment of the write. A separate read followed by a write is
// not an acceptable implementation; that pattern loses the race between
// two concurrent orders for the last remaining spaces.
type LessonStore interface {
	// ListAll returns every lesson in store-native order.
	ListAll(ctx context.Context) ([]model.Lesson, error)
	// GetByID returns one lesson or ErrLessonNotFound.
	GetByID(ctx context.Context, id uint64) (*model.Lesson, error)
	// Search returns lessons where any searchable text field contains the
	// term as a case-insensitive literal substring. The term is never
	// blank; callers short-circuit blank queries before reaching the store.
	Search(ctx context.Context, term string) ([]model.Lesson, error)
	// Update applies a partial patch to one lesson.
	Update(ctx context.Context, id uint64, patch LessonPatch) (UpdateResult, error)
	// ReserveSpaces atomically decrements remaining capacity by qty,
	// failing with ErrInsufficientSpaces when not enough is left.
	ReserveSpaces(ctx context.Context, id uint64, qty int64) error
	// ReleaseSpaces is the compensating increment for a reservation that
	// must be undone.
	ReleaseSpaces(ctx context.Context, id uint64, qty int64) error
}

// OrderStore is the store contract for the orders collection. Orders are
// append-only; there is no update or delete.
type OrderStore interface {
	// Create persists the order with its line items and populates the
	// generated identity on the passed order.
	Create(ctx context.Context, o *model.Order) error
	// ListAll returns every order, newest first, with line items attached.
	ListAll(ctx context.Context) ([]model.Order, error)
}
