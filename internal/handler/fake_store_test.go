package handler_test

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/afterclass/lesson-booking/internal/model"
	"github.com/afterclass/lesson-booking/internal/repository"
)

// fakeStore is an in-memory implementation of both store contracts. All
// mutation happens under one mutex, which makes ReserveSpaces a true
// atomic conditional decrement — the same guarantee the MySQL repo gets
// from its conditional UPDATE. It also counts calls per method and can be
// told to fail a method, so tests can assert "no store access" and
// rollback behavior.
type fakeStore struct {
	mu      sync.Mutex
	lessons map[uint64]*model.Lesson
	orders  []model.Order
	nextID  uint64
	calls   map[string]int
	failOn  map[string]error
	failAt  map[string]callFailure
}

// callFailure fails the Nth call (1-based) to a method, letting tests
// break a specific step of a multi-item flow.
type callFailure struct {
	at  int
	err error
}

func newFakeStore(lessons ...model.Lesson) *fakeStore {
	st := &fakeStore{
		lessons: make(map[uint64]*model.Lesson),
		calls:   make(map[string]int),
		failOn:  make(map[string]error),
		failAt:  make(map[string]callFailure),
	}
	for i := range lessons {
		l := lessons[i]
		id, _ := strconv.ParseUint(l.ID, 10, 64)
		l.FillPrice()
		st.lessons[id] = &l
	}
	return st
}

func (st *fakeStore) enter(method string) error {
	st.calls[method]++
	if f, ok := st.failAt[method]; ok && st.calls[method] == f.at {
		return f.err
	}
	return st.failOn[method]
}

func (st *fakeStore) callCount(method string) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.calls[method]
}

func (st *fakeStore) spaces(id uint64) int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lessons[id].Spaces
}

func (st *fakeStore) ListAll(ctx context.Context) ([]model.Lesson, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("ListAll"); err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(st.lessons))
	for id := range st.lessons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Lesson, 0, len(ids))
	for _, id := range ids {
		l := *st.lessons[id]
		l.FillPrice()
		out = append(out, l)
	}
	return out, nil
}

func (st *fakeStore) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("GetByID"); err != nil {
		return nil, err
	}
	l, ok := st.lessons[id]
	if !ok {
		return nil, repository.ErrLessonNotFound
	}
	cp := *l
	cp.FillPrice()
	return &cp, nil
}

func (st *fakeStore) Search(ctx context.Context, term string) ([]model.Lesson, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("Search"); err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	ids := make([]uint64, 0, len(st.lessons))
	for id := range st.lessons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Lesson, 0)
	for _, id := range ids {
		l := st.lessons[id]
		for _, field := range []string{l.Subject, l.Location, l.Instructor, l.Description, l.Schedule} {
			if strings.Contains(strings.ToLower(field), needle) {
				cp := *l
				cp.FillPrice()
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

func (st *fakeStore) Update(ctx context.Context, id uint64, patch repository.LessonPatch) (repository.UpdateResult, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("Update"); err != nil {
		return repository.UpdateResult{}, err
	}
	l, ok := st.lessons[id]
	if !ok {
		return repository.UpdateResult{}, repository.ErrLessonNotFound
	}
	modified := false
	setStr := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			modified = true
		}
	}
	setStr(&l.Subject, patch.Subject)
	setStr(&l.Location, patch.Location)
	setStr(&l.Instructor, patch.Instructor)
	setStr(&l.Description, patch.Description)
	setStr(&l.Schedule, patch.Schedule)
	if patch.PriceCents != nil && l.PriceCents != *patch.PriceCents {
		l.PriceCents = *patch.PriceCents
		modified = true
	}
	if patch.Spaces != nil && l.Spaces != *patch.Spaces {
		l.Spaces = *patch.Spaces
		modified = true
	}
	return repository.UpdateResult{Matched: true, Modified: modified}, nil
}

func (st *fakeStore) ReserveSpaces(ctx context.Context, id uint64, qty int64) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("ReserveSpaces"); err != nil {
		return err
	}
	l, ok := st.lessons[id]
	if !ok {
		return repository.ErrLessonNotFound
	}
	if l.Spaces < qty {
		return repository.ErrInsufficientSpaces
	}
	l.Spaces -= qty
	return nil
}

func (st *fakeStore) ReleaseSpaces(ctx context.Context, id uint64, qty int64) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("ReleaseSpaces"); err != nil {
		return err
	}
	l, ok := st.lessons[id]
	if !ok {
		return repository.ErrLessonNotFound
	}
	l.Spaces += qty
	return nil
}

// fakeOrders adapts the same backing store to the OrderStore contract.
// It is a separate type only because both contracts name a ListAll method
// with different return types.
type fakeOrders struct {
	st *fakeStore
}

func (f fakeOrders) Create(ctx context.Context, o *model.Order) error {
	st := f.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("CreateOrder"); err != nil {
		return err
	}
	st.nextID++
	o.ID = strconv.FormatUint(st.nextID, 10)
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	st.orders = append(st.orders, cp)
	return nil
}

func (f fakeOrders) ListAll(ctx context.Context) ([]model.Order, error) {
	st := f.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.enter("ListAllOrders"); err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(st.orders))
	for i := len(st.orders) - 1; i >= 0; i-- {
		o := st.orders[i]
		o.Items = append([]model.OrderItem(nil), st.orders[i].Items...)
		o.FillPrices()
		out = append(out, o)
	}
	return out, nil
}
