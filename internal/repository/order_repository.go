package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/afterclass/lesson-booking/internal/model"
)

// OrderRepo implements OrderStore on MySQL. An order and its line items
// are written in one transaction so a half-inserted order can never be
// observed.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts the order row and all of its items. The caller supplies
// CreatedAt (server clock) and the snapshotted item prices; on success the
// generated identity is populated on the order.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO orders (name, phone, total_price_cents, created_at) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, o.Name, o.Phone, o.TotalPriceCents, o.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = strconv.FormatUint(uint64(id), 10)

	if len(o.Items) > 0 {
		query := `INSERT INTO order_items (order_id, lesson_id, subject, quantity, price_cents) VALUES `
		args := make([]any, 0, len(o.Items)*5)
		for i, it := range o.Items {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			lessonID, convErr := strconv.ParseUint(it.LessonID, 10, 64)
			if convErr != nil {
				return convErr
			}
			args = append(args, id, lessonID, it.Subject, it.Quantity, it.PriceCents)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListAll returns every order, newest first, with line items attached.
// Items are fetched for all orders in a single query and stitched back by
// order id.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	const q = `SELECT id, name, phone, total_price_cents, created_at
	           FROM orders
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var o model.Order
		var id uint64
		if err := rows.Scan(&id, &o.Name, &o.Phone, &o.TotalPriceCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ID = strconv.FormatUint(id, 10)
		o.Items = []model.OrderItem{}
		index[id] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]any, 0, len(orders))
	placeholders := make([]string, 0, len(orders))
	for id := range index {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}
	itemQ := `SELECT order_id, lesson_id, subject, quantity, price_cents
	          FROM order_items
	          WHERE order_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY order_id, id`
	irows, err := r.db.QueryContext(ctx, itemQ, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var orderID, lessonID uint64
		var it model.OrderItem
		if err := irows.Scan(&orderID, &lessonID, &it.Subject, &it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		it.LessonID = strconv.FormatUint(lessonID, 10)
		idx, ok := index[orderID]
		if !ok {
			continue
		}
		orders[idx].Items = append(orders[idx].Items, it)
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].FillPrices()
	}
	return orders, nil
}
