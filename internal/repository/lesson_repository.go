package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/afterclass/lesson-booking/internal/model"
)

// searchFields are the free-text columns matched by Search, in the order
// they appear in the schema.
var searchFields = []string{"subject", "location", "instructor", "description", "schedule"}

// LessonRepo implements LessonStore on MySQL. Capacity arithmetic is done
// inside conditional UPDATE statements so that the database linearizes
// concurrent decrements per row; the repo never reads spaces before
// writing them.
type LessonRepo struct {
	db *sql.DB
}

// NewLessonRepo constructs a LessonRepo with the given DB handle.
func NewLessonRepo(db *sql.DB) *LessonRepo {
	return &LessonRepo{db: db}
}

const lessonColumns = `id, subject, location, instructor, description, schedule, price_cents, spaces`

func scanLesson(scan func(dest ...any) error) (model.Lesson, error) {
	var l model.Lesson
	var id uint64
	if err := scan(&id, &l.Subject, &l.Location, &l.Instructor, &l.Description,
		&l.Schedule, &l.PriceCents, &l.Spaces); err != nil {
		return model.Lesson{}, err
	}
	l.ID = strconv.FormatUint(id, 10)
	l.FillPrice()
	return l, nil
}

// ListAll returns every lesson in primary key order.
func (r *LessonRepo) ListAll(ctx context.Context) ([]model.Lesson, error) {
	const q = `SELECT ` + lessonColumns + ` FROM lessons ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a lesson by its id.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	const q = `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ?`
	l, err := scanLesson(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

// escapeLike makes a raw user term safe for use inside a LIKE pattern by
// escaping the backslash and the two LIKE wildcards. Without this, a term
// such as "100%" would match every lesson.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// Search matches the term as a case-insensitive literal substring against
// every searchable text field. A lesson is returned when any field
// matches. Results come back in primary key order; there is no ranking.
func (r *LessonRepo) Search(ctx context.Context, term string) ([]model.Lesson, error) {
	pattern := "%" + strings.ToLower(escapeLike(term)) + "%"
	conds := make([]string, 0, len(searchFields))
	args := make([]any, 0, len(searchFields))
	for _, f := range searchFields {
		conds = append(conds, "LOWER("+f+") LIKE ?")
		args = append(args, pattern)
	}
	q := `SELECT ` + lessonColumns + ` FROM lessons WHERE ` +
		strings.Join(conds, " OR ") + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial patch to a single lesson. Only non-nil patch
// fields are written. RowsAffected distinguishes a real change from a
// patch that set every field to its current value; an existence probe then
// separates "nothing changed" from "no such lesson".
func (r *LessonRepo) Update(ctx context.Context, id uint64, patch LessonPatch) (UpdateResult, error) {
	if patch.Empty() {
		// Nothing to write; still report whether the lesson exists.
		if err := r.exists(ctx, id); err != nil {
			return UpdateResult{}, err
		}
		return UpdateResult{Matched: true, Modified: false}, nil
	}

	set := []string{}
	args := []any{}
	appendField := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if patch.Subject != nil {
		appendField("subject", *patch.Subject)
	}
	if patch.Location != nil {
		appendField("location", *patch.Location)
	}
	if patch.Instructor != nil {
		appendField("instructor", *patch.Instructor)
	}
	if patch.Description != nil {
		appendField("description", *patch.Description)
	}
	if patch.Schedule != nil {
		appendField("schedule", *patch.Schedule)
	}
	if patch.PriceCents != nil {
		appendField("price_cents", *patch.PriceCents)
	}
	if patch.Spaces != nil {
		appendField("spaces", *patch.Spaces)
	}
	args = append(args, id)

	q := `UPDATE lessons SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return UpdateResult{}, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return UpdateResult{Matched: true, Modified: true}, nil
	}
	if err := r.exists(ctx, id); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: true, Modified: false}, nil
}

// ReserveSpaces decrements remaining capacity by qty in one conditional
// statement. The WHERE guard is what makes concurrent orders safe: the
// database applies the decrements one at a time per row, and any order
// that would drive spaces negative simply matches no row.
func (r *LessonRepo) ReserveSpaces(ctx context.Context, id uint64, qty int64) error {
	const q = `UPDATE lessons SET spaces = spaces - ? WHERE id = ? AND spaces >= ?`
	res, err := r.db.ExecContext(ctx, q, qty, id, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// No row matched: either the lesson is gone or capacity ran out.
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	return ErrInsufficientSpaces
}

// ReleaseSpaces returns previously reserved capacity. It is only called
// to compensate reservations taken by the same request, so it cannot push
// spaces above any externally observed value out of thin air.
func (r *LessonRepo) ReleaseSpaces(ctx context.Context, id uint64, qty int64) error {
	const q = `UPDATE lessons SET spaces = spaces + ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepo) exists(ctx context.Context, id uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM lessons WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrLessonNotFound
	}
	return err
}
