package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

type whereClause struct {
	column   string
	operator string
	value    any
}

type exprClause struct {
	query string
	args  []any
}

type relationClause struct {
	name   string
	wheres []whereClause
}

type orderClause struct {
	column    string
	direction OrderDirection
}

// QueryBuilder provides a small fluent, type-safe API over bun for model T
type QueryBuilder[T any] struct {
	db        bun.IDB
	wheres    []whereClause
	exprs     []exprClause
	orders    []orderClause
	relations []relationClause
	limitVal  int
	offsetVal int
	timeout   time.Duration
}

// Query starts a query for T on db, which may be a *DB or a bun.Tx
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds a column = value condition
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a condition with a custom comparison operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{column: column, operator: operator, value: value})
	return q
}

// WhereExpr adds a raw condition with bun placeholders, e.g. EXISTS subqueries
func (q *QueryBuilder[T]) WhereExpr(query string, args ...any) *QueryBuilder[T] {
	q.exprs = append(q.exprs, exprClause{query: query, args: args})
	return q
}

func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, orderClause{column: column, direction: direction})
	return q
}

// Relation preloads a bun relation declared on T
func (q *QueryBuilder[T]) Relation(name string) *QueryBuilder[T] {
	q.relations = append(q.relations, relationClause{name: name})
	return q
}

// RelationWhere preloads a relation keeping only rows where column = value
func (q *QueryBuilder[T]) RelationWhere(name, column string, value any) *QueryBuilder[T] {
	q.relations = append(q.relations, relationClause{
		name:   name,
		wheres: []whereClause{{column: column, operator: "=", value: value}},
	})
	return q
}

func (q *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	q.limitVal = n
	return q
}

func (q *QueryBuilder[T]) Offset(n int) *QueryBuilder[T] {
	q.offsetVal = n
	return q
}

func (q *QueryBuilder[T]) Timeout(d time.Duration) *QueryBuilder[T] {
	q.timeout = d
	return q
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

func (q *QueryBuilder[T]) applyWheres(apply func(query string, args ...any)) {
	for _, w := range q.wheres {
		apply("? "+w.operator+" (?)", bun.Ident(w.column), w.value)
	}
	for _, e := range q.exprs {
		apply(e.query, e.args...)
	}
}

func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)
	q.applyWheres(func(cond string, args ...any) { query = query.Where(cond, args...) })
	for _, rel := range q.relations {
		if len(rel.wheres) == 0 {
			query = query.Relation(rel.name)
			continue
		}
		query = query.Relation(rel.name, func(sq *bun.SelectQuery) *bun.SelectQuery {
			for _, w := range rel.wheres {
				sq = sq.Where("? "+w.operator+" (?)", bun.Ident(w.column), w.value)
			}
			return sq
		})
	}
	for _, o := range q.orders {
		query = query.OrderExpr("? "+string(o.direction), bun.Ident(o.column))
	}
	if q.limitVal > 0 {
		query = query.Limit(q.limitVal)
	}
	if q.offsetVal > 0 {
		query = query.Offset(q.offsetVal)
	}
	return query
}

// All returns every matching record
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	err := WithRetry(ctx, func() error {
		data = nil
		return q.buildSelect(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// First returns the first matching record, or nil when nothing matches
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	data := new(T)
	err := WithRetry(ctx, func() error {
		return q.buildSelect(data).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Count returns the number of matching records
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var count int
	err := WithRetry(ctx, func() error {
		var err error
		count, err = q.buildSelect((*T)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w", err)
	}

	return count, nil
}

// Insert inserts data and returns it
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := q.db.NewInsert().Model(data).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w", err)
	}
	return data, nil
}

// InsertMany inserts all rows in a single statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) error {
	if len(data) == 0 {
		return nil
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := q.db.NewInsert().Model(&data).Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute bulk insert query: %w", err)
	}
	return nil
}

// Update sets the given columns on every matching record and returns the affected row count
func (q *QueryBuilder[T]) Update(ctx context.Context, values map[string]any) (int, error) {
	if len(q.wheres) == 0 {
		return 0, fmt.Errorf("refusing to update without conditions")
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.db.NewUpdate().Model((*T)(nil))
	for column, value := range values {
		query = query.Set("? = ?", bun.Ident(column), value)
	}
	q.applyWheres(func(cond string, args ...any) { query = query.Where(cond, args...) })

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// Delete removes every matching record and returns the affected row count
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	if len(q.wheres) == 0 {
		return 0, fmt.Errorf("refusing to delete without conditions")
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.db.NewDelete().Model((*T)(nil))
	q.applyWheres(func(cond string, args ...any) { query = query.Where(cond, args...) })

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}
