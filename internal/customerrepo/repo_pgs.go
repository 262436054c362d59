// Package customerrepo manages repository layer of customers.
package customerrepo

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/pkg/dbpkg"
	"github.com/sara115al/banking-transaction-system/pkg/errorspkg"
)

// RepoPGS facilitates customer repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns customer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    customers (name)
VALUES
    ($1)
RETURNING id, name
`

// Create creates the customer and then returns it.
func (r *RepoPGS) Create(ctx context.Context, name string) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, name)

	var c domain.Customer

	err := row.Scan(&c.ID, &c.Name)
	if err != nil {
		l.Error().Err(err).Send()
		return c, errorspkg.ErrStoreUnavailable
	}

	return c, nil
}

const getQuery = `
SELECT
	id, name
FROM customers
WHERE id = $1
`

// Get returns the customer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var c domain.Customer

	err := row.Scan(&c.ID, &c.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrStoreUnavailable
	}

	return c, nil
}

const listQuery = `
SELECT
	id, name
FROM customers
ORDER BY id
`

// List returns all customers.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.Customer{}

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrStoreUnavailable
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}

	return items, nil
}

const updateQuery = `
UPDATE customers
SET name = $1
WHERE id = $2
RETURNING id, name
`

// Update renames the customer with the given id and returns it.
func (r *RepoPGS) Update(ctx context.Context, id int64, name string) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery, name, id)

	var c domain.Customer

	err := row.Scan(&c.ID, &c.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrStoreUnavailable
	}

	return c, nil
}

const deleteQuery = `
DELETE FROM customers
WHERE id = $1
`

// Delete removes the customer with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, deleteQuery, id); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrStoreUnavailable
	}

	return nil
}

const existsQuery = `
SELECT EXISTS (
	SELECT 1 FROM customers WHERE id = $1
)
`

// Exists reports whether the customer with the given id exists.
func (r *RepoPGS) Exists(ctx context.Context, id int64) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	err := r.db.QueryRowContext(ctx, existsQuery, id).Scan(&exists)
	if err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrStoreUnavailable
	}

	return exists, nil
}
