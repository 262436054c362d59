// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/pkg/dbpkg"
	"github.com/sara115al/banking-transaction-system/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (customer_id, balance)
VALUES
    ($1, $2)
RETURNING id, customer_id, balance, created_at
`

// Create creates the account with the given initial balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, customerID int64, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, customerID, balance)

	var a domain.Account

	err := row.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "accounts_customer_id_fkey" {
			return a, domain.ErrCustomerNotFound
		}

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const getQuery = `
SELECT
	id, customer_id, balance, created_at
FROM accounts
WHERE customer_id = $1 AND id = $2
`

// Get returns the account with the given id owned by the given customer.
func (r *RepoPGS) Get(ctx context.Context, customerID, accountID int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, customerID, accountID)

	var a domain.Account

	err := row.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const getByIDQuery = `
SELECT
	id, customer_id, balance, created_at
FROM accounts
WHERE id = $1
`

// GetByID returns the account with the given id regardless of owner.
func (r *RepoPGS) GetByID(ctx context.Context, accountID int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByIDQuery, accountID)

	var a domain.Account

	err := row.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const getForUpdateQuery = `
SELECT
	id, customer_id, balance, created_at
FROM accounts
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the account with the given id while holding an
// exclusive row lock until the surrounding transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, accountID int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getForUpdateQuery, accountID)

	var a domain.Account

	err := row.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const listQuery = `
SELECT
	id, customer_id, balance, created_at
FROM accounts
WHERE customer_id = $1
ORDER BY id
`

// List returns all accounts owned by the given customer.
func (r *RepoPGS) List(ctx context.Context, customerID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, customerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrStoreUnavailable
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}

	return items, nil
}

const setBalanceQuery = `
UPDATE accounts
SET balance = $1
WHERE customer_id = $2 AND id = $3
RETURNING id, customer_id, balance, created_at
`

// SetBalance writes the given balance unconditionally and returns the
// changed account. Callers are trusted for the value; the transfer path
// is the only place that enforces non-negativity.
func (r *RepoPGS) SetBalance(ctx context.Context, customerID, accountID int64, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setBalanceQuery, balance, customerID, accountID)

	var a domain.Account

	err := row.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const setBalanceByIDQuery = `
UPDATE accounts
SET balance = $1
WHERE id = $2
RETURNING id, customer_id, balance, created_at
`

// SetBalanceByID writes the given balance to the account regardless of
// owner. Used by the transfer transaction after it has locked the row.
func (r *RepoPGS) SetBalanceByID(ctx context.Context, accountID int64, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setBalanceByIDQuery, balance, accountID)

	var a domain.Account

	err := row.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const deleteQuery = `
DELETE FROM accounts
WHERE customer_id = $1 AND id = $2
`

// Delete removes the account with the given id owned by the given customer.
func (r *RepoPGS) Delete(ctx context.Context, customerID, accountID int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, deleteQuery, customerID, accountID); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrStoreUnavailable
	}

	return nil
}
