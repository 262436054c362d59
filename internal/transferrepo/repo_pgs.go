// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sara115al/banking-transaction-system/internal/accountrepo"
	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/pkg/dbpkg"
	"github.com/sara115al/banking-transaction-system/pkg/errorspkg"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transfers (from_account_id, to_account_id, amount)
VALUES
    ($1, $2, $3)
RETURNING id, from_account_id, to_account_id, amount, created_at
`

// Create creates the transfer record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.FromAccountID, arg.ToAccountID, arg.Amount)

	var t domain.Transfer

	err := row.Scan(
		&t.ID,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.Amount,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transfers_amount_check" {
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrStoreUnavailable
	}

	return t, nil
}

const listForAccountQuery = `
SELECT
	id, from_account_id, to_account_id, amount, created_at
FROM transfers
WHERE
    from_account_id = $1 OR to_account_id = $1
ORDER BY id
`

// ListForAccount returns every transfer in which the account is either
// the source or the destination. An account without history yields an
// empty slice, not an error.
func (r *RepoPGS) ListForAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listForAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.Transfer{}

	for rows.Next() {
		var t domain.Transfer
		if err := rows.Scan(
			&t.ID,
			&t.FromAccountID,
			&t.ToAccountID,
			&t.Amount,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrStoreUnavailable
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}

	return items, nil
}

// Transfer moves money between two accounts.
//
// It locks both account rows, debits the source, credits the
// destination, and appends the transfer record within a single database
// transaction. Either all three effects commit together or none do.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return result, domain.ErrInvalidAmount
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrStoreUnavailable
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	transferRepo := NewTxRepoPGS(tx)
	accountRepo := accountrepo.NewRepoPGS(tx)

	// Lock rows in ascending id order so that two concurrent transfers
	// targeting the same pair of accounts in opposite directions cannot
	// deadlock.
	fromAccount, toAccount, err := lockAccounts(ctx, accountRepo, arg.FromAccountID, arg.ToAccountID)
	if err != nil {
		return result, err
	}

	fromBalance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrStoreUnavailable
	}

	toBalance, err := decimal.NewFromString(toAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrStoreUnavailable
	}

	// The sufficient-funds check must run against the locked balance.
	// A check against a balance read outside the transaction can pass
	// for two concurrent debits at once.
	if fromBalance.LessThan(amount) {
		return result, domain.ErrInsufficientFunds
	}

	if arg.FromAccountID == arg.ToAccountID {
		// Debit and credit cancel out on a single row.
		result.FromAccount = fromAccount
		result.ToAccount = fromAccount
	} else {
		result.FromAccount, err = accountRepo.SetBalanceByID(ctx, arg.FromAccountID, fromBalance.Sub(amount).String())
		if err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrStoreUnavailable
		}

		result.ToAccount, err = accountRepo.SetBalanceByID(ctx, arg.ToAccountID, toBalance.Add(amount).String())
		if err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrStoreUnavailable
		}
	}

	result.Transfer, err = transferRepo.Create(ctx, arg)
	if err != nil {
		l.Error().Err(err).Send()
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrStoreUnavailable
	}

	return result, nil
}

func lockAccounts(ctx context.Context, r *accountrepo.RepoPGS, fromID, toID int64) (domain.Account, domain.Account, error) {
	lock := func(id int64, missing error) (domain.Account, error) {
		account, err := r.GetForUpdate(ctx, id)
		if err == domain.ErrAccountNotFound {
			return account, missing
		}

		return account, err
	}

	if fromID == toID {
		from, err := lock(fromID, domain.ErrSourceAccountNotFound)
		return from, from, err
	}

	if fromID < toID {
		from, err := lock(fromID, domain.ErrSourceAccountNotFound)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}

		to, err := lock(toID, domain.ErrDestinationAccountNotFound)

		return from, to, err
	}

	to, err := lock(toID, domain.ErrDestinationAccountNotFound)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	from, err := lock(fromID, domain.ErrSourceAccountNotFound)

	return from, to, err
}
