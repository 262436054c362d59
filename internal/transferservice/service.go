// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sara115al/banking-transaction-system/internal/domain"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
	ListForAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error)
}

// AccountReader provides the account read access needed to validate a transfer.
type AccountReader interface {
	GetByID(ctx context.Context, accountID int64) (domain.Account, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo     Repo
	accounts AccountReader
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, ar AccountReader) *Service {
	return &Service{
		repo:     tr,
		accounts: ar,
	}
}

// validRequest checks the transfer preconditions in order: positive
// amount, source account exists, destination account exists, source
// balance covers the amount. Each failure leaves the store untouched.
func (s *Service) validRequest(ctx context.Context, fromAccountID, toAccountID int64, amount string) error {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	fromAccount, err := s.accounts.GetByID(ctx, fromAccountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.ErrSourceAccountNotFound
		}

		l.Error().Err(err).Send()

		return err
	}

	if _, err := s.accounts.GetByID(ctx, toAccountID); err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.ErrDestinationAccountNotFound
		}

		l.Error().Err(err).Send()

		return err
	}

	currentFromBalance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	if currentFromBalance.LessThan(amountDecimal) {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// Transfer checks if the transfer request is valid and then executes it.
//
// The preconditions are rechecked inside the repository transaction, so
// a concurrent debit that drains the source account between validation
// and execution still fails without side effects.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	if err := s.validRequest(ctx, arg.FromAccountID, arg.ToAccountID, arg.Amount); err != nil {
		return domain.TransferTxResult{}, err
	}

	result, err := s.repo.Transfer(ctx, arg)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return result, nil
}

// ListForAccount returns the account's full transfer history, inbound
// and outbound. An account without transfers yields an empty slice.
func (s *Service) ListForAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error) {
	transfers, err := s.repo.ListForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return transfers, nil
}
