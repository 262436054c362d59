// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sara115al/banking-transaction-system/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, customerID int64, balance string) (domain.Account, error)
	Get(ctx context.Context, customerID, accountID int64) (domain.Account, error)
	GetByID(ctx context.Context, accountID int64) (domain.Account, error)
	List(ctx context.Context, customerID int64) ([]domain.Account, error)
	SetBalance(ctx context.Context, customerID, accountID int64, balance string) (domain.Account, error)
	Delete(ctx context.Context, customerID, accountID int64) error
}

// TransferLister provides the transfer history reads needed to assemble account views.
type TransferLister interface {
	ListForAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	transfers TransferLister
}

// New returns account service struct to manage account business logic.
func New(ar Repo, tl TransferLister) *Service {
	return &Service{
		repo:      ar,
		transfers: tl,
	}
}

// Create creates an account for the given customer with the given
// initial deposit. An empty deposit defaults to zero; a negative one is
// rejected.
func (s *Service) Create(ctx context.Context, customerID int64, initialDeposit string) (domain.AccountWithHistory, error) {
	l := zerolog.Ctx(ctx)

	if initialDeposit == "" {
		initialDeposit = "0"
	}

	deposit, err := decimal.NewFromString(initialDeposit)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.AccountWithHistory{}, domain.ErrInvalidAmount
	}

	if deposit.IsNegative() {
		return domain.AccountWithHistory{}, domain.ErrInvalidAmount
	}

	account, err := s.repo.Create(ctx, customerID, deposit.String())
	if err != nil {
		return domain.AccountWithHistory{}, err
	}

	return domain.AccountWithHistory{
		Account:         account,
		TransferHistory: []domain.Transfer{},
	}, nil
}

// Get returns the account with its transfer history attached.
func (s *Service) Get(ctx context.Context, customerID, accountID int64) (domain.AccountWithHistory, error) {
	account, err := s.repo.Get(ctx, customerID, accountID)
	if err != nil {
		return domain.AccountWithHistory{}, err
	}

	history, err := s.transfers.ListForAccount(ctx, account.ID)
	if err != nil {
		return domain.AccountWithHistory{}, err
	}

	return domain.AccountWithHistory{
		Account:         account,
		TransferHistory: history,
	}, nil
}

// GetByID returns the bare account regardless of owner. It is the read
// path the transfer engine uses for its existence and funds checks.
func (s *Service) GetByID(ctx context.Context, accountID int64) (domain.Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// List returns the customer's accounts, each with its transfer history.
func (s *Service) List(ctx context.Context, customerID int64) ([]domain.AccountWithHistory, error) {
	accounts, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items := []domain.AccountWithHistory{}

	for _, account := range accounts {
		history, err := s.transfers.ListForAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		items = append(items, domain.AccountWithHistory{
			Account:         account,
			TransferHistory: history,
		})
	}

	return items, nil
}

// SetBalance writes the given balance to the account after confirming
// it exists.
//
// The value is written as supplied. Administrative corrections may set
// any balance; only the transfer path enforces non-negativity.
func (s *Service) SetBalance(ctx context.Context, customerID, accountID int64, balance string) (domain.AccountWithHistory, error) {
	l := zerolog.Ctx(ctx)

	newBalance, err := decimal.NewFromString(balance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.AccountWithHistory{}, domain.ErrInvalidAmount
	}

	if _, err := s.repo.Get(ctx, customerID, accountID); err != nil {
		return domain.AccountWithHistory{}, err
	}

	account, err := s.repo.SetBalance(ctx, customerID, accountID, newBalance.String())
	if err != nil {
		return domain.AccountWithHistory{}, err
	}

	history, err := s.transfers.ListForAccount(ctx, account.ID)
	if err != nil {
		return domain.AccountWithHistory{}, err
	}

	return domain.AccountWithHistory{
		Account:         account,
		TransferHistory: history,
	}, nil
}

// Delete removes the account after confirming it exists. Historical
// transfers referencing the account are kept.
func (s *Service) Delete(ctx context.Context, customerID, accountID int64) error {
	if _, err := s.repo.Get(ctx, customerID, accountID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, customerID, accountID)
}
