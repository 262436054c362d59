// Package customerservice manages business logic layer of customers.
package customerservice

import (
	"context"

	"github.com/sara115al/banking-transaction-system/internal/domain"
)

// Repo provides data access layer interface needed by customer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package customerservice
type Repo interface {
	Create(ctx context.Context, name string) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, id int64, name string) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// AccountService provides the account operations needed to assemble
// customer views and to cascade customer deletion.
type AccountService interface {
	List(ctx context.Context, customerID int64) ([]domain.AccountWithHistory, error)
	Delete(ctx context.Context, customerID, accountID int64) error
}

// Service facilitates customer service layer logic.
type Service struct {
	repo     Repo
	accounts AccountService
}

// New returns customer service struct to manage customer business logic.
func New(cr Repo, as AccountService) *Service {
	return &Service{
		repo:     cr,
		accounts: as,
	}
}

// Create creates and returns a customer with the given name.
func (s *Service) Create(ctx context.Context, name string) (domain.Customer, error) {
	customer, err := s.repo.Create(ctx, name)
	if err != nil {
		return domain.Customer{}, err
	}

	customer.Accounts = []domain.AccountWithHistory{}

	return customer, nil
}

// Get returns the customer with all accounts and their histories attached.
func (s *Service) Get(ctx context.Context, id int64) (domain.Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	customer.Accounts, err = s.accounts.List(ctx, customer.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

// List returns all customers with their accounts attached.
func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		customers[i].Accounts, err = s.accounts.List(ctx, customers[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return customers, nil
}

// Update renames the customer and returns the updated view.
func (s *Service) Update(ctx context.Context, id int64, name string) (domain.Customer, error) {
	customer, err := s.repo.Update(ctx, id, name)
	if err != nil {
		return domain.Customer{}, err
	}

	customer.Accounts, err = s.accounts.List(ctx, customer.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

// Delete removes the customer together with all of the customer's
// accounts. Transfer history survives the cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, account := range customer.Accounts {
		if err := s.accounts.Delete(ctx, id, account.ID); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}

// Exists reports whether the customer exists.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
