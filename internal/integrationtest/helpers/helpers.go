// Package helpers provides seed data helpers for integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/sara115al/banking-transaction-system/internal/accountrepo"
	"github.com/sara115al/banking-transaction-system/internal/customerrepo"
	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/pkg/dbpkg"
	"github.com/sara115al/banking-transaction-system/pkg/randompkg"
)

// SeedCustomer creates a customer with a random name.
func SeedCustomer(t *testing.T, db dbpkg.SQLInterface) domain.Customer {
	t.Helper()

	customer, err := customerrepo.NewRepoPGS(db).Create(context.Background(), randompkg.Name())
	if err != nil {
		t.Fatalf("seeding customer failed: %v", err)
	}

	return customer
}

// SeedAccount creates an account with the given balance for the customer.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, customerID int64, balance string) domain.Account {
	t.Helper()

	account, err := accountrepo.NewRepoPGS(db).Create(context.Background(), customerID, balance)
	if err != nil {
		t.Fatalf("seeding account failed: %v", err)
	}

	return account
}

// SeedAccountWith1000Balance creates an account holding 1000 for the customer.
func SeedAccountWith1000Balance(t *testing.T, db dbpkg.SQLInterface, customerID int64) domain.Account {
	t.Helper()

	return SeedAccount(t, db, customerID, "1000")
}
