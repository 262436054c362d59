//go:build integration

package customerrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sara115al/banking-transaction-system/internal/customerrepo"
	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/internal/integrationtest"
	"github.com/sara115al/banking-transaction-system/internal/integrationtest/helpers"
	"github.com/sara115al/banking-transaction-system/internal/middleware"
	"github.com/sara115al/banking-transaction-system/pkg/configpkg"
	"github.com/sara115al/banking-transaction-system/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	customerRepo := customerrepo.NewRepoPGS(tx)

	name := randompkg.Name()

	got, err := customerRepo.Create(ctx, name)
	if err != nil {
		t.Fatalf(`customerRepo.Create(ctx, %q) returned error: %v`, name, err)
	}

	if got.Name != name {
		t.Errorf("got.Name = %q, want %q", got.Name, name)
	}

	if got.ID == 0 {
		t.Error("got.ID = 0, want non-zero")
	}
}

func TestGet(t *testing.T) {
	testCases := []struct {
		name         string
		wantCustomer func(tx *sql.Tx) domain.Customer
		wantErr      error
	}{
		{
			name: "OK",
			wantCustomer: func(tx *sql.Tx) domain.Customer {
				return helpers.SeedCustomer(t, tx)
			},
		},
		{
			name: "ErrCustomerNotFound",
			wantCustomer: func(tx *sql.Tx) domain.Customer {
				return domain.Customer{ID: 0}
			},
			wantErr: domain.ErrCustomerNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			want := tc.wantCustomer(tx)
			customerRepo := customerrepo.NewRepoPGS(tx)

			got, err := customerRepo.Get(ctx, want.ID)
			if err != nil {
				if err == tc.wantErr {
					return
				}
				t.Fatalf(`customerRepo.Get(ctx, %v) returned error: %v`, want.ID, err)
			}

			if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(domain.Customer{}, "Accounts")); diff != "" {
				t.Errorf(`customerRepo.Get(ctx, %v) returned unexpected difference (-want +got):\n%s`,
					want.ID, diff)
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	customerRepo := customerrepo.NewRepoPGS(tx)

	want := []domain.Customer{
		helpers.SeedCustomer(t, tx),
		helpers.SeedCustomer(t, tx),
		helpers.SeedCustomer(t, tx),
	}

	listed, err := customerRepo.List(ctx)
	if err != nil {
		t.Fatalf(`customerRepo.List(ctx) returned error: %v`, err)
	}

	// Other tests may have committed their own customers, so compare
	// only the ones seeded here.
	seeded := map[int64]bool{want[0].ID: true, want[1].ID: true, want[2].ID: true}
	got := []domain.Customer{}

	for _, c := range listed {
		if seeded[c.ID] {
			got = append(got, c)
		}
	}

	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(domain.Customer{}, "Accounts")); diff != "" {
		t.Errorf(`customerRepo.List(ctx) returned unexpected difference (-want +got):\n%s`, diff)
	}
}

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name       string
		customerID func(tx *sql.Tx) int64
		wantErr    error
	}{
		{
			name: "OK",
			customerID: func(tx *sql.Tx) int64 {
				return helpers.SeedCustomer(t, tx).ID
			},
		},
		{
			name: "ErrCustomerNotFound",
			customerID: func(tx *sql.Tx) int64 {
				return 0
			},
			wantErr: domain.ErrCustomerNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			id := tc.customerID(tx)
			customerRepo := customerrepo.NewRepoPGS(tx)

			newName := randompkg.Name()

			got, err := customerRepo.Update(ctx, id, newName)
			if err != nil {
				if err == tc.wantErr {
					return
				}
				t.Fatalf(`customerRepo.Update(ctx, %v, %q) returned error: %v`, id, newName, err)
			}

			if got.Name != newName {
				t.Errorf("got.Name = %q, want %q", got.Name, newName)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	customerRepo := customerrepo.NewRepoPGS(tx)

	customer := helpers.SeedCustomer(t, tx)

	if err := customerRepo.Delete(ctx, customer.ID); err != nil {
		t.Fatalf(`customerRepo.Delete(ctx, %v) returned error: %v`, customer.ID, err)
	}

	if _, err := customerRepo.Get(ctx, customer.ID); err != domain.ErrCustomerNotFound {
		t.Errorf(`customerRepo.Get(ctx, %v) returned error %v, want ErrCustomerNotFound`,
			customer.ID, err)
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	customerRepo := customerrepo.NewRepoPGS(tx)

	customer := helpers.SeedCustomer(t, tx)

	exists, err := customerRepo.Exists(ctx, customer.ID)
	if err != nil {
		t.Fatalf(`customerRepo.Exists(ctx, %v) returned error: %v`, customer.ID, err)
	}

	if !exists {
		t.Errorf("customerRepo.Exists(ctx, %v) = false, want true", customer.ID)
	}

	exists, err = customerRepo.Exists(ctx, 0)
	if err != nil {
		t.Fatalf(`customerRepo.Exists(ctx, 0) returned error: %v`, err)
	}

	if exists {
		t.Error("customerRepo.Exists(ctx, 0) = true, want false")
	}
}
