//go:build integration

package transferrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/internal/integrationtest"
	"github.com/sara115al/banking-transaction-system/internal/integrationtest/helpers"
	"github.com/sara115al/banking-transaction-system/internal/middleware"
	"github.com/sara115al/banking-transaction-system/internal/transferrepo"
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
	testCases := []struct {
		name         string
		wantTransfer func(tx *sql.Tx) domain.Transfer
		wantErr      error
	}{
		{
			name: "OK",
			wantTransfer: func(tx *sql.Tx) domain.Transfer {
				customer1 := helpers.SeedCustomer(t, tx)
				account1 := helpers.SeedAccountWith1000Balance(t, tx, customer1.ID)
				customer2 := helpers.SeedCustomer(t, tx)
				account2 := helpers.SeedAccountWith1000Balance(t, tx, customer2.ID)

				return domain.Transfer{
					FromAccountID: account1.ID,
					ToAccountID:   account2.ID,
					Amount:        randompkg.MoneyAmountBetween(100, 1_000),
					CreatedAt:     time.Now().UTC().Truncate(time.Second),
				}
			},
		},
		{
			name: "ErrInvalidAmount",
			wantTransfer: func(tx *sql.Tx) domain.Transfer {
				customer1 := helpers.SeedCustomer(t, tx)
				account1 := helpers.SeedAccountWith1000Balance(t, tx, customer1.ID)
				customer2 := helpers.SeedCustomer(t, tx)
				account2 := helpers.SeedAccountWith1000Balance(t, tx, customer2.ID)

				return domain.Transfer{
					FromAccountID: account1.ID,
					ToAccountID:   account2.ID,
					Amount:        "0",
				}
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			want := tc.wantTransfer(tx)
			transferRepo := transferrepo.NewTxRepoPGS(tx)

			arg := domain.CreateTransferParams{
				FromAccountID: want.FromAccountID,
				ToAccountID:   want.ToAccountID,
				Amount:        want.Amount,
			}

			got, err := transferRepo.Create(ctx, arg)
			if err != nil {
				if err == tc.wantErr {
					return
				}
				t.Fatalf(`transferRepo.Create(ctx, %+v) returned error: %v`, arg, err)
			}

			ignoreID := cmpopts.IgnoreFields(domain.Transfer{}, "ID")
			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(want, got, ignoreID, compareCreatedAt); diff != "" {
				t.Errorf(`transferRepo.Create(ctx, %+v) returned unexpected difference (-want +got):\n%s`,
					arg, diff)
			}

			if got.ID == 0 {
				t.Error("got.ID = 0, want non-zero")
			}
		})
	}
}

func SeedTransfer(t *testing.T, tx *sql.Tx, fromAccountID, toAccountID int64, amount string) domain.Transfer {
	t.Helper()

	transferRepo := transferrepo.NewTxRepoPGS(tx)

	arg := domain.CreateTransferParams{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
	}

	transfer, err := transferRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf(`transferRepo.Create(context.Background(), %+v) returned error: %v`, arg, err)
	}

	return transfer
}

func TestListForAccount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewTxRepoPGS(tx)

	customer1 := helpers.SeedCustomer(t, tx)
	account1 := helpers.SeedAccountWith1000Balance(t, tx, customer1.ID)
	customer2 := helpers.SeedCustomer(t, tx)
	account2 := helpers.SeedAccountWith1000Balance(t, tx, customer2.ID)
	account3 := helpers.SeedAccountWith1000Balance(t, tx, customer2.ID)

	// account1 appears as source, destination, and not at all.
	outgoing := SeedTransfer(t, tx, account1.ID, account2.ID, "10")
	incoming := SeedTransfer(t, tx, account2.ID, account1.ID, "20")
	SeedTransfer(t, tx, account2.ID, account3.ID, "30")

	want := []domain.Transfer{outgoing, incoming}

	got, err := transferRepo.ListForAccount(ctx, account1.ID)
	if err != nil {
		t.Fatalf(`transferRepo.ListForAccount(ctx, %v) returned error: %v`, account1.ID, err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf(`transferRepo.ListForAccount(ctx, %v) returned unexpected difference (-want +got):\n%s`,
			account1.ID, diff)
	}

	// Reading history must not change it.
	again, err := transferRepo.ListForAccount(ctx, account1.ID)
	if err != nil {
		t.Fatalf(`transferRepo.ListForAccount(ctx, %v) returned error: %v`, account1.ID, err)
	}

	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf(`repeated ListForAccount returned unexpected difference (-want +got):\n%s`, diff)
	}
}

func TestListForAccountEmpty(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewTxRepoPGS(tx)

	customer := helpers.SeedCustomer(t, tx)
	account := helpers.SeedAccountWith1000Balance(t, tx, customer.ID)

	got, err := transferRepo.ListForAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf(`transferRepo.ListForAccount(ctx, %v) returned error: %v`, account.ID, err)
	}

	if got == nil {
		t.Fatal("got = nil, want empty slice")
	}

	if len(got) != 0 {
		t.Errorf("len(got) = %v, want 0", len(got))
	}
}

func balanceOf(t *testing.T, db *sql.DB, accountID int64) string {
	t.Helper()

	var balance string

	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("reading balance of account %v failed: %v", accountID, err)
	}

	return balance
}

func transferCount(t *testing.T, db *sql.DB, accountID int64) int {
	t.Helper()

	var count int

	err := db.QueryRow(
		`SELECT count(*) FROM transfers WHERE from_account_id = $1 OR to_account_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting transfers of account %v failed: %v", accountID, err)
	}

	return count
}

func TestTransfer(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	customer1 := helpers.SeedCustomer(t, db)
	customer2 := helpers.SeedCustomer(t, db)

	t.Run("MovesMoneyAndAppendsRecord", func(t *testing.T) {
		from := helpers.SeedAccount(t, db, customer1.ID, "100")
		to := helpers.SeedAccount(t, db, customer2.ID, "0")

		arg := domain.CreateTransferParams{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        "40",
		}

		result, err := transferRepo.Transfer(ctx, arg)
		if err != nil {
			t.Fatalf(`transferRepo.Transfer(ctx, %+v) returned error: %v`, arg, err)
		}

		if result.FromAccount.Balance != "60" {
			t.Errorf("result.FromAccount.Balance = %q, want %q", result.FromAccount.Balance, "60")
		}

		if result.ToAccount.Balance != "40" {
			t.Errorf("result.ToAccount.Balance = %q, want %q", result.ToAccount.Balance, "40")
		}

		if result.Transfer.ID == 0 {
			t.Error("result.Transfer.ID = 0, want non-zero")
		}

		if got := balanceOf(t, db, from.ID); got != "60" {
			t.Errorf("source balance = %q, want %q", got, "60")
		}

		if got := balanceOf(t, db, to.ID); got != "40" {
			t.Errorf("destination balance = %q, want %q", got, "40")
		}
	})

	t.Run("InsufficientFundsLeavesNoTrace", func(t *testing.T) {
		from := helpers.SeedAccount(t, db, customer1.ID, "30")
		to := helpers.SeedAccount(t, db, customer2.ID, "0")

		arg := domain.CreateTransferParams{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        "40",
		}

		if _, err := transferRepo.Transfer(ctx, arg); err != domain.ErrInsufficientFunds {
			t.Fatalf(`transferRepo.Transfer(ctx, %+v) returned error %v, want ErrInsufficientFunds`,
				arg, err)
		}

		if got := balanceOf(t, db, from.ID); got != "30" {
			t.Errorf("source balance = %q, want %q", got, "30")
		}

		if got := balanceOf(t, db, to.ID); got != "0" {
			t.Errorf("destination balance = %q, want %q", got, "0")
		}

		if got := transferCount(t, db, from.ID); got != 0 {
			t.Errorf("transfer count = %v, want 0", got)
		}
	})

	t.Run("SourceAccountNotFound", func(t *testing.T) {
		to := helpers.SeedAccount(t, db, customer2.ID, "0")

		arg := domain.CreateTransferParams{
			FromAccountID: 0,
			ToAccountID:   to.ID,
			Amount:        "40",
		}

		if _, err := transferRepo.Transfer(ctx, arg); err != domain.ErrSourceAccountNotFound {
			t.Fatalf(`transferRepo.Transfer(ctx, %+v) returned error %v, want ErrSourceAccountNotFound`,
				arg, err)
		}

		if got := balanceOf(t, db, to.ID); got != "0" {
			t.Errorf("destination balance = %q, want %q", got, "0")
		}
	})

	t.Run("DestinationAccountNotFound", func(t *testing.T) {
		from := helpers.SeedAccount(t, db, customer1.ID, "100")

		arg := domain.CreateTransferParams{
			FromAccountID: from.ID,
			ToAccountID:   0,
			Amount:        "40",
		}

		if _, err := transferRepo.Transfer(ctx, arg); err != domain.ErrDestinationAccountNotFound {
			t.Fatalf(`transferRepo.Transfer(ctx, %+v) returned error %v, want ErrDestinationAccountNotFound`,
				arg, err)
		}

		if got := balanceOf(t, db, from.ID); got != "100" {
			t.Errorf("source balance = %q, want %q", got, "100")
		}

		if got := transferCount(t, db, from.ID); got != 0 {
			t.Errorf("transfer count = %v, want 0", got)
		}
	})

	t.Run("SameAccountKeepsBalance", func(t *testing.T) {
		account := helpers.SeedAccount(t, db, customer1.ID, "100")

		arg := domain.CreateTransferParams{
			FromAccountID: account.ID,
			ToAccountID:   account.ID,
			Amount:        "40",
		}

		result, err := transferRepo.Transfer(ctx, arg)
		if err != nil {
			t.Fatalf(`transferRepo.Transfer(ctx, %+v) returned error: %v`, arg, err)
		}

		if result.Transfer.ID == 0 {
			t.Error("result.Transfer.ID = 0, want non-zero")
		}

		if got := balanceOf(t, db, account.ID); got != "100" {
			t.Errorf("balance = %q, want %q", got, "100")
		}

		if got := transferCount(t, db, account.ID); got != 1 {
			t.Errorf("transfer count = %v, want 1", got)
		}
	})
}

func TestTransferConcurrentDebits(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	customer1 := helpers.SeedCustomer(t, db)
	customer2 := helpers.SeedCustomer(t, db)
	from := helpers.SeedAccount(t, db, customer1.ID, "100")
	to := helpers.SeedAccount(t, db, customer2.ID, "0")

	arg := domain.CreateTransferParams{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        "60",
	}

	// Both debits pass the funds check against the initial balance of
	// 100. The row lock forces the second one to re-read 40 and fail.
	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		go func() {
			_, err := transferRepo.Transfer(ctx, arg)
			errs <- err
		}()
	}

	var succeeded, insufficient int

	for i := 0; i < 2; i++ {
		switch err := <-errs; err {
		case nil:
			succeeded++
		case domain.ErrInsufficientFunds:
			insufficient++
		default:
			t.Fatalf("concurrent Transfer returned unexpected error: %v", err)
		}
	}

	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("got %v successes and %v insufficient-funds failures, want 1 and 1",
			succeeded, insufficient)
	}

	if got := balanceOf(t, db, from.ID); got != "40" {
		t.Errorf("source balance = %q, want %q", got, "40")
	}

	if got := balanceOf(t, db, to.ID); got != "60" {
		t.Errorf("destination balance = %q, want %q", got, "60")
	}

	if got := transferCount(t, db, from.ID); got != 1 {
		t.Errorf("transfer count = %v, want 1", got)
	}
}

func TestTransferConcurrentOppositeDirections(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	customer1 := helpers.SeedCustomer(t, db)
	customer2 := helpers.SeedCustomer(t, db)
	account1 := helpers.SeedAccountWith1000Balance(t, db, customer1.ID)
	account2 := helpers.SeedAccountWith1000Balance(t, db, customer2.ID)

	// Opposite-direction transfers lock rows in the same ascending id
	// order, so none of these can deadlock.
	const n = 10

	errs := make(chan error, 2*n)

	for i := 0; i < n; i++ {
		go func() {
			_, err := transferRepo.Transfer(ctx, domain.CreateTransferParams{
				FromAccountID: account1.ID,
				ToAccountID:   account2.ID,
				Amount:        "10",
			})
			errs <- err
		}()

		go func() {
			_, err := transferRepo.Transfer(ctx, domain.CreateTransferParams{
				FromAccountID: account2.ID,
				ToAccountID:   account1.ID,
				Amount:        "10",
			})
			errs <- err
		}()
	}

	for i := 0; i < 2*n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent Transfer returned error: %v", err)
		}
	}

	if got := balanceOf(t, db, account1.ID); got != "1000" {
		t.Errorf("account1 balance = %q, want %q", got, "1000")
	}

	if got := balanceOf(t, db, account2.ID); got != "1000" {
		t.Errorf("account2 balance = %q, want %q", got, "1000")
	}

	if got := transferCount(t, db, account1.ID); got != 2*n {
		t.Errorf("transfer count = %v, want %v", got, 2*n)
	}
}
