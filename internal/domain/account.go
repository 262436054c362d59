package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSourceAccountNotFound indicates that the transfer source account is not found.
	ErrSourceAccountNotFound = errors.New("source account not found")
	// ErrDestinationAccountNotFound indicates that the transfer destination account is not found.
	ErrDestinationAccountNotFound = errors.New("destination account not found")
)

// Account holds the balance of a single customer account.
//
// Balance is a decimal string and must never go below zero as a result
// of a transfer. Administrative balance updates are not checked.
type Account struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Balance    string    `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

// AccountWithHistory is an account view with its full transfer history attached.
type AccountWithHistory struct {
	Account
	TransferHistory []Transfer `json:"transfer_history"`
}
