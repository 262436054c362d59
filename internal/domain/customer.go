// Package domain provides definitions of all entities.
package domain

import "errors"

// ErrCustomerNotFound indicates that the customer is not found.
var ErrCustomerNotFound = errors.New("customer not found")

// Customer holds customer identity data together with the customer's accounts.
type Customer struct {
	ID       int64                `json:"id"`
	Name     string               `json:"name"`
	Accounts []AccountWithHistory `json:"accounts"`
}

// CreateCustomerParams is the input data to create a customer.
type CreateCustomerParams struct {
	Name string `json:"name"`
}
