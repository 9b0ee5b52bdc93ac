// Package customer holds the loyalty rewards model.
package customer

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no customer matches the given name.
var ErrNotFound = errors.New("customer not found")

// Customer is a rewards program member.
type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	PhoneNumber string
	Points      int64
}

// Name returns the display name used by order tickets.
func (c Customer) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// SplitName splits a "First Last" display name. Everything after the first
// space belongs to the last name.
func SplitName(name string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}

// Repository defines persistence for customers and their point balances.
// AdjustPoints applies a signed delta atomically and returns the new balance;
// the balance never drops below zero.
type Repository interface {
	FindByName(ctx context.Context, first, last string) (*Customer, error)
	AdjustPoints(ctx context.Context, first, last string, delta int64) (int64, error)
}
