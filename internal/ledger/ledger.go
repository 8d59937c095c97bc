// Package ledger is the append-only expense book. Entries are written once
// and never edited or removed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ppms/internal/latency"
	"ppms/internal/models"
	"ppms/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidExpense is returned when a submission fails validation.
	ErrInvalidExpense = errors.New("invalid expense")
	// ErrUnknownEmployee is returned when the employee id is not a user.
	ErrUnknownEmployee = errors.New("unknown employee")
)

// Latency holds the simulated round trips of ledger calls.
type Latency struct {
	Read  time.Duration
	Write time.Duration
}

// Ledger stores expenses newest first in the record store.
type Ledger struct {
	records *storage.Records
	delay   Latency
	now     func() time.Time
	newID   func() string
	log     *zap.Logger
}

// New creates a Ledger over records.
func New(records *storage.Records, delay Latency, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		records: records,
		delay:   delay,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     log.Named("ledger"),
	}
}

// Append records a new expense at the head of the ledger.
func (l *Ledger) Append(ctx context.Context, employeeID, employeeName, reason string, amount float64) (*models.Expense, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidExpense)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidExpense)
	}

	if err := latency.Wait(ctx, l.delay.Write); err != nil {
		return nil, err
	}

	users, err := l.records.Users(ctx)
	if err != nil {
		return nil, err
	}
	if !hasUser(users, employeeID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmployee, employeeID)
	}

	expenses, err := l.records.Expenses(ctx)
	if err != nil {
		return nil, err
	}

	e := models.Expense{
		ID:           l.newID(),
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Reason:       reason,
		Amount:       amount,
		Date:         l.now().UTC(),
	}
	expenses = append([]models.Expense{e}, expenses...)
	if err := l.records.WriteExpenses(ctx, expenses); err != nil {
		return nil, err
	}

	l.log.Info("expense recorded",
		zap.String("expense_id", e.ID),
		zap.String("employee_id", employeeID),
		zap.Float64("amount", amount),
	)
	return &e, nil
}

// ListByEmployee returns the employee's expenses in ledger order.
func (l *Ledger) ListByEmployee(ctx context.Context, employeeID string) ([]models.Expense, error) {
	if err := latency.Wait(ctx, l.delay.Read); err != nil {
		return nil, err
	}
	all, err := l.records.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByEmployee(all, employeeID), nil
}

// ListAll returns every expense in ledger order.
func (l *Ledger) ListAll(ctx context.Context) ([]models.Expense, error) {
	if err := latency.Wait(ctx, l.delay.Read); err != nil {
		return nil, err
	}
	return l.records.Expenses(ctx)
}

// FilterByEmployee keeps the expenses of one employee, preserving order.
func FilterByEmployee(expenses []models.Expense, employeeID string) []models.Expense {
	out := []models.Expense{}
	for _, e := range expenses {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts of expenses.
func Total(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

func hasUser(users []models.User, id string) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
