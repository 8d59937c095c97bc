package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"ppms/internal/models"
)

// Keys of the persisted collections.
const (
	KeyUsers    = "ppms_users"
	KeyExpenses = "ppms_expenses"
	KeySession  = "ppms_session"
)

// Records reads and writes whole collections on top of a KV. There is no
// per-record primitive: callers read a collection, change it in memory
// and write it back. Concurrent read-modify-write cycles are last-writer-wins.
type Records struct {
	kv KV
}

// NewRecords wraps kv.
func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// Users returns the user collection, empty when it was never written.
func (r *Records) Users(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if _, err := r.read(ctx, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// WriteUsers overwrites the user collection.
func (r *Records) WriteUsers(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return r.write(ctx, KeyUsers, users)
}

// Expenses returns the expense collection in stored order (newest first).
func (r *Records) Expenses(ctx context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if _, err := r.read(ctx, KeyExpenses, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// WriteExpenses overwrites the expense collection.
func (r *Records) WriteExpenses(ctx context.Context, expenses []models.Expense) error {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return r.write(ctx, KeyExpenses, expenses)
}

// Session returns the stored session user, or nil when nobody is logged in.
func (r *Records) Session(ctx context.Context) (*models.User, error) {
	var u models.User
	ok, err := r.read(ctx, KeySession, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// WriteSession stores u as the active session.
func (r *Records) WriteSession(ctx context.Context, u models.User) error {
	return r.write(ctx, KeySession, u)
}

// DeleteSession removes the session record.
func (r *Records) DeleteSession(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("delete %s: %w", KeySession, err)
	}
	return nil
}

func (r *Records) read(ctx context.Context, key string, dst any) (bool, error) {
	data, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Records) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
