package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ppms/internal/models"
)

const day = 24 * time.Hour

// Seed is the data written into empty collections on first start.
type Seed struct {
	Users    []models.User
	Expenses []models.Expense
}

// DefaultSeed returns the demo accounts and a few expenses dated relative to now.
func DefaultSeed(now time.Time) Seed {
	now = now.UTC()
	return Seed{
		Users: []models.User{
			{ID: "u_1", Name: "Admin Owner", Email: "admin@ppms", Role: models.RoleAdmin},
			{ID: "u_2", Name: "Pintu Kumar Yadav", Email: "pintu@ppms", Role: models.RoleEmployee},
			{ID: "u_3", Name: "Sarah Johnson", Email: "sarah@ppms", Role: models.RoleEmployee},
		},
		Expenses: []models.Expense{
			{
				ID: "e_1", EmployeeID: "u_2", EmployeeName: "Pintu Kumar Yadav",
				Reason: "Travel to Client Site", Amount: 500, Date: now.Add(-2 * day),
			},
			{
				ID: "e_2", EmployeeID: "u_2", EmployeeName: "Pintu Kumar Yadav",
				Reason: "Office Supplies", Amount: 1200, Date: now.Add(-5 * day),
			},
			{
				ID: "e_3", EmployeeID: "u_3", EmployeeName: "Sarah Johnson",
				Reason: "Software License", Amount: 4500, Date: now.Add(-1 * day),
			},
		},
	}
}

// BootstrapResult reports which collections were seeded by a Bootstrap call.
type BootstrapResult struct {
	Users    bool
	Expenses bool
}

// Bootstrap writes each seed collection whose key is absent. Existing data
// is never overwritten, so calling it on every start is safe.
func (r *Records) Bootstrap(ctx context.Context, seed Seed) (BootstrapResult, error) {
	var res BootstrapResult
	var err error

	if res.Users, err = r.seed(ctx, KeyUsers, seed.Users); err != nil {
		return res, err
	}
	if res.Expenses, err = r.seed(ctx, KeyExpenses, seed.Expenses); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Records) seed(ctx context.Context, key string, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("encode seed %s: %w", key, err)
	}
	stored, err := r.kv.PutIfAbsent(ctx, key, data)
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", key, err)
	}
	return stored, nil
}
