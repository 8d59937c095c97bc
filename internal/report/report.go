package report

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"ppms/internal/ledger"
	"ppms/internal/models"
	"ppms/internal/storage"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when an employee id matches no user.
var ErrNotFound = errors.New("employee not found")

// Reports builds the admin views from the record store.
type Reports struct {
	records *storage.Records
	ledger  *ledger.Ledger
}

// New creates Reports reading users from records and expenses through l.
func New(records *storage.Records, l *ledger.Ledger) *Reports {
	return &Reports{records: records, ledger: l}
}

// DashboardViewModel is the data behind the admin dashboard.
type DashboardViewModel struct {
	TotalEmployees  int
	ActiveEmployees int
	TotalSpent      float64
	Employees       []models.EmployeeSummary
	TopSpender      *models.EmployeeSummary
}

// DetailViewModel is the data behind the employee drill-down.
type DetailViewModel struct {
	Employee models.User
	Expenses []models.Expense
	Total    float64
}

// Dashboard aggregates spending per employee, highest total first.
func (r *Reports) Dashboard(ctx context.Context) (*DashboardViewModel, error) {
	var (
		users    []models.User
		expenses []models.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = r.records.Users(gctx)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = r.ledger.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	vm := &DashboardViewModel{
		TotalSpent: ledger.Total(expenses),
		Employees:  []models.EmployeeSummary{},
	}
	for _, u := range users {
		if u.Role != models.RoleEmployee {
			continue
		}
		vm.TotalEmployees++
		if u.IsLoggedIn {
			vm.ActiveEmployees++
		}
		vm.Employees = append(vm.Employees, summarize(u, expenses))
	}

	// Stable so equal totals keep the user collection's order.
	slices.SortStableFunc(vm.Employees, func(a, b models.EmployeeSummary) int {
		return cmp.Compare(b.TotalSpent, a.TotalSpent)
	})
	if len(vm.Employees) > 0 {
		top := vm.Employees[0]
		vm.TopSpender = &top
	}
	return vm, nil
}

// EmployeeDetail returns one user's expenses. An unknown id yields ErrNotFound.
func (r *Reports) EmployeeDetail(ctx context.Context, id string) (*DetailViewModel, error) {
	users, err := r.records.Users(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return nil, ErrNotFound
	}

	expenses, err := r.ledger.ListByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DetailViewModel{
		Employee: users[idx],
		Expenses: expenses,
		Total:    ledger.Total(expenses),
	}, nil
}

func summarize(u models.User, expenses []models.Expense) models.EmployeeSummary {
	s := models.EmployeeSummary{
		EmployeeID:   u.ID,
		EmployeeName: u.Name,
		FirstName:    firstName(u.Name),
		Active:       u.IsLoggedIn,
	}
	for _, e := range expenses {
		if e.EmployeeID != u.ID {
			continue
		}
		s.TotalSpent += e.Amount
		s.Entries++
		if e.Date.After(s.LastActive) {
			s.LastActive = e.Date
		}
	}
	return s
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
