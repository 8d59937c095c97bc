package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"ppms/internal/auth"
	"ppms/internal/models"
	"ppms/internal/report"
)

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// requireRole resolves the session user for a command restricted to role.
func requireRole(ctx context.Context, a *app, role models.Role) (*models.User, error) {
	u, err := a.gate.Require(ctx, role)
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return nil, fmt.Errorf("%w: run \"ppms login\" first", err)
	case errors.Is(err, auth.ErrForbidden):
		if s, _ := a.gate.CurrentSession(ctx); s != nil {
			return nil, fmt.Errorf("%w; try \"ppms %s\"", err, auth.HomeFor(s.Role))
		}
		return nil, err
	}
	return u, err
}

func runSeed(_ context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("seed", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	line := func(name string, seeded bool) {
		if seeded {
			fmt.Fprintf(stdout, "Seeded %s\n", name)
		} else {
			fmt.Fprintf(stdout, "%s already present, left unchanged\n", strings.ToUpper(name[:1])+name[1:])
		}
	}
	line("users", a.seeded.Users)
	line("expenses", a.seeded.Expenses)
	return nil
}

func runLogin(ctx context.Context, a *app, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("login", stderr)
	email := fs.String("email", "", "Account email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(stdout, "Usage: ppms login -email <email> [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}

	resp, err := a.gate.Authenticate(ctx, strings.TrimSpace(*email), password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fmt.Errorf("login failed: %w", err)
		}
		return err
	}

	fmt.Fprintf(stdout, "Logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
	fmt.Fprintf(stdout, "Next: ppms %s\n", auth.HomeFor(resp.User.Role))
	return nil
}

func runLogout(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("logout", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := a.gate.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if err := a.gate.EndSession(ctx); err != nil {
		return err
	}
	if session == nil {
		fmt.Fprintln(stdout, "No active session")
		return nil
	}
	fmt.Fprintf(stdout, "Logged out %s\n", session.Name)
	return nil
}

func runWhoami(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("whoami", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := a.gate.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintln(stdout, "Not logged in")
		return nil
	}
	fmt.Fprintf(stdout, "%s <%s> %s\n", u.Name, u.Email, u.Role)
	return nil
}

func runSubmit(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("submit", stderr)
	reason := fs.String("reason", "", "Reason for spending")
	amountStr := fs.String("amount", "", "Amount in INR")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *reason == "" || *amountStr == "" {
		fmt.Fprintln(stdout, "Usage: ppms submit -reason <reason> -amount <amount>")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: reason, amount")
	}
	amount, err := strconv.ParseFloat(*amountStr, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", *amountStr)
	}

	u, err := requireRole(ctx, a, models.RoleEmployee)
	if err != nil {
		return err
	}

	e, err := a.ledger.Append(ctx, u.ID, u.Name, *reason, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Recorded %s for %q (id %s)\n", report.FormatINR(e.Amount), e.Reason, e.ID)
	fmt.Fprintln(stdout, "Entries cannot be edited once submitted.")
	return nil
}

func runHistory(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("history", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := requireRole(ctx, a, models.RoleEmployee)
	if err != nil {
		return err
	}
	expenses, err := a.ledger.ListByEmployee(ctx, u.ID)
	if err != nil {
		return err
	}

	vm := report.History(expenses, a.now().In(a.loc))
	fmt.Fprintf(stdout, "Total spent: %s across %d entries\n", report.FormatINR(vm.Total), vm.Count)
	if vm.Count == 0 {
		fmt.Fprintln(stdout, "No expenses recorded yet.")
		return nil
	}
	for _, g := range vm.Groups {
		fmt.Fprintf(stdout, "\n%s  %s\n", g.Title, report.FormatINR(g.Total))
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		for _, item := range g.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.Time, item.Reason, report.FormatINR(item.Amount))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runDashboard(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("dashboard", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := requireRole(ctx, a, models.RoleAdmin); err != nil {
		return err
	}
	vm, err := a.reports.Dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Total expenses:  %s\n", report.FormatINR(vm.TotalSpent))
	fmt.Fprintf(stdout, "Employees:       %d (%d active now)\n", vm.TotalEmployees, vm.ActiveEmployees)
	if vm.TopSpender != nil {
		fmt.Fprintf(stdout, "Top spender:     %s (%s)\n", vm.TopSpender.EmployeeName, report.FormatINR(vm.TopSpender.TotalSpent))
	} else {
		fmt.Fprintln(stdout, "Top spender:     N/A")
	}
	if len(vm.Employees) == 0 {
		return nil
	}

	fmt.Fprintln(stdout)
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE\tENTRIES\tSPENT\tSTATUS")
	for _, s := range vm.Employees {
		status := "offline"
		if s.Active {
			status = "active"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.EmployeeID, s.EmployeeName, s.Entries, report.FormatINR(s.TotalSpent), status)
	}
	return tw.Flush()
}

func runEmployee(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("employee", stderr)
	id := fs.String("id", "", "Employee id, e.g. u_2")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fmt.Fprintln(stdout, "Usage: ppms employee -id <employee_id>")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: id")
	}

	if _, err := requireRole(ctx, a, models.RoleAdmin); err != nil {
		return err
	}
	vm, err := a.reports.EmployeeDetail(ctx, *id)
	if errors.Is(err, report.ErrNotFound) {
		fmt.Fprintln(stdout, "Employee not found")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s <%s> %s\n", vm.Employee.Name, vm.Employee.Email, strings.ToLower(string(vm.Employee.Role)))
	fmt.Fprintf(stdout, "Total spent: %s across %d entries\n", report.FormatINR(vm.Total), len(vm.Expenses))
	if len(vm.Expenses) == 0 {
		fmt.Fprintln(stdout, "No expenses recorded.")
		return nil
	}

	fmt.Fprintln(stdout)
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tREASON\tAMOUNT")
	for _, e := range vm.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Date.In(a.loc).Format("02 Jan 2006"), e.Reason, report.FormatINR(e.Amount))
	}
	return tw.Flush()
}

func runExport(ctx context.Context, a *app, args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", stderr)
	id := fs.String("id", "", "Employee id, e.g. u_2")
	out := fs.String("out", "", "Output file, \"-\" for stdout (default <Name>_expenses.csv)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fmt.Fprintln(stdout, "Usage: ppms export -id <employee_id> [-out <file>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: id")
	}

	if _, err := requireRole(ctx, a, models.RoleAdmin); err != nil {
		return err
	}
	vm, err := a.reports.EmployeeDetail(ctx, *id)
	if errors.Is(err, report.ErrNotFound) {
		fmt.Fprintln(stdout, "Employee not found")
		return nil
	}
	if err != nil {
		return err
	}
	if len(vm.Expenses) == 0 {
		fmt.Fprintln(stdout, "No expenses to export")
		return nil
	}

	if *out == "-" {
		return report.WriteCSV(stdout, vm.Employee.Name, vm.Expenses, a.loc)
	}
	path := *out
	if path == "" {
		path = report.CSVFileName(vm.Employee.Name)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.WriteCSV(f, vm.Employee.Name, vm.Expenses, a.loc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d expenses to %s\n", len(vm.Expenses), path)
	return nil
}
