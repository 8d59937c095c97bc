package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"ppms/internal/config"

	"golang.org/x/term"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"seed":      {"Seed an empty store with the demo accounts", runSeed},
	"login":     {"Log in with email and password", runLogin},
	"logout":    {"End the active session", runLogout},
	"whoami":    {"Show the logged-in user", runWhoami},
	"submit":    {"Submit an expense (employees)", runSubmit},
	"history":   {"List your expenses (employees)", runHistory},
	"dashboard": {"Spending overview (admins)", runDashboard},
	"employee":  {"Expenses of one employee (admins)", runEmployee},
	"export":    {"Export one employee's expenses as CSV (admins)", runExport},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ppms", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("db", "", "Path to database file (default $PPMS_DB_PATH or ppms.db)")
	envFile := fs.String("env", ".env", "Path to dotenv file")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		usage(stdout, fs)
		return fmt.Errorf("missing command")
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		usage(stdout, fs)
		return fmt.Errorf("unknown command %q", name)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// The flag wins over the environment.
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	a, err := openApp(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	return cmd.run(ctx, a, fs.Args()[1:], stdin, stdout, stderr)
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: ppms [-db <db_path>] [-env <file>] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
