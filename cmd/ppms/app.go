package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"ppms/internal/auth"
	"ppms/internal/config"
	"ppms/internal/ledger"
	"ppms/internal/logging"
	"ppms/internal/report"
	"ppms/internal/storage"

	"go.uber.org/zap"
)

// app is the set of services one command runs against. It is built once
// per invocation from a single store handle.
type app struct {
	store   storage.KV
	records *storage.Records
	gate    *auth.Gate
	ledger  *ledger.Ledger
	reports *report.Reports
	log     *zap.Logger
	seeded  storage.BootstrapResult
	now     func() time.Time
	loc     *time.Location
}

func openApp(ctx context.Context, cfg *config.Config, stderr io.Writer) (*app, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.LogFile != "" {
		log, err = logging.New(cfg.LogFile, cfg.LogLevel)
	} else {
		log, err = logging.NewWithWriter(stderr, cfg.LogLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	records := storage.NewRecords(db)
	seeded, err := records.Bootstrap(ctx, storage.DefaultSeed(time.Now()))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}
	if seeded.Users || seeded.Expenses {
		log.Info("store seeded", zap.Bool("users", seeded.Users), zap.Bool("expenses", seeded.Expenses))
	}

	creds, err := auth.NewCredentials(cfg.BcryptCost)
	if err != nil {
		db.Close()
		return nil, err
	}

	l := ledger.New(records, ledger.Latency{Read: cfg.ReadLatency, Write: cfg.WriteLatency}, log)
	return &app{
		store:   db,
		records: records,
		gate:    auth.NewGate(records, creds, cfg.LoginLatency, log),
		ledger:  l,
		reports: report.New(records, l),
		log:     log,
		seeded:  seeded,
		now:     time.Now,
		loc:     time.Local,
	}, nil
}

func (a *app) Close() error {
	_ = a.log.Sync()
	return a.store.Close()
}
