package main

import (
	"context"
	"fmt"

	"cmcs/internal/repository"
	"cmcs/internal/repository/memory"
	"cmcs/internal/seed"
	"cmcs/internal/service"
	"cmcs/pkg/config"
	"cmcs/pkg/postgres"

	"go.uber.org/zap"
)

type userStore interface {
	service.UserStore
	seed.UserWriter
}

type stores struct {
	users    userStore
	claims   service.ClaimStore
	invoices service.InvoiceStore
	reports  service.ReportStore
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		m := memory.New()
		return &stores{
			users:    m.Users,
			claims:   m.Claims,
			invoices: m.Invoices,
			reports:  m.Reports,
			close:    func() {},
		}, nil

	case "postgres":
		db, err := postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, db, logger); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &stores{
			users:    repository.NewUserRepository(db, logger),
			claims:   repository.NewClaimRepository(db, logger),
			invoices: repository.NewInvoiceRepository(db, logger),
			reports:  repository.NewReportRepository(db, logger),
			close:    db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
}
