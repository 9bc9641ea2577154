// Package app wires repositories and services together. It is shared by the
// server, the seed command and the service tests.
package app

import (
	"context"
	"fmt"
	"time"

	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/numerator"
	"kiosko/internal/core/tx"
	"kiosko/internal/domain"
	"kiosko/internal/domain/alerts"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/domain/registers/debt"
	"kiosko/internal/domain/registers/lot"
	"kiosko/internal/domain/reports"
	"kiosko/internal/infrastructure/storage/memory"
	"kiosko/internal/infrastructure/storage/postgres"
	"kiosko/internal/infrastructure/storage/postgres/auth_repo"
	"kiosko/internal/infrastructure/storage/postgres/catalog_repo"
	"kiosko/internal/infrastructure/storage/postgres/document_repo"
	"kiosko/internal/infrastructure/storage/postgres/register_repo"
	"kiosko/internal/infrastructure/storage/postgres/report_repo"
	pkgnumerator "kiosko/pkg/numerator"
)

// Repositories is one storage backend.
type Repositories struct {
	Products  product.Repository
	Suppliers supplier.Repository
	Lots      lot.Repository
	Sales     sale.Repository
	Purchases purchase.Repository
	Payments  payment.Repository
	Users     auth.UserRepository
	Audit     audit.Repository
	Reports   reports.Repository
}

// Options tunes the services. Zero values select production defaults.
type Options struct {
	Clock            clock.Clock
	IDs              id.Generator
	NumeratorOptions *numerator.Options
	Cache            domain.ReadCache
	CacheTTL         time.Duration
	ShelfLifeDays    int
	ExpiringDays     int
	AuditThreshold   int
	JWT              auth.JWTConfig
	Auth             auth.ServiceConfig
}

// Services is the application core.
type Services struct {
	Products  *product.Service
	Suppliers *supplier.Service
	Lots      *lot.Service
	Sales     *sale.Service
	Purchases *purchase.Service
	Payments  *payment.Service
	Debts     *debt.Service
	Reports   *reports.Service
	Alerts    *alerts.Service
	Audit     *audit.Recorder
	Auth      *auth.Service
	JWT       *auth.JWTService
}

// NewServices builds every service over repos, txm and num.
func NewServices(repos Repositories, txm tx.Manager, num numerator.Generator, opts Options) (*Services, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.IDs == nil {
		opts.IDs = id.V7{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if opts.JWT.AccessTokenTTL <= 0 {
		opts.JWT = auth.DefaultJWTConfig(opts.JWT.Secret)
	}
	if opts.Auth.MaxLoginAttempts == 0 {
		cost := opts.Auth.BcryptCost
		opts.Auth = auth.DefaultServiceConfig()
		if cost != 0 {
			opts.Auth.BcryptCost = cost
		}
	}

	recorder, err := audit.NewRecorder(repos.Audit, opts.IDs, opts.Clock, opts.AuditThreshold)
	if err != nil {
		return nil, fmt.Errorf("create audit recorder: %w", err)
	}

	s := &Services{Audit: recorder}
	s.Suppliers = supplier.NewService(repos.Suppliers, txm, opts.IDs, opts.Clock)
	s.Products = product.NewService(repos.Products, repos.Suppliers, txm, opts.IDs, opts.Clock)
	s.Lots = lot.NewService(repos.Lots, repos.Products, txm, opts.Clock)
	s.Sales = sale.NewService(repos.Sales, repos.Products, repos.Lots, recorder, num, opts.NumeratorOptions, txm, opts.IDs, opts.Clock)
	s.Purchases = purchase.NewService(purchase.Deps{
		Repo:             repos.Purchases,
		Suppliers:        repos.Suppliers,
		Products:         repos.Products,
		Lots:             repos.Lots,
		Journal:          recorder,
		Numerator:        num,
		NumeratorOptions: opts.NumeratorOptions,
		TxManager:        txm,
		IDs:              opts.IDs,
		Clock:            opts.Clock,
		ShelfLifeDays:    opts.ShelfLifeDays,
	})
	s.Payments = payment.NewService(repos.Payments, repos.Suppliers, repos.Purchases, recorder, txm, opts.IDs, opts.Clock)
	s.Debts = debt.NewService(repos.Suppliers, repos.Purchases, opts.Clock)
	s.Reports = reports.NewService(repos.Reports, opts.Cache, opts.CacheTTL, opts.Clock)
	alertCfg := alerts.Config{
		ExpiringDays: opts.ExpiringDays,
		CacheTTL:     opts.CacheTTL,
	}
	if ro, ok := txm.(tx.ReadOnlyManager); ok {
		alertCfg.Reader = ro
	}
	s.Alerts = alerts.NewService(s.Lots, s.Products, s.Debts, opts.Cache, opts.Clock, alertCfg)
	s.JWT = auth.NewJWTService(opts.JWT, opts.Clock)
	s.Auth = auth.NewService(repos.Users, txm, s.JWT, opts.IDs, opts.Clock, opts.Auth)
	return s, nil
}

// MemoryRepositories exposes the in-memory store as a backend.
func MemoryRepositories(st *memory.Store) Repositories {
	return Repositories{
		Products:  st.Products(),
		Suppliers: st.Suppliers(),
		Lots:      st.Lots(),
		Sales:     st.Sales(),
		Purchases: st.Purchases(),
		Payments:  st.Payments(),
		Users:     st.Users(),
		Audit:     st.Audit(),
		Reports:   st.Reports(),
	}
}

// NewMemory builds the services over a fresh in-memory store.
func NewMemory(opts Options) (*Services, *memory.Store, error) {
	st := memory.New()
	svcs, err := NewServices(MemoryRepositories(st), st, pkgnumerator.NewWithCounter(st.Sequences()), opts)
	if err != nil {
		return nil, nil, err
	}
	return svcs, st, nil
}

// PostgresRepositories exposes the PostgreSQL repositories over txm.
func PostgresRepositories(txm *postgres.TxManager) Repositories {
	return Repositories{
		Products:  catalog_repo.NewProductRepo(txm),
		Suppliers: catalog_repo.NewSupplierRepo(txm),
		Lots:      register_repo.NewLotRepo(txm),
		Sales:     document_repo.NewSaleRepo(txm),
		Purchases: document_repo.NewPurchaseRepo(txm),
		Payments:  document_repo.NewPaymentRepo(txm),
		Users:     auth_repo.NewUserRepo(txm),
		Audit:     postgres.NewAuditRepo(txm),
		Reports:   report_repo.NewReportRepo(txm),
	}
}

// NewPostgres builds the services over pool. Numbers are reserved in the caller's transaction.
func NewPostgres(pool *postgres.Pool, opts Options) (*Services, *postgres.TxManager, error) {
	txm := postgres.NewTxManager(pool)
	num := pkgnumerator.NewWithQuerierFunc(func(ctx context.Context) pkgnumerator.Querier {
		return txm.GetQuerier(ctx)
	})
	svcs, err := NewServices(PostgresRepositories(txm), txm, num, opts)
	if err != nil {
		return nil, nil, err
	}
	return svcs, txm, nil
}
