// Package main provides a CLI tool that creates the schema, the first accounts
// and a small demo catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"kiosko/internal/app"
	"kiosko/internal/config"
	"kiosko/internal/core/apperror"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
	"kiosko/pkg/logger"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	demo := flag.Bool("demo", true, "create demo suppliers, products, a purchase and a sale")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	cfg.Database.Migrate = true

	ctx := context.Background()
	rt, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open database", "error", err)
	}
	defer rt.Close()
	svcs := rt.Services

	owner, err := seedUser(ctx, svcs, log, "owner", getEnv("SEED_OWNER_PASSWORD", "owner-change-me"), auth.RoleOwner)
	if err != nil {
		log.Fatalw("failed to seed owner", "error", err)
	}
	if _, err := seedUser(ctx, svcs, log, "employee", getEnv("SEED_EMPLOYEE_PASSWORD", "employee-change-me"), auth.RoleEmployee); err != nil {
		log.Fatalw("failed to seed employee", "error", err)
	}

	if *demo {
		// demo documents are attributed to the owner
		ctx = appctx.WithUser(ctx, &appctx.UserContext{
			UserID:   owner.ID.String(),
			Username: owner.Username,
			Role:     string(owner.Role),
		})
		if err := seedDemoData(ctx, svcs, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seed completed")
}

func seedUser(ctx context.Context, svcs *app.Services, log *logger.Logger, username, password string, role auth.Role) (auth.User, error) {
	user, err := svcs.Auth.CreateUser(ctx, auth.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	if err == nil {
		log.Infow("user created", "username", username, "role", role)
		return user, nil
	}
	if !apperror.IsDuplicate(err) {
		return auth.User{}, err
	}

	users, err := svcs.Auth.ListUsers(ctx)
	if err != nil {
		return auth.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			log.Infow("user already exists", "username", username)
			return u, nil
		}
	}
	return auth.User{}, fmt.Errorf("user %s reported as duplicate but not found", username)
}

type demoProduct struct {
	code, name, category string
	cost, price          string
	threshold            int64
	batches              bool
	quantity             int64
}

var demoProducts = []demoProduct{
	{"MILK-1L", "Whole milk 1L", "dairy", "0.80", "1.20", 6, true, 24},
	{"YOG-125", "Plain yogurt 125g", "dairy", "0.35", "0.60", 10, true, 40},
	{"BREAD-W", "White bread", "bakery", "1.10", "1.80", 4, false, 12},
	{"COFFEE-250", "Ground coffee 250g", "pantry", "3.20", "4.90", 3, false, 10},
	{"SOAP-BAR", "Soap bar", "household", "0.90", "1.50", 5, false, 20},
}

func seedDemoData(ctx context.Context, svcs *app.Services, log *logger.Logger) error {
	if _, err := svcs.Products.GetByCode(ctx, demoProducts[0].code); err == nil {
		log.Info("demo data already present")
		return nil
	} else if !apperror.IsNotFound(err) {
		return err
	}

	sup, err := svcs.Suppliers.Create(ctx, supplier.Details{
		Name:         "Valley Wholesale",
		Contact:      "Orders desk",
		Phone:        "+1 555 0100",
		Email:        "orders@valley.example",
		PaymentTerms: "30 days",
	})
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	lines := make([]purchase.LineInput, 0, len(demoProducts))
	products := make([]product.Product, 0, len(demoProducts))
	for _, d := range demoProducts {
		p, err := svcs.Products.Create(ctx, product.CreateParams{
			Code:             d.code,
			Name:             d.name,
			Category:         d.category,
			PurchasePrice:    types.MustMoney(d.cost),
			SalePrice:        types.MustMoney(d.price),
			ReorderThreshold: d.threshold,
			TrackBatches:     d.batches,
			SupplierID:       &sup.ID,
		})
		if err != nil {
			return fmt.Errorf("create product %s: %w", d.code, err)
		}
		products = append(products, p)
		lines = append(lines, purchase.LineInput{ProductID: p.ID, Quantity: d.quantity, UnitCost: p.PurchasePrice})
	}

	due := time.Now().AddDate(0, 0, 30)
	invoice := "VW-0001"
	pur, err := svcs.Purchases.RegisterPurchase(ctx, purchase.RegisterInput{
		SupplierID:    sup.ID,
		Lines:         lines,
		InvoiceNumber: &invoice,
		PaymentTerms:  purchase.TermsCredit,
		DueDate:       &due,
		Note:          "opening stock",
	})
	if err != nil {
		return fmt.Errorf("register purchase: %w", err)
	}
	log.Infow("demo purchase registered", "number", pur.Number, "total", pur.Total.StringFixed(types.MoneyScale))

	// one sale over a batch-tracked and a plain product
	milkLots, err := svcs.Lots.ListAvailableForProduct(ctx, products[0].ID)
	if err != nil || len(milkLots) == 0 {
		return fmt.Errorf("find milk lot: %w", err)
	}
	s, err := svcs.Sales.RegisterSale(ctx, sale.RegisterInput{
		PaymentMethod: "cash",
		Lines: []sale.LineInput{
			{ProductID: products[0].ID, LotID: &milkLots[0].ID, Quantity: 2},
			{ProductID: products[2].ID, Quantity: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("register sale: %w", err)
	}
	log.Infow("demo sale registered", "number", s.Number, "total", s.Total.StringFixed(types.MoneyScale))
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
