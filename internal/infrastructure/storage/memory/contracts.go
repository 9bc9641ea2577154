package memory

import (
	"kiosko/internal/core/tx"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/domain/registers/lot"
	"kiosko/internal/domain/reports"
	"kiosko/pkg/numerator"
)

var (
	_ tx.ReadOnlyManager  = (*Store)(nil)
	_ product.Repository  = (*ProductRepo)(nil)
	_ supplier.Repository = (*SupplierRepo)(nil)
	_ lot.Repository      = (*LotRepo)(nil)
	_ sale.Repository     = (*SaleRepo)(nil)
	_ purchase.Repository = (*PurchaseRepo)(nil)
	_ payment.Repository  = (*PaymentRepo)(nil)
	_ auth.UserRepository = (*UserRepo)(nil)
	_ audit.Repository    = (*AuditRepo)(nil)
	_ reports.Repository  = (*ReportRepo)(nil)
	_ numerator.Counter   = (*SequenceCounter)(nil)
)
