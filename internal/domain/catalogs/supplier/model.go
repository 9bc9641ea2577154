// Package supplier provides the supplier catalog.
package supplier

import (
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/entity"
	"kiosko/internal/core/id"
)

// Supplier is a vendor the shop buys from and owes money to.
type Supplier struct {
	entity.Base

	Name    string `db:"name" json:"name"`
	Contact string `db:"contact" json:"contact,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
	TaxID   string `db:"tax_id" json:"taxId,omitempty"`
	// PaymentTerms is free text agreed with the supplier, e.g. "30 days".
	PaymentTerms string `db:"payment_terms" json:"paymentTerms,omitempty"`
	BankAccounts string `db:"bank_accounts" json:"bankAccounts,omitempty"`
	Active       bool   `db:"active" json:"active"`
}

// Details holds the editable supplier fields.
type Details struct {
	Name         string
	Contact      string
	Phone        string
	Email        string
	Address      string
	TaxID        string
	PaymentTerms string
	BankAccounts string
}

// New builds an active supplier.
func New(supplierID id.ID, d Details, now time.Time) (Supplier, error) {
	s := Supplier{Base: entity.NewBase(supplierID, now), Active: true}
	return s.withDetails(d)
}

// Update returns the supplier with its details replaced.
func (s Supplier) Update(d Details, now time.Time) (Supplier, error) {
	s.Base = s.Base.Touched(now)
	return s.withDetails(d)
}

func (s Supplier) withDetails(d Details) (Supplier, error) {
	s.Name = strings.TrimSpace(d.Name)
	s.Contact = d.Contact
	s.Phone = d.Phone
	s.Email = d.Email
	s.Address = d.Address
	s.TaxID = d.TaxID
	s.PaymentTerms = d.PaymentTerms
	s.BankAccounts = d.BankAccounts
	if s.Name == "" {
		return Supplier{}, apperror.NewValidation("supplier name is required").WithDetail("field", "name")
	}
	return s, nil
}

// Deactivate returns the supplier closed for new purchases.
func (s Supplier) Deactivate(now time.Time) Supplier {
	s.Active = false
	s.Base = s.Base.Touched(now)
	return s
}
