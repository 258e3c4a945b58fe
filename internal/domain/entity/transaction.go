package entity

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a patient settled the bill
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "Tunai"
	PaymentMethodDebit PaymentMethod = "Debit"
	PaymentMethodQRIS  PaymentMethod = "QRIS"
)

// IsValidPaymentMethod checks m against the accepted payment methods
func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodDebit, PaymentMethodQRIS:
		return true
	}
	return false
}

// LineItem is one billed entry of a transaction
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// LineItems is stored as a jsonb column
type LineItems []LineItem

// Value returns json value, implement driver.Valuer interface
func (l LineItems) Value() (driver.Value, error) {
	return jsonValue(l)
}

// Scan scan value into LineItems, implements sql.Scanner interface
func (l *LineItems) Scan(value interface{}) error {
	return jsonScan(value, l)
}

// Transaction is a recorded payment
type Transaction struct {
	Identity
	PatientID   string          `gorm:"type:varchar(64);not null;index" json:"patientId"`
	PatientName string          `gorm:"type:varchar(255);not null" json:"patientName"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Items       LineItems       `gorm:"type:jsonb" json:"items"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}

func (Transaction) TableName() string {
	return string(CollectionTransactions)
}
