package entity

import "github.com/shopspring/decimal"

// Medicine is a stocked item in the pharmacy inventory
type Medicine struct {
	Identity
	Name  string          `gorm:"type:varchar(255);not null" json:"name"`
	Unit  string          `gorm:"type:varchar(50)" json:"unit"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock int             `gorm:"not null;default:0" json:"stock"`
}

func (Medicine) TableName() string {
	return string(CollectionMedicines)
}

// IsLowStock reports whether the stock is below the given threshold
func (m *Medicine) IsLowStock(threshold int) bool {
	return m.Stock < threshold
}

// HasStock reports whether qty units can be taken without going negative
func (m *Medicine) HasStock(qty int) bool {
	return qty <= m.Stock
}
