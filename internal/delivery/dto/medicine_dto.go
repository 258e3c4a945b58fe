package dto

import "github.com/shopspring/decimal"

// Request DTOs

type CreateMedicineRequest struct {
	Name  string          `json:"name" validate:"required,min=2"`
	Unit  string          `json:"unit"`
	Price decimal.Decimal `json:"price" validate:"required"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// UpdateMedicineRequest only changes the fields that are present
type UpdateMedicineRequest struct {
	Name  *string          `json:"name" validate:"omitempty,min=2"`
	Unit  *string          `json:"unit"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock" validate:"omitempty,gte=0"`
}

// Response DTOs

type MedicineResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	LowStock bool            `json:"low_stock"`
}

type MedicineListResponse struct {
	Medicines []MedicineResponse `json:"medicines"`
	Total     int                `json:"total"`
}
