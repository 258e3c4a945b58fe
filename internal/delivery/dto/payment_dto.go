package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type LineItemRequest struct {
	Name   string          `json:"name" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// RecordPaymentRequest leaves Amount and Items empty to charge the computed bill
type RecordPaymentRequest struct {
	PatientID   string            `json:"patient_id" validate:"required"`
	PatientName string            `json:"patient_name"`
	Method      string            `json:"method" validate:"required,oneof=Tunai Debit QRIS"`
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Items       []LineItemRequest `json:"items" validate:"dive"`
}

// Response DTOs

type LineItemResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type BillResponse struct {
	PatientID      string             `json:"patient_id"`
	PatientName    string             `json:"patient_name"`
	PrescriptionID string             `json:"prescription_id,omitempty"`
	ExamFee        decimal.Decimal    `json:"exam_fee"`
	MedicineFee    decimal.Decimal    `json:"medicine_fee"`
	Total          decimal.Decimal    `json:"total"`
	Items          []LineItemResponse `json:"items"`
}

type TransactionResponse struct {
	ID          string             `json:"id"`
	PatientID   string             `json:"patient_id"`
	PatientName string             `json:"patient_name"`
	Amount      decimal.Decimal    `json:"amount"`
	Method      string             `json:"method"`
	Items       []LineItemResponse `json:"items"`
	Date        time.Time          `json:"date"`
}

type PaymentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	QueueStatus string              `json:"queue_status,omitempty"`
}

type TransactionReportResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Revenue      decimal.Decimal       `json:"revenue"`
	Average      decimal.Decimal       `json:"average"`
}
