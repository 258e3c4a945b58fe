package service

import (
	"time"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Bill line names as printed on the invoice
const (
	BillItemExamination = "Jasa Pemeriksaan"
	BillItemMedicines   = "Obat-obatan"
)

// Bill is the amount due for one visit
type Bill struct {
	PatientID   string
	PatientName string
	ExamFee     decimal.Decimal
	MedicineFee decimal.Decimal
	Total       decimal.Decimal
	Items       entity.LineItems
}

// DailyRevenue is the takings of one calendar day
type DailyRevenue struct {
	Date    string
	Revenue decimal.Decimal
	Profit  decimal.Decimal
}

// BillingService prices visits: a flat examination fee plus a fee per
// prescribed medicine line
type BillingService struct {
	cfg config.BillingConfig
}

func NewBillingService(cfg config.BillingConfig) *BillingService {
	return &BillingService{cfg: cfg}
}

// Compute builds the bill of a patient. prescription may be nil.
func (s *BillingService) Compute(patientID, patientName string, prescription *entity.Prescription) Bill {
	medicineFee := decimal.Zero
	if prescription != nil {
		medicineFee = s.cfg.MedicineLineFee.Mul(decimal.NewFromInt(int64(len(prescription.Medicines))))
	}

	return Bill{
		PatientID:   patientID,
		PatientName: patientName,
		ExamFee:     s.cfg.ExamFee,
		MedicineFee: medicineFee,
		Total:       s.cfg.ExamFee.Add(medicineFee),
		Items: entity.LineItems{
			{Name: BillItemExamination, Amount: s.cfg.ExamFee},
			{Name: BillItemMedicines, Amount: medicineFee},
		},
	}
}

// Profit is the configured margin of revenue
func (s *BillingService) Profit(revenue decimal.Decimal) decimal.Decimal {
	return revenue.Mul(s.cfg.ProfitMargin)
}

// Revenue sums the amounts of the given transactions
func (s *BillingService) Revenue(transactions []entity.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// RevenueByDay returns one entry per day for the days days ending at until,
// oldest first. Days without transactions are included with zero revenue.
func (s *BillingService) RevenueByDay(transactions []entity.Transaction, until time.Time, days int) []DailyRevenue {
	byDay := make(map[string]decimal.Decimal, days)
	for _, t := range transactions {
		key := t.Date.In(until.Location()).Format(time.DateOnly)
		byDay[key] = byDay[key].Add(t.Amount)
	}

	out := make([]DailyRevenue, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := until.AddDate(0, 0, -i).Format(time.DateOnly)
		revenue := byDay[day]
		out = append(out, DailyRevenue{
			Date:    day,
			Revenue: revenue,
			Profit:  s.Profit(revenue),
		})
	}
	return out
}
