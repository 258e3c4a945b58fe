package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	MedicineID string `json:"medicine_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type request struct {
	Name      string `json:"name" validate:"required,min=2"`
	Method    string `json:"method" validate:"required,oneof=Tunai Debit QRIS"`
	Medicines []line `json:"medicines" validate:"required,min=1,dive"`
}

func TestCustomValidator_FormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&request{
		Name:      "B",
		Method:    "Cek",
		Medicines: []line{{MedicineID: "m1", Quantity: 0}},
	})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "name must be at least 2 characters", errs["name"])
	assert.Equal(t, "method must be one of: Tunai, Debit, QRIS", errs["method"])
	assert.Equal(t, "medicines[0].quantity is required", errs["medicines[0].quantity"])
}

func TestCustomValidator_EmptySlice(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&request{Name: "Budi", Method: "QRIS", Medicines: []line{}})
	require.Error(t, err)
	assert.Equal(t, "medicines must have at least 1 item(s)", v.FormatValidationErrors(err)["medicines"])
}

func TestCustomValidator_Valid(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&request{Name: "Budi", Method: "Tunai", Medicines: []line{{MedicineID: "m1", Quantity: 2}}}))
}
