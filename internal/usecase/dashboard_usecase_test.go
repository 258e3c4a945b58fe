package usecase

import (
	"context"
	"testing"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_DoctorSeesCurrentAndNextPatients(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	first := f.register(t, "Budi")
	f.register(t, "Sari")
	f.register(t, "Agus")

	doctor, err := f.dash.DoctorDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, doctor.WaitingCount)
	assert.Equal(t, 3, doctor.PatientsToday)
	require.NotNil(t, doctor.CurrentPatient, "first waiting patient is shown before anyone is called")
	assert.Equal(t, "Budi", doctor.CurrentPatient.QueueEntry.PatientName)
	assert.Equal(t, string(entity.QueueStatusWaiting), doctor.CurrentPatient.QueueEntry.Status)
	require.NotNil(t, doctor.CurrentPatient.Patient)
	assert.Equal(t, first.Patient.ID, doctor.CurrentPatient.Patient.ID)

	_, err = f.flow.CallPatient(ctx, first.QueueEntry.ID)
	require.NoError(t, err)

	doctor, err = f.dash.DoctorDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, doctor.WaitingCount)
	require.NotNil(t, doctor.CurrentPatient)
	assert.Equal(t, "Budi", doctor.CurrentPatient.QueueEntry.PatientName)
	require.NotNil(t, doctor.CurrentPatient.Patient)
	assert.Equal(t, "Demam", doctor.CurrentPatient.Patient.Complaint)
	require.Len(t, doctor.NextWaiting, 2)
	assert.Equal(t, "Sari", doctor.NextWaiting[0].PatientName)
}

func TestDashboard_DoctorCurrentPatientEmptyQueue(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	doctor, err := f.dash.DoctorDashboard(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doctor.CurrentPatient)
	assert.Empty(t, doctor.NextWaiting)
}

func TestDashboard_ActiveQueueSearch(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	f.register(t, "Budi Santoso")
	f.register(t, "Sari")

	queue, err := f.dash.ActiveQueue(ctx, "  santoso ")
	require.NoError(t, err)
	require.Equal(t, 1, queue.Total)
	assert.Equal(t, "Budi Santoso", queue.Entries[0].PatientName)
	assert.Equal(t, 1, queue.ByStatus[string(entity.QueueStatusWaiting)])

	queue, err = f.dash.ActiveQueue(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, queue.Total)
}

func TestDashboard_TransactionReport(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	for _, name := range []string{"Budi", "Sari"} {
		reg := f.register(t, name)
		_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
		require.NoError(t, err)
		_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{PatientID: reg.Patient.ID, Diagnosis: "ISPA"})
		require.NoError(t, err)
	}

	queue, err := f.dash.ActiveQueue(ctx, "")
	require.NoError(t, err)
	amount := decimal.NewFromInt(80000)
	for _, entry := range queue.Entries {
		req := &dto.RecordPaymentRequest{PatientID: entry.PatientID, Method: "Debit"}
		if entry.PatientName == "Sari" {
			req.Amount = &amount
		}
		_, err := f.flow.RecordPayment(ctx, req)
		require.NoError(t, err)
	}

	report, err := f.dash.Transactions(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.True(t, decimal.NewFromInt(130000).Equal(report.Revenue))
	assert.True(t, decimal.NewFromInt(65000).Equal(report.Average))

	report, err = f.dash.Transactions(ctx, "", "sari")
	require.NoError(t, err)
	require.Equal(t, 1, report.Total)
	assert.True(t, amount.Equal(report.Transactions[0].Amount))

	history, err := f.dash.Examinations(ctx, report.Transactions[0].PatientID, "")
	require.NoError(t, err)
	require.Equal(t, 1, history.Total)
	assert.Equal(t, "ISPA", history.Examinations[0].Diagnosis)
}

func TestDashboard_BillUnknownPatient(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	_, err := f.dash.Bill(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestDashboard_PharmacyLowStock(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Budi")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)
	_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
		PatientID: reg.Patient.ID,
		Diagnosis: "Infeksi",
		Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m2", Dosage: "3x1", Quantity: 15}},
	})
	require.NoError(t, err)

	pharmacy, err := f.dash.PharmacyDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pharmacy.TotalPrescriptions)
	assert.Zero(t, pharmacy.PendingCount, "patient has not paid yet")
	require.Equal(t, 1, pharmacy.LowStockCount)
	assert.Equal(t, "Amoxicillin", pharmacy.LowStock[0].Name)
	assert.True(t, pharmacy.LowStock[0].LowStock)
}

func TestDashboard_NotificationsAndMirrorStatus(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)
	f.register(t, "Budi")

	toasts, err := f.dash.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Pasien berhasil didaftarkan!", toasts[0].Message)

	require.NoError(t, f.dash.DismissNotification(ctx, toasts[0].ID))
	assert.ErrorIs(t, f.dash.DismissNotification(ctx, toasts[0].ID), ErrNotificationNotFound)

	status, err := f.dash.MirrorStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.MirrorModeIncremental, status.Mode)
	assert.Equal(t, 1, status.Counts[string(entity.CollectionPatients)])
	assert.Equal(t, 2, status.Counts[string(entity.CollectionMedicines)])
}
