package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// storeFactories returns each driver that can run without external services.
// The REST client is exercised against the dev data backend.
func storeFactories(t *testing.T) map[string]func() repository.RecordStore {
	return map[string]func() repository.RecordStore{
		"memory": func() repository.RecordStore {
			return NewMemoryStore()
		},
		"rest": func() repository.RecordStore {
			srv := httptest.NewServer(NewRESTHandler(NewMemoryStore(), quietLogger()))
			t.Cleanup(srv.Close)
			return NewRESTStore(srv.URL, 5*time.Second, quietLogger())
		},
	}
}

var registeredAt = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

func TestRecordStore_InsertAndList(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			budi := &entity.Patient{Name: "Budi", Age: 30, Contact: "0812", Complaint: "Demam", RegisteredAt: registeredAt}
			sari := &entity.Patient{Name: "Sari", Age: 25, RegisteredAt: registeredAt.Add(time.Minute)}
			require.NoError(t, s.Insert(ctx, entity.CollectionPatients, budi))
			require.NoError(t, s.Insert(ctx, entity.CollectionPatients, sari))
			assert.NotEmpty(t, budi.ID)
			assert.NotEqual(t, budi.ID, sari.ID)

			var patients []entity.Patient
			require.NoError(t, s.List(ctx, entity.CollectionPatients, &patients))
			require.Len(t, patients, 2)
			assert.Equal(t, "Budi", patients[0].Name)
			assert.Equal(t, "Demam", patients[0].Complaint)
			assert.True(t, registeredAt.Equal(patients[0].RegisteredAt))
			assert.Equal(t, "Sari", patients[1].Name)
		})
	}
}

func TestRecordStore_ListEmptyCollection(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			var meds []entity.Medicine
			require.NoError(t, newStore().List(context.Background(), entity.CollectionMedicines, &meds))
			assert.Empty(t, meds)
		})
	}
}

func TestRecordStore_ListSorted(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			for _, p := range []*entity.Patient{
				{Name: "Budi", Age: 30},
				{Name: "Adi", Age: 7},
				{Name: "Sari", Age: 45},
			} {
				require.NoError(t, s.Insert(ctx, entity.CollectionPatients, p))
			}

			var asc []entity.Patient
			require.NoError(t, s.List(ctx, entity.CollectionPatients, &asc, repository.SortBy("age")))
			assert.Equal(t, []int{7, 30, 45}, ages(asc))

			var desc []entity.Patient
			require.NoError(t, s.List(ctx, entity.CollectionPatients, &desc, repository.SortByDesc("age")))
			assert.Equal(t, []int{45, 30, 7}, ages(desc))

			var byName []entity.Patient
			require.NoError(t, s.List(ctx, entity.CollectionPatients, &byName, repository.SortBy("name")))
			assert.Equal(t, "Adi", byName[0].Name)
		})
	}
}

func ages(patients []entity.Patient) []int {
	out := make([]int, 0, len(patients))
	for _, p := range patients {
		out = append(out, p.Age)
	}
	return out
}

func TestRecordStore_PatchAndFindBy(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			entry := &entity.QueueEntry{PatientID: "p1", PatientName: "Budi", Status: entity.QueueStatusWaiting, JoinedAt: registeredAt}
			other := &entity.QueueEntry{PatientID: "p2", PatientName: "Sari", Status: entity.QueueStatusWaiting, JoinedAt: registeredAt}
			require.NoError(t, s.Insert(ctx, entity.CollectionQueue, entry))
			require.NoError(t, s.Insert(ctx, entity.CollectionQueue, other))

			require.NoError(t, s.Patch(ctx, entity.CollectionQueue, entry.ID, map[string]interface{}{
				entity.FieldStatus: entity.QueueStatusExamining,
			}))

			var examining []entity.QueueEntry
			require.NoError(t, s.FindBy(ctx, entity.CollectionQueue, map[string]string{"status": "examining"}, &examining))
			require.Len(t, examining, 1)
			assert.Equal(t, entry.ID, examining[0].ID)
			assert.Equal(t, "Budi", examining[0].PatientName)
			assert.True(t, registeredAt.Equal(examining[0].JoinedAt))

			var none []entity.QueueEntry
			require.NoError(t, s.FindBy(ctx, entity.CollectionQueue, map[string]string{"patientId": "p2", "status": "payment"}, &none))
			assert.Empty(t, none)
		})
	}
}

func TestRecordStore_UnknownID(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			err := s.Patch(ctx, entity.CollectionMedicines, "missing", map[string]interface{}{entity.FieldStock: 1})
			assert.ErrorIs(t, err, repository.ErrRecordNotFound)

			err = s.Delete(ctx, entity.CollectionMedicines, "missing")
			assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		})
	}
}

func TestRecordStore_Delete(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			tx := &entity.Transaction{
				PatientID: "p1",
				Amount:    decimal.NewFromInt(65000),
				Method:    entity.PaymentMethodCash,
				Items: entity.LineItems{
					{Name: "Jasa Pemeriksaan", Amount: decimal.NewFromInt(50000)},
					{Name: "Obat-obatan", Amount: decimal.NewFromInt(15000)},
				},
				Date: registeredAt,
			}
			require.NoError(t, s.Insert(ctx, entity.CollectionTransactions, tx))

			var before []entity.Transaction
			require.NoError(t, s.List(ctx, entity.CollectionTransactions, &before))
			require.Len(t, before, 1)
			assert.True(t, decimal.NewFromInt(65000).Equal(before[0].Amount))
			assert.Len(t, before[0].Items, 2)

			require.NoError(t, s.Delete(ctx, entity.CollectionTransactions, tx.ID))

			var after []entity.Transaction
			require.NoError(t, s.List(ctx, entity.CollectionTransactions, &after))
			assert.Empty(t, after)
		})
	}
}

func TestRecordStore_PrescriptionAmountsAsStrings(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			rx := &entity.Prescription{
				PatientID: "p1",
				Medicines: entity.PrescriptionItems{{MedicineID: "m1", Name: "Paracetamol", Dosage: "3x1", Quantity: 10}},
				Status:    entity.PrescriptionStatusPending,
			}
			require.NoError(t, s.Insert(ctx, entity.CollectionPrescriptions, rx))

			var got []entity.Prescription
			require.NoError(t, s.FindBy(ctx, entity.CollectionPrescriptions, map[string]string{"status": "pending"}, &got))
			require.Len(t, got, 1)
			assert.Equal(t, 10, got[0].Medicines[0].Quantity.Int())
			assert.Equal(t, "m1", got[0].Medicines[0].MedicineID)
		})
	}
}

func TestMemoryStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Insert(ctx, entity.CollectionUsers, &entity.User{Identity: entity.Identity{ID: "u1"}, Username: "admin"}))
	err := s.Insert(ctx, entity.CollectionUsers, &entity.User{Identity: entity.Identity{ID: "u1"}, Username: "other"})
	assert.ErrorIs(t, err, repository.ErrDuplicateRecord)
}

func TestMemoryStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	med := &entity.Medicine{Name: "Paracetamol", Stock: 50}
	require.NoError(t, s.Insert(ctx, entity.CollectionMedicines, med))
	med.Stock = 0

	var meds []entity.Medicine
	require.NoError(t, s.List(ctx, entity.CollectionMedicines, &meds))
	meds[0].Stock = 1

	var again []entity.Medicine
	require.NoError(t, s.List(ctx, entity.CollectionMedicines, &again))
	assert.Equal(t, 50, again[0].Stock)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var patients []entity.Patient
	assert.ErrorIs(t, NewMemoryStore().List(ctx, entity.CollectionPatients, &patients), context.Canceled)
}

func TestRESTStore_UnknownCollection(t *testing.T) {
	srv := httptest.NewServer(NewRESTHandler(NewMemoryStore(), quietLogger()))
	defer srv.Close()

	s := NewRESTStore(srv.URL, time.Second, quietLogger())
	var out []entity.Patient
	err := s.List(context.Background(), entity.Collection("invoices"), &out)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestRESTStore_NumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/medicines":
			io.WriteString(w, `[{"id": 1, "name": "Paracetamol", "unit": "tablet", "price": 5000, "stock": 50}]`)
		case "/prescriptions/7":
			io.WriteString(w, `{"id": 7, "patientId": 3, "patientName": "Budi", "status": "pending",
				"medicines": [{"id": 1, "name": "Paracetamol", "dosage": "3x1", "amount": "10"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := NewRESTStore(srv.URL, time.Second, quietLogger())

	var meds []entity.Medicine
	require.NoError(t, s.List(context.Background(), entity.CollectionMedicines, &meds))
	require.Len(t, meds, 1)
	assert.Equal(t, "1", meds[0].ID)
	assert.Equal(t, 50, meds[0].Stock)
	assert.True(t, decimal.NewFromInt(5000).Equal(meds[0].Price))

	var rx entity.Prescription
	require.NoError(t, s.doRequest(context.Background(), http.MethodGet, s.resourceURL(entity.CollectionPrescriptions, "7", nil), nil, &rx))
	assert.Equal(t, "7", rx.ID)
	assert.Equal(t, "3", rx.PatientID)
	require.Len(t, rx.Medicines, 1)
	assert.Equal(t, "1", rx.Medicines[0].MedicineID)
	assert.Equal(t, 10, rx.Medicines[0].Quantity.Int())
}

func TestStringifyIDs_LeavesOtherNumbers(t *testing.T) {
	body := []byte(`{"id":"p1","age":40}`)
	out, err := stringifyIDs(body)
	require.NoError(t, err)
	assert.Equal(t, body, out)

	out, err = stringifyIDs([]byte(`{"id":12,"age":40,"price":1250.5}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"12","age":40,"price":1250.5}`, string(out))
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "patient_id", columnName("patientId"))
	assert.Equal(t, "registered_at", columnName("registeredAt"))
	assert.Equal(t, "has_prescription", columnName("hasPrescription"))
	assert.Equal(t, "stock", columnName("stock"))
}
