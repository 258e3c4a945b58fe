package usecase

import (
	"context"
	"errors"
	"strings"

	"klinik-sentosa/internal/converter"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/internal/infrastructure/metrics"
	"klinik-sentosa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock must not be negative")
)

type MedicineUsecase interface {
	Create(ctx context.Context, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error)
	GetAll(ctx context.Context, search string) (*dto.MedicineListResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error)
	Delete(ctx context.Context, id string) error
}

type medicineUsecase struct {
	log               *logrus.Logger
	medicineRepo      repository.MedicineRepository
	mirror            *service.MirrorSyncService
	notifier          *service.NotificationService
	metrics           *metrics.Metrics
	lowStockThreshold int
}

func NewMedicineUsecase(
	log *logrus.Logger,
	medicineRepo repository.MedicineRepository,
	mirror *service.MirrorSyncService,
	notifier *service.NotificationService,
	m *metrics.Metrics,
	lowStockThreshold int,
) MedicineUsecase {
	return &medicineUsecase{
		log:               log,
		medicineRepo:      medicineRepo,
		mirror:            mirror,
		notifier:          notifier,
		metrics:           m,
		lowStockThreshold: lowStockThreshold,
	}
}

func (u *medicineUsecase) Create(ctx context.Context, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if req.Price.LessThan(decimal.Zero) {
		return nil, u.done("create_medicine", ErrInvalidPrice, "", "")
	}
	if req.Stock < 0 {
		return nil, u.done("create_medicine", ErrInvalidStock, "", "")
	}

	medicine := &entity.Medicine{
		Name:  req.Name,
		Unit:  req.Unit,
		Price: req.Price,
		Stock: req.Stock,
	}

	if err := u.medicineRepo.Create(ctx, medicine); err != nil {
		u.log.Warnf("Failed to create medicine: %+v", err)
		return nil, u.done("create_medicine", err, "", "Gagal menyimpan data obat.")
	}

	u.sync(ctx, service.UpsertMedicine(*medicine))
	u.done("create_medicine", nil, "Obat baru berhasil ditambahkan!", "")
	return converter.MedicineToResponse(medicine, u.lowStockThreshold), nil
}

// GetAll lists the inventory from the mirror, optionally filtered by name
func (u *medicineUsecase) GetAll(ctx context.Context, search string) (*dto.MedicineListResponse, error) {
	medicines := u.mirror.Snapshot().Medicines

	if search = strings.TrimSpace(strings.ToLower(search)); search != "" {
		filtered := medicines[:0]
		for _, m := range medicines {
			if strings.Contains(strings.ToLower(m.Name), search) {
				filtered = append(filtered, m)
			}
		}
		medicines = filtered
	}

	return &dto.MedicineListResponse{
		Medicines: converter.MedicinesToResponses(medicines, u.lowStockThreshold),
		Total:     len(medicines),
	}, nil
}

// Update patches only the fields present in req
func (u *medicineUsecase) Update(ctx context.Context, id string, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine, ok := u.mirror.Medicine(id)
	if !ok {
		return nil, u.done("update_medicine", ErrMedicineNotFound, "", "")
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		medicine.Name = *req.Name
		fields[entity.FieldName] = medicine.Name
	}
	if req.Unit != nil {
		medicine.Unit = *req.Unit
		fields[entity.FieldUnit] = medicine.Unit
	}
	if req.Price != nil {
		if req.Price.LessThan(decimal.Zero) {
			return nil, u.done("update_medicine", ErrInvalidPrice, "", "")
		}
		medicine.Price = *req.Price
		fields[entity.FieldPrice] = medicine.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, u.done("update_medicine", ErrInvalidStock, "", "")
		}
		medicine.Stock = *req.Stock
		fields[entity.FieldStock] = medicine.Stock
	}

	if len(fields) == 0 {
		return converter.MedicineToResponse(medicine, u.lowStockThreshold), nil
	}

	if err := u.medicineRepo.Update(ctx, id, fields); err != nil {
		u.log.Warnf("Failed to update medicine %s: %+v", id, err)
		return nil, u.done("update_medicine", err, "", "Gagal menyimpan data obat.")
	}

	message := "Obat berhasil diperbarui!"
	if len(fields) == 1 && req.Stock != nil {
		message = "Stok berhasil diperbarui"
	}

	u.sync(ctx, service.UpsertMedicine(*medicine))
	u.done("update_medicine", nil, message, "")
	return converter.MedicineToResponse(medicine, u.lowStockThreshold), nil
}

func (u *medicineUsecase) Delete(ctx context.Context, id string) error {
	if _, ok := u.mirror.Medicine(id); !ok {
		return u.done("delete_medicine", ErrMedicineNotFound, "", "")
	}

	if err := u.medicineRepo.Delete(ctx, id); err != nil {
		u.log.Warnf("Failed to delete medicine %s: %+v", id, err)
		return u.done("delete_medicine", err, "", "Gagal menghapus obat.")
	}

	u.sync(ctx, service.RemoveMedicine(id))
	u.metrics.ObserveAction("delete_medicine", nil, false)
	if u.notifier != nil {
		u.notifier.Info("Obat dihapus.")
	}
	return nil
}

func (u *medicineUsecase) sync(ctx context.Context, changes ...service.Change) {
	if err := u.mirror.Apply(ctx, changes...); err != nil {
		u.log.Warnf("Failed to update mirror after medicine write: %+v", err)
	}
}

func (u *medicineUsecase) done(action string, err error, successMsg, failureMsg string) error {
	rejected := err != nil && (errors.Is(err, ErrMedicineNotFound) || errors.Is(err, ErrInvalidPrice) || errors.Is(err, ErrInvalidStock))
	u.metrics.ObserveAction(action, err, rejected)

	if u.notifier == nil {
		return err
	}
	switch {
	case err == nil && successMsg != "":
		u.notifier.Success(successMsg)
	case err != nil && failureMsg != "":
		u.notifier.Error(failureMsg)
	}
	return err
}
