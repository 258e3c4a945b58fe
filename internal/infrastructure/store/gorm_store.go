package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps each collection in a table of the same name. Wire field
// names are translated to the snake_case columns gorm derives from the
// entity structs.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the table of every collection
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(entity.Models()...)
}

// Close releases the connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) List(ctx context.Context, c entity.Collection, out interface{}, opts ...repository.ListOption) error {
	q := s.db.WithContext(ctx).Table(string(c))

	o := repository.ApplyListOptions(opts...)
	if o.SortBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: columnName(o.SortBy)}, Desc: o.Desc})
	}

	return q.Find(out).Error
}

func (s *GormStore) Insert(ctx context.Context, c entity.Collection, rec entity.Record) error {
	if rec.GetID() == "" {
		rec.SetID(uuid.NewString())
	}

	if err := s.db.WithContext(ctx).Table(string(c)).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s/%s: %w", c, rec.GetID(), repository.ErrDuplicateRecord)
		}
		return err
	}
	return nil
}

func (s *GormStore) Patch(ctx context.Context, c entity.Collection, id string, fields map[string]interface{}) error {
	model, err := entity.NewRecord(c)
	if err != nil {
		return err
	}

	columns := make(map[string]interface{}, len(fields))
	for field, value := range fields {
		if field == "id" {
			continue
		}
		columns[columnName(field)] = value
	}
	if len(columns) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("patch %s/%s: %w", c, id, repository.ErrRecordNotFound)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, c entity.Collection, id string) error {
	model, err := entity.NewRecord(c)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s/%s: %w", c, id, repository.ErrRecordNotFound)
	}
	return nil
}

func (s *GormStore) FindBy(ctx context.Context, c entity.Collection, filter map[string]string, out interface{}) error {
	q := s.db.WithContext(ctx).Table(string(c))
	for field, value := range filter {
		q = q.Where(clause.Eq{Column: clause.Column{Name: columnName(field)}, Value: value})
	}
	return q.Find(out).Error
}

// isUniqueViolation checks for PostgreSQL error code 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// columnName turns a camelCase wire name into its snake_case column:
// patientId -> patient_id, registeredAt -> registered_at.
func columnName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
