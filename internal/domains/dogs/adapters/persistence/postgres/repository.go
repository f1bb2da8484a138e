package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
)

var _ ports.DogRepository = (*Repository)(nil)

// uniqueViolation is the SQLSTATE raised when an insert collides with the primary key.
const uniqueViolation = "23505"

// Repository persists dogs in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// dogRecord maps a dog to the dogs table. Listing order follows created_at.
type dogRecord struct {
	Name       string    `gorm:"primaryKey;column:name"`
	Color      string    `gorm:"column:color"`
	TailLength int       `gorm:"column:tail_length"`
	Weight     int       `gorm:"column:weight"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (dogRecord) TableName() string { return "dogs" }

const storeOrder = "created_at, name"

// GetAll returns every dog in insertion order.
func (r *Repository) GetAll(ctx context.Context) ([]ports.DogEntity, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []dogRecord
	if err := r.db.WithContext(ctx).Order(storeOrder).Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntities(records), nil
}

// GetPage returns one page of dogs in insertion order.
func (r *Repository) GetPage(ctx context.Context, pageNumber, pageSize int) ([]ports.DogEntity, error) {
	if err := ports.ValidatePage(pageNumber, pageSize); err != nil {
		return nil, err
	}
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	offset, ok := ports.PageOffset(pageNumber, pageSize)
	if !ok {
		return []ports.DogEntity{}, nil
	}
	var records []dogRecord
	if err := r.db.WithContext(ctx).
		Order(storeOrder).
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntities(records), nil
}

// GetByID fetches a dog by name. A missing dog yields nil without error.
func (r *Repository) GetByID(ctx context.Context, name string) (*ports.DogEntity, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record dogRecord
	if err := r.db.WithContext(ctx).First(&record, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entity := record.toEntity()
	return &entity, nil
}

// Add inserts a new dog. The existence check and the insert share one transaction; a concurrent
// insert that slips past the check is reported by the primary key as ErrUniqueViolation.
func (r *Repository) Add(ctx context.Context, entity ports.DogEntity) (ports.DogEntity, error) {
	if err := ports.ValidateEntity(entity); err != nil {
		return ports.DogEntity{}, err
	}
	if err := r.ensureDB(); err != nil {
		return ports.DogEntity{}, err
	}
	record := toRecord(entity)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dogRecord{}).Where("name = ?", entity.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ports.ErrAlreadyExists
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return ports.DogEntity{}, classify(err)
	}
	return record.toEntity(), nil
}

// Update overwrites color, tail length and weight of an existing dog.
func (r *Repository) Update(ctx context.Context, entity ports.DogEntity) (ports.DogEntity, error) {
	if err := ports.ValidateEntity(entity); err != nil {
		return ports.DogEntity{}, err
	}
	if err := r.ensureDB(); err != nil {
		return ports.DogEntity{}, err
	}
	result := r.db.WithContext(ctx).
		Model(&dogRecord{}).
		Where("name = ?", entity.Name).
		Updates(map[string]any{
			"color":       entity.Color,
			"tail_length": entity.TailLength,
			"weight":      entity.Weight,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return ports.DogEntity{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.DogEntity{}, ports.ErrNotFound
	}
	return entity, nil
}

// Delete removes a dog by name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&dogRecord{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrIDNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres dog repository not configured")
	}
	return nil
}

// classify turns driver level unique violations into ErrUniqueViolation. gorm only
// translates them when the connection was opened with TranslateError, so both
// drivers are checked as well.
func classify(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ports.ErrUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ports.ErrUniqueViolation
	}
	return err
}

func toRecord(entity ports.DogEntity) dogRecord {
	return dogRecord{
		Name:       entity.Name,
		Color:      entity.Color,
		TailLength: entity.TailLength,
		Weight:     entity.Weight,
	}
}

func (r dogRecord) toEntity() ports.DogEntity {
	return ports.DogEntity{
		Name:       r.Name,
		Color:      r.Color,
		TailLength: r.TailLength,
		Weight:     r.Weight,
	}
}

func toEntities(records []dogRecord) []ports.DogEntity {
	entities := make([]ports.DogEntity, 0, len(records))
	for i := range records {
		entities = append(entities, records[i].toEntity())
	}
	return entities
}
