package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseRepository carries the persistence operations shared by the
// tenant-owned entities. Listing always goes through the company scope;
// there is no unscoped enumeration.
type BaseRepository[T any] struct {
	DB *gorm.DB
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.DB.WithContext(ctx).Create(entity).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.DB.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// companyScoped returns a query restricted to one company's live rows.
func (r *BaseRepository[T]) companyScoped(ctx context.Context, companyID uuid.UUID) *gorm.DB {
	return r.DB.WithContext(ctx).Model(new(T)).
		Where("company_id = ? AND deleted_at IS NULL", companyID)
}

// ListByCompany returns one page of a company's rows plus the total count.
func (r *BaseRepository[T]) ListByCompany(ctx context.Context, companyID uuid.UUID, order string, limit, offset int) ([]T, int64, error) {
	var entities []T
	var total int64

	query := r.companyScoped(ctx, companyID)
	query.Count(&total)
	err := query.Order(order).Limit(limit).Offset(offset).Find(&entities).Error
	return entities, total, err
}
