package repository

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAreaRepository struct {
	db *gorm.DB
}

func NewAreaRepository(db *gorm.DB) *DefaultAreaRepository {
	return &DefaultAreaRepository{db: db}
}

// FindAll returns areas ordered by display order with their categories
// nested the same way. activeOnly drops inactive areas and categories.
func (r *DefaultAreaRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.DocumentArea, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.
			Where("active = ?", true).
			Preload("Categories", func(db *gorm.DB) *gorm.DB {
				return db.Where("active = ?", true).Order("display_order ASC").Order("name ASC")
			})
	} else {
		query = query.Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC").Order("name ASC")
		})
	}

	var areas []*entity.DocumentArea
	err := query.
		Order("display_order ASC").
		Order("name ASC").
		Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *DefaultAreaRepository) FindByID(ctx context.Context, id int64) (*entity.DocumentArea, error) {
	var area entity.DocumentArea
	err := r.db.WithContext(ctx).
		Preload("Categories").
		First(&area, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *DefaultAreaRepository) Save(ctx context.Context, area *entity.DocumentArea) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(area).Error
}

func (r *DefaultAreaRepository) Delete(ctx context.Context, area *entity.DocumentArea) error {
	return r.db.WithContext(ctx).Delete(area).Error
}

func (r *DefaultAreaRepository) CountCategories(ctx context.Context, areaID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DocumentCategory{}).
		Where("area_id = ?", areaID).
		Count(&count).Error
	return count, err
}

func (r *DefaultAreaRepository) FindCategoryByID(ctx context.Context, id int64) (*entity.DocumentCategory, error) {
	var category entity.DocumentCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *DefaultAreaRepository) SaveCategory(ctx context.Context, category *entity.DocumentCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *DefaultAreaRepository) DeleteCategory(ctx context.Context, category *entity.DocumentCategory) error {
	return r.db.WithContext(ctx).Delete(category).Error
}
