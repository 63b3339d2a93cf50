package repository

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *DefaultNewsRepository {
	return &DefaultNewsRepository{db: db}
}

// FindAll lists news newest first, an empty status lists every status.
func (r *DefaultNewsRepository) FindAll(ctx context.Context, status entity.NewsStatus) ([]*entity.News, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var news []*entity.News
	err := query.
		Order("COALESCE(publish_at, created_at) DESC").
		Order("id DESC").
		Find(&news).Error
	if err != nil {
		return nil, err
	}
	return news, nil
}

func (r *DefaultNewsRepository) FindByID(ctx context.Context, id int64) (*entity.News, error) {
	var news entity.News
	err := r.db.WithContext(ctx).First(&news, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *DefaultNewsRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.News, error) {
	var news entity.News
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, entity.NewsPublished).
		First(&news).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *DefaultNewsRepository) Save(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Save(news).Error
}

func (r *DefaultNewsRepository) Delete(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Delete(news).Error
}

// PublishDue moves every scheduled news item whose publish time has passed
// to PUBLISHED and returns how many rows changed.
func (r *DefaultNewsRepository) PublishDue(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.News{}).
		Where("status = ? AND publish_at IS NOT NULL AND publish_at <= ?", entity.NewsScheduled, now).
		Updates(map[string]any{
			"status":     entity.NewsPublished,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}
