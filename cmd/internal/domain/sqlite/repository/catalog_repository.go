package repository

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// DefaultCatalogRepository stores the plain content lists of the portal:
// municipal services and projects.
type DefaultCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *DefaultCatalogRepository {
	return &DefaultCatalogRepository{db: db}
}

func (r *DefaultCatalogRepository) FindServices(ctx context.Context, activeOnly bool) ([]*entity.MunicipalService, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var services []*entity.MunicipalService
	err := query.
		Order("display_order ASC").
		Order("title ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *DefaultCatalogRepository) FindServiceByID(ctx context.Context, id int64) (*entity.MunicipalService, error) {
	var service entity.MunicipalService
	err := r.db.WithContext(ctx).First(&service, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *DefaultCatalogRepository) SaveService(ctx context.Context, service *entity.MunicipalService) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *DefaultCatalogRepository) DeleteService(ctx context.Context, service *entity.MunicipalService) error {
	return r.db.WithContext(ctx).Delete(service).Error
}

func (r *DefaultCatalogRepository) FindProjects(ctx context.Context, activeOnly bool, status entity.ProjectStatus) ([]*entity.Project, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []*entity.Project
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *DefaultCatalogRepository) FindProjectByID(ctx context.Context, id int64) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *DefaultCatalogRepository) SaveProject(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *DefaultCatalogRepository) DeleteProject(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Delete(project).Error
}
