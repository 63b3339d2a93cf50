package service

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/domain/policy"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"portalmunicipal/cmd/internal/utils/normalize"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type AreaRepository interface {
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.DocumentArea, error)
	FindByID(ctx context.Context, id int64) (*entity.DocumentArea, error)
	Save(ctx context.Context, area *entity.DocumentArea) error
	Delete(ctx context.Context, area *entity.DocumentArea) error
	CountCategories(ctx context.Context, areaID int64) (int64, error)

	FindCategoryByID(ctx context.Context, id int64) (*entity.DocumentCategory, error)
	SaveCategory(ctx context.Context, category *entity.DocumentCategory) error
	DeleteCategory(ctx context.Context, category *entity.DocumentCategory) error
}

type DocumentCounter interface {
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}

type DefaultAreaService struct {
	AreaRepo AreaRepository
	DocRepo  DocumentCounter
	Cache    *PublicCache
	Validate *validator.Validate
}

func NewAreaService(areaRepo AreaRepository, docRepo DocumentCounter, publicCache *PublicCache, validate *validator.Validate) *DefaultAreaService {
	return &DefaultAreaService{
		AreaRepo: areaRepo,
		DocRepo:  docRepo,
		Cache:    publicCache,
		Validate: validate,
	}
}

// ListPublicAreas returns active areas with their active categories, both
// ordered by display order.
func (s *DefaultAreaService) ListPublicAreas(ctx context.Context) ([]*contract.AreaResponse, apierror.ErrorResponse) {
	return cachedResponse(ctx, s.Cache, cache.Key(cache.PrefixAreas), func() ([]*contract.AreaResponse, apierror.ErrorResponse) {
		return s.listAreas(ctx, true)
	})
}

func (s *DefaultAreaService) ListAreas(ctx context.Context, actor *entity.Actor) ([]*contract.AreaResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}
	return s.listAreas(ctx, false)
}

func (s *DefaultAreaService) CreateArea(ctx context.Context, actor *entity.Actor, req *contract.AreaRequest) (*contract.AreaResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageTaxonomy); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	area := &entity.DocumentArea{
		Name:         req.Name,
		Slug:         slugOrDefault(req.Slug, req.Name),
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active == nil || *req.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if apierr := s.saveArea(ctx, area); apierr != nil {
		return nil, apierr
	}
	return toAreaResponse(area), nil
}

func (s *DefaultAreaService) UpdateArea(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateAreaRequest) (*contract.AreaResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageTaxonomy); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	area, apierr := s.loadArea(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.Slug != nil {
		area.Slug = *req.Slug
	}
	if req.Description != nil {
		area.Description = *req.Description
	}
	if req.DisplayOrder != nil {
		area.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		area.Active = *req.Active
	}
	area.UpdatedAt = utils.NowUTC()

	if apierr = s.saveArea(ctx, area); apierr != nil {
		return nil, apierr
	}
	return toAreaResponse(area), nil
}

// DeleteArea refuses areas that still own categories.
func (s *DefaultAreaService) DeleteArea(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse {
	if apierr := policy.Authorize(actor, entity.CapManageTaxonomy); apierr != nil {
		return apierr
	}

	area, apierr := s.loadArea(ctx, id)
	if apierr != nil {
		return apierr
	}

	count, err := s.AreaRepo.CountCategories(ctx, area.ID)
	if err != nil {
		log.Errorf("failed to count area categories: %v", err)
		return apierror.InternalServerError
	}

	if count > 0 {
		return apierror.AreaInUseError
	}

	if err = s.AreaRepo.Delete(ctx, area); err != nil {
		log.Errorf("failed to delete area: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixAreas)
	return nil
}

func (s *DefaultAreaService) CreateCategory(ctx context.Context, actor *entity.Actor, areaID int64, req *contract.CategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageTaxonomy); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	area, apierr := s.loadArea(ctx, areaID)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	category := &entity.DocumentCategory{
		AreaID:       area.ID,
		Name:         req.Name,
		Slug:         slugOrDefault(req.Slug, req.Name),
		Macro:        entity.CategoryMacro(req.Macro),
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active == nil || *req.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if apierr = s.saveCategory(ctx, category); apierr != nil {
		return nil, apierr
	}
	return toCategoryResponse(category), nil
}

func (s *DefaultAreaService) UpdateCategory(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageTaxonomy); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	category, apierr := s.loadCategory(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Macro != nil {
		category.Macro = entity.CategoryMacro(*req.Macro)
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		category.Active = *req.Active
	}
	category.UpdatedAt = utils.NowUTC()

	if apierr = s.saveCategory(ctx, category); apierr != nil {
		return nil, apierr
	}

	// Documents embed their category in public responses.
	s.Cache.Invalidate(ctx, cache.PrefixDocuments)
	return toCategoryResponse(category), nil
}

// DeleteCategory is the only hard delete of the document taxonomy and is
// refused while any document references the category.
func (s *DefaultAreaService) DeleteCategory(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse {
	if apierr := policy.Authorize(actor, entity.CapManageTaxonomy); apierr != nil {
		return apierr
	}

	category, apierr := s.loadCategory(ctx, id)
	if apierr != nil {
		return apierr
	}

	count, err := s.DocRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		log.Errorf("failed to count category documents: %v", err)
		return apierror.InternalServerError
	}

	if count > 0 {
		return apierror.CategoryInUseError
	}

	if err = s.AreaRepo.DeleteCategory(ctx, category); err != nil {
		log.Errorf("failed to delete category: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixAreas)
	return nil
}

func (s *DefaultAreaService) listAreas(ctx context.Context, activeOnly bool) ([]*contract.AreaResponse, apierror.ErrorResponse) {
	areas, err := s.AreaRepo.FindAll(ctx, activeOnly)
	if err != nil {
		log.Errorf("failed to fetch areas: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.AreaResponse, len(areas))
	for i, area := range areas {
		resp[i] = toAreaResponse(area)
	}
	return resp, nil
}

func (s *DefaultAreaService) loadArea(ctx context.Context, id int64) (*entity.DocumentArea, apierror.ErrorResponse) {
	area, err := s.AreaRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch area: %v", err)
		return nil, apierror.InternalServerError
	}

	if area == nil {
		return nil, apierror.AreaNotFoundError
	}
	return area, nil
}

func (s *DefaultAreaService) loadCategory(ctx context.Context, id int64) (*entity.DocumentCategory, apierror.ErrorResponse) {
	category, err := s.AreaRepo.FindCategoryByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch category: %v", err)
		return nil, apierror.InternalServerError
	}

	if category == nil {
		return nil, apierror.CategoryNotFoundError
	}
	return category, nil
}

func (s *DefaultAreaService) saveArea(ctx context.Context, area *entity.DocumentArea) apierror.ErrorResponse {
	err := s.AreaRepo.Save(ctx, area)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.DuplicateSlugError
	}

	if err != nil {
		log.Errorf("failed to save area: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixAreas)
	return nil
}

func (s *DefaultAreaService) saveCategory(ctx context.Context, category *entity.DocumentCategory) apierror.ErrorResponse {
	err := s.AreaRepo.SaveCategory(ctx, category)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.DuplicateSlugError
	}

	if err != nil {
		log.Errorf("failed to save category: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixAreas)
	return nil
}

// slugOrDefault keeps an explicit slug and derives one from the title otherwise.
func slugOrDefault(slug, title string) string {
	if slug != "" {
		return slug
	}
	return normalize.Slugify(title)
}

func toAreaResponse(area *entity.DocumentArea) *contract.AreaResponse {
	categories := make([]*contract.CategoryResponse, len(area.Categories))
	for i, c := range area.Categories {
		categories[i] = toCategoryResponse(c)
	}

	return &contract.AreaResponse{
		ID:           area.ID,
		Name:         area.Name,
		Slug:         area.Slug,
		Description:  area.Description,
		DisplayOrder: area.DisplayOrder,
		Active:       area.Active,
		Categories:   categories,
	}
}

func toCategoryResponse(c *entity.DocumentCategory) *contract.CategoryResponse {
	return &contract.CategoryResponse{
		ID:           c.ID,
		AreaID:       c.AreaID,
		Name:         c.Name,
		Slug:         c.Slug,
		Macro:        string(c.Macro),
		DisplayOrder: c.DisplayOrder,
		Active:       c.Active,
	}
}
