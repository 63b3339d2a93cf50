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

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindServices(ctx context.Context, activeOnly bool) ([]*entity.MunicipalService, error)
	FindServiceByID(ctx context.Context, id int64) (*entity.MunicipalService, error)
	SaveService(ctx context.Context, service *entity.MunicipalService) error
	DeleteService(ctx context.Context, service *entity.MunicipalService) error

	FindProjects(ctx context.Context, activeOnly bool, status entity.ProjectStatus) ([]*entity.Project, error)
	FindProjectByID(ctx context.Context, id int64) (*entity.Project, error)
	SaveProject(ctx context.Context, project *entity.Project) error
	DeleteProject(ctx context.Context, project *entity.Project) error
}

type DefaultCatalogService struct {
	CatalogRepo CatalogRepository
	Cache       *PublicCache
	Validate    *validator.Validate
}

func NewCatalogService(catalogRepo CatalogRepository, publicCache *PublicCache, validate *validator.Validate) *DefaultCatalogService {
	return &DefaultCatalogService{
		CatalogRepo: catalogRepo,
		Cache:       publicCache,
		Validate:    validate,
	}
}

func (s *DefaultCatalogService) ListPublicServices(ctx context.Context) ([]*contract.ServiceResponse, apierror.ErrorResponse) {
	return cachedResponse(ctx, s.Cache, cache.Key(cache.PrefixServices), func() ([]*contract.ServiceResponse, apierror.ErrorResponse) {
		return s.listServices(ctx, true)
	})
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, actor *entity.Actor) ([]*contract.ServiceResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}
	return s.listServices(ctx, false)
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, actor *entity.Actor, req *contract.ServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	service := &entity.MunicipalService{
		Title:        req.Title,
		Slug:         slugOrDefault(req.Slug, req.Title),
		Description:  req.Description,
		Department:   req.Department,
		ExternalURL:  req.ExternalURL,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active == nil || *req.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if apierr := s.saveService(ctx, service); apierr != nil {
		return nil, apierr
	}
	return toServiceResponse(service), nil
}

func (s *DefaultCatalogService) UpdateService(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	service, err := s.CatalogRepo.FindServiceByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch service: %v", err)
		return nil, apierror.InternalServerError
	}

	if service == nil {
		return nil, apierror.ServiceNotFoundError
	}

	if req.Title != nil {
		service.Title = *req.Title
	}
	if req.Slug != nil {
		service.Slug = *req.Slug
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Department != nil {
		service.Department = *req.Department
	}
	if req.ExternalURL != nil {
		service.ExternalURL = *req.ExternalURL
	}
	if req.DisplayOrder != nil {
		service.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	service.UpdatedAt = utils.NowUTC()

	if apierr := s.saveService(ctx, service); apierr != nil {
		return nil, apierr
	}
	return toServiceResponse(service), nil
}

func (s *DefaultCatalogService) DeleteService(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return apierr
	}

	service, err := s.CatalogRepo.FindServiceByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch service: %v", err)
		return apierror.InternalServerError
	}

	if service == nil {
		return apierror.ServiceNotFoundError
	}

	if err = s.CatalogRepo.DeleteService(ctx, service); err != nil {
		log.Errorf("failed to delete service: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixServices)
	return nil
}

func (s *DefaultCatalogService) ListPublicProjects(ctx context.Context, status string) ([]*contract.ProjectResponse, apierror.ErrorResponse) {
	filter, apierr := projectStatusFilter(status)
	if apierr != nil {
		return nil, apierr
	}

	key := cache.Key(cache.PrefixProjects, string(filter))
	return cachedResponse(ctx, s.Cache, key, func() ([]*contract.ProjectResponse, apierror.ErrorResponse) {
		return s.listProjects(ctx, true, filter)
	})
}

func (s *DefaultCatalogService) ListProjects(ctx context.Context, actor *entity.Actor, status string) ([]*contract.ProjectResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	filter, apierr := projectStatusFilter(status)
	if apierr != nil {
		return nil, apierr
	}
	return s.listProjects(ctx, false, filter)
}

func (s *DefaultCatalogService) CreateProject(ctx context.Context, actor *entity.Actor, req *contract.ProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	status := entity.ProjectPlanned
	if req.Status != "" {
		status = entity.ProjectStatus(req.Status)
	}

	now := utils.NowUTC()
	project := &entity.Project{
		Title:       req.Title,
		Slug:        slugOrDefault(req.Slug, req.Title),
		Description: req.Description,
		Status:      status,
		Active:      req.Active == nil || *req.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var apierr apierror.ErrorResponse
	if project.BudgetCents, apierr = parseOptionalBRL("budget", req.Budget); apierr != nil {
		return nil, apierr
	}
	if project.StartDate, apierr = parseOptionalDate("start_date", req.StartDate); apierr != nil {
		return nil, apierr
	}
	if project.EndDate, apierr = parseOptionalDate("end_date", req.EndDate); apierr != nil {
		return nil, apierr
	}

	if apierr = checkProjectDates(project); apierr != nil {
		return nil, apierr
	}

	if apierr = s.saveProject(ctx, project); apierr != nil {
		return nil, apierr
	}
	return toProjectResponse(project), nil
}

func (s *DefaultCatalogService) UpdateProject(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	project, err := s.CatalogRepo.FindProjectByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch project: %v", err)
		return nil, apierror.InternalServerError
	}

	if project == nil {
		return nil, apierror.ProjectNotFoundError
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Slug != nil {
		project.Slug = *req.Slug
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = entity.ProjectStatus(*req.Status)
	}
	if req.Active != nil {
		project.Active = *req.Active
	}

	var apierr apierror.ErrorResponse
	if req.Budget != nil {
		if project.BudgetCents, apierr = parseOptionalBRL("budget", req.Budget); apierr != nil {
			return nil, apierr
		}
	}
	if req.StartDate != nil {
		if project.StartDate, apierr = parseOptionalDate("start_date", req.StartDate); apierr != nil {
			return nil, apierr
		}
	}
	if req.EndDate != nil {
		if project.EndDate, apierr = parseOptionalDate("end_date", req.EndDate); apierr != nil {
			return nil, apierr
		}
	}

	if apierr = checkProjectDates(project); apierr != nil {
		return nil, apierr
	}
	project.UpdatedAt = utils.NowUTC()

	if apierr = s.saveProject(ctx, project); apierr != nil {
		return nil, apierr
	}
	return toProjectResponse(project), nil
}

func (s *DefaultCatalogService) DeleteProject(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse {
	if apierr := policy.Authorize(actor, entity.CapManageContent); apierr != nil {
		return apierr
	}

	project, err := s.CatalogRepo.FindProjectByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch project: %v", err)
		return apierror.InternalServerError
	}

	if project == nil {
		return apierror.ProjectNotFoundError
	}

	if err = s.CatalogRepo.DeleteProject(ctx, project); err != nil {
		log.Errorf("failed to delete project: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixProjects)
	return nil
}

func (s *DefaultCatalogService) listServices(ctx context.Context, activeOnly bool) ([]*contract.ServiceResponse, apierror.ErrorResponse) {
	services, err := s.CatalogRepo.FindServices(ctx, activeOnly)
	if err != nil {
		log.Errorf("failed to fetch services: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ServiceResponse, len(services))
	for i, svc := range services {
		resp[i] = toServiceResponse(svc)
	}
	return resp, nil
}

func (s *DefaultCatalogService) listProjects(ctx context.Context, activeOnly bool, status entity.ProjectStatus) ([]*contract.ProjectResponse, apierror.ErrorResponse) {
	projects, err := s.CatalogRepo.FindProjects(ctx, activeOnly, status)
	if err != nil {
		log.Errorf("failed to fetch projects: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = toProjectResponse(p)
	}
	return resp, nil
}

func (s *DefaultCatalogService) saveService(ctx context.Context, service *entity.MunicipalService) apierror.ErrorResponse {
	err := s.CatalogRepo.SaveService(ctx, service)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.DuplicateSlugError
	}

	if err != nil {
		log.Errorf("failed to save service: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixServices)
	return nil
}

func (s *DefaultCatalogService) saveProject(ctx context.Context, project *entity.Project) apierror.ErrorResponse {
	err := s.CatalogRepo.SaveProject(ctx, project)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.DuplicateSlugError
	}

	if err != nil {
		log.Errorf("failed to save project: %v", err)
		return apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixProjects)
	return nil
}

func projectStatusFilter(raw string) (entity.ProjectStatus, apierror.ErrorResponse) {
	if raw == "" {
		return "", nil
	}

	status := entity.ProjectStatus(raw)
	switch status {
	case entity.ProjectPlanned, entity.ProjectInProgress, entity.ProjectDone, entity.ProjectSuspended:
		return status, nil
	}
	return "", apierror.NewInvalidFieldValueError("status", raw)
}

func checkProjectDates(p *entity.Project) apierror.ErrorResponse {
	if p.StartDate != nil && p.EndDate != nil && *p.EndDate < *p.StartDate {
		return apierror.NewBadRequestError("end_date must not be before start_date")
	}
	return nil
}

func toServiceResponse(s *entity.MunicipalService) *contract.ServiceResponse {
	return &contract.ServiceResponse{
		ID:           s.ID,
		Title:        s.Title,
		Slug:         s.Slug,
		Description:  s.Description,
		Department:   s.Department,
		ExternalURL:  s.ExternalURL,
		DisplayOrder: s.DisplayOrder,
		Active:       s.Active,
	}
}

func toProjectResponse(p *entity.Project) *contract.ProjectResponse {
	return &contract.ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Status:      string(p.Status),
		BudgetCents: p.BudgetCents,
		Budget:      formatOptionalBRL(p.BudgetCents),
		StartDate:   formatOptionalDate(p.StartDate),
		EndDate:     formatOptionalDate(p.EndDate),
		Active:      p.Active,
	}
}
