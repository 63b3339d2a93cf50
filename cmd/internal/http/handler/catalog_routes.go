package handler

import (
	"context"
	"net/http"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// CatalogService manages the municipal services and projects listed on the portal.
type CatalogService interface {
	ListServices(ctx context.Context, actor *entity.Actor) ([]*contract.ServiceResponse, apierror.ErrorResponse)
	CreateService(ctx context.Context, actor *entity.Actor, req *contract.ServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse)
	UpdateService(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse)
	DeleteService(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse

	ListProjects(ctx context.Context, actor *entity.Actor, status string) ([]*contract.ProjectResponse, apierror.ErrorResponse)
	CreateProject(ctx context.Context, actor *entity.Actor, req *contract.ProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse)
	UpdateProject(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse)
	DeleteProject(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse
}

type DefaultCatalogRoute struct {
	CatalogService CatalogService
}

func NewCatalogDefault(catalogService CatalogService) *DefaultCatalogRoute {
	return &DefaultCatalogRoute{CatalogService: catalogService}
}

func (r *DefaultCatalogRoute) GetServices(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	services, apierr := r.CatalogService.ListServices(c.Request().Context(), actor)
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"services": services}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCatalogRoute) CreateService(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	service, apierr := r.CatalogService.CreateService(c.Request().Context(), actor, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, service)
}

func (r *DefaultCatalogRoute) UpdateService(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	service, apierr := r.CatalogService.UpdateService(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, service)
}

func (r *DefaultCatalogRoute) DeleteService(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	if apierr = r.CatalogService.DeleteService(c.Request().Context(), actor, id); apierr != nil {
		return fail(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *DefaultCatalogRoute) GetProjects(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	projects, apierr := r.CatalogService.ListProjects(c.Request().Context(), actor, c.QueryParam("status"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"projects": projects}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCatalogRoute) CreateProject(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	project, apierr := r.CatalogService.CreateProject(c.Request().Context(), actor, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, project)
}

func (r *DefaultCatalogRoute) UpdateProject(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	project, apierr := r.CatalogService.UpdateProject(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, project)
}

func (r *DefaultCatalogRoute) DeleteProject(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	if apierr = r.CatalogService.DeleteProject(c.Request().Context(), actor, id); apierr != nil {
		return fail(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
