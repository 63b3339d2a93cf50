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

type AreaService interface {
	ListAreas(ctx context.Context, actor *entity.Actor) ([]*contract.AreaResponse, apierror.ErrorResponse)
	CreateArea(ctx context.Context, actor *entity.Actor, req *contract.AreaRequest) (*contract.AreaResponse, apierror.ErrorResponse)
	UpdateArea(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateAreaRequest) (*contract.AreaResponse, apierror.ErrorResponse)
	DeleteArea(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse
	CreateCategory(ctx context.Context, actor *entity.Actor, areaID int64, req *contract.CategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	UpdateCategory(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	DeleteCategory(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse
}

type DefaultAreaRoute struct {
	AreaService AreaService
}

func NewAreaDefault(areaService AreaService) *DefaultAreaRoute {
	return &DefaultAreaRoute{AreaService: areaService}
}

func (a *DefaultAreaRoute) GetAreas(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	areas, apierr := a.AreaService.ListAreas(c.Request().Context(), actor)
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"areas": areas}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAreaRoute) CreateArea(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.AreaRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	area, apierr := a.AreaService.CreateArea(c.Request().Context(), actor, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, area)
}

func (a *DefaultAreaRoute) UpdateArea(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateAreaRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	area, apierr := a.AreaService.UpdateArea(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, area)
}

func (a *DefaultAreaRoute) DeleteArea(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	if apierr = a.AreaService.DeleteArea(c.Request().Context(), actor, id); apierr != nil {
		return fail(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *DefaultAreaRoute) CreateCategory(c echo.Context) error {
	actor, areaID, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	category, apierr := a.AreaService.CreateCategory(c.Request().Context(), actor, areaID, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, category)
}

func (a *DefaultAreaRoute) UpdateCategory(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	category, apierr := a.AreaService.UpdateCategory(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (a *DefaultAreaRoute) DeleteCategory(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	if apierr = a.AreaService.DeleteCategory(c.Request().Context(), actor, id); apierr != nil {
		return fail(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
