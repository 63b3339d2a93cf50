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

type NewsService interface {
	ListNews(ctx context.Context, actor *entity.Actor, status string) ([]*contract.NewsResponse, apierror.ErrorResponse)
	CreateNews(ctx context.Context, actor *entity.Actor, req *contract.NewsRequest) (*contract.NewsResponse, apierror.ErrorResponse)
	UpdateNews(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateNewsRequest) (*contract.NewsResponse, apierror.ErrorResponse)
	PublishNews(ctx context.Context, actor *entity.Actor, id int64, req *contract.PublishNewsRequest) (*contract.NewsResponse, apierror.ErrorResponse)
	DeleteNews(ctx context.Context, actor *entity.Actor, id int64) apierror.ErrorResponse
}

type DefaultNewsRoute struct {
	NewsService NewsService
}

func NewNewsDefault(newsService NewsService) *DefaultNewsRoute {
	return &DefaultNewsRoute{NewsService: newsService}
}

func (n *DefaultNewsRoute) GetNews(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	news, apierr := n.NewsService.ListNews(c.Request().Context(), actor, c.QueryParam("status"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"news": news}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNewsRoute) CreateNews(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.NewsRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	news, apierr := n.NewsService.CreateNews(c.Request().Context(), actor, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, news)
}

func (n *DefaultNewsRoute) UpdateNews(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateNewsRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	news, apierr := n.NewsService.UpdateNews(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, news)
}

// PublishNews accepts an empty body, which publishes right away.
func (n *DefaultNewsRoute) PublishNews(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.PublishNewsRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return malformed(c)
		}
	}

	news, apierr := n.NewsService.PublishNews(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, news)
}

func (n *DefaultNewsRoute) DeleteNews(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	if apierr = n.NewsService.DeleteNews(c.Request().Context(), actor, id); apierr != nil {
		return fail(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
