package handler

import (
	"context"
	"net/http"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/utils/apierror"
	"strings"

	"github.com/labstack/echo/v4"
)

type PublicAreaService interface {
	ListPublicAreas(ctx context.Context) ([]*contract.AreaResponse, apierror.ErrorResponse)
}

type PublicDocumentService interface {
	ListPublished(ctx context.Context, docContext, category string) ([]*contract.DocumentResponse, apierror.ErrorResponse)
	GetPublished(ctx context.Context, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
}

type PublicBiddingService interface {
	ListPublic(ctx context.Context, status string) ([]*contract.BiddingResponse, apierror.ErrorResponse)
	GetPublic(ctx context.Context, id int64) (*contract.BiddingResponse, apierror.ErrorResponse)
}

type PublicNewsService interface {
	ListPublic(ctx context.Context) ([]*contract.NewsResponse, apierror.ErrorResponse)
	GetPublicBySlug(ctx context.Context, slug string) (*contract.NewsResponse, apierror.ErrorResponse)
}

type PublicCatalogService interface {
	ListPublicServices(ctx context.Context) ([]*contract.ServiceResponse, apierror.ErrorResponse)
	ListPublicProjects(ctx context.Context, status string) ([]*contract.ProjectResponse, apierror.ErrorResponse)
}

// DefaultPublicRoute serves the unauthenticated portal pages. Nothing here
// exposes drafts or staff identifiers.
type DefaultPublicRoute struct {
	Areas     PublicAreaService
	Documents PublicDocumentService
	Biddings  PublicBiddingService
	News      PublicNewsService
	Catalog   PublicCatalogService
}

func NewPublicDefault(
	areas PublicAreaService,
	documents PublicDocumentService,
	biddings PublicBiddingService,
	news PublicNewsService,
	catalog PublicCatalogService,
) *DefaultPublicRoute {
	return &DefaultPublicRoute{
		Areas:     areas,
		Documents: documents,
		Biddings:  biddings,
		News:      news,
		Catalog:   catalog,
	}
}

func (p *DefaultPublicRoute) GetAreas(c echo.Context) error {
	areas, apierr := p.Areas.ListPublicAreas(c.Request().Context())
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"areas": areas}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPublicRoute) GetDocuments(c echo.Context) error {
	docs, apierr := p.Documents.ListPublished(c.Request().Context(), c.QueryParam("context"), c.QueryParam("category"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"documents": docs}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPublicRoute) GetDocument(c echo.Context) error {
	id, apierr := paramID(c, "id")
	if apierr != nil {
		return fail(c, apierr)
	}

	doc, apierr := p.Documents.GetPublished(c.Request().Context(), id)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, doc)
}

func (p *DefaultPublicRoute) GetBiddings(c echo.Context) error {
	biddings, apierr := p.Biddings.ListPublic(c.Request().Context(), c.QueryParam("status"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"biddings": biddings}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPublicRoute) GetBidding(c echo.Context) error {
	id, apierr := paramID(c, "id")
	if apierr != nil {
		return fail(c, apierr)
	}

	bidding, apierr := p.Biddings.GetPublic(c.Request().Context(), id)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, bidding)
}

func (p *DefaultPublicRoute) GetNews(c echo.Context) error {
	news, apierr := p.News.ListPublic(c.Request().Context())
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"news": news}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPublicRoute) GetNewsItem(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return fail(c, apierror.NewsNotFoundError)
	}

	news, apierr := p.News.GetPublicBySlug(c.Request().Context(), slug)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, news)
}

func (p *DefaultPublicRoute) GetServices(c echo.Context) error {
	services, apierr := p.Catalog.ListPublicServices(c.Request().Context())
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"services": services}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPublicRoute) GetProjects(c echo.Context) error {
	projects, apierr := p.Catalog.ListPublicProjects(c.Request().Context(), c.QueryParam("status"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"projects": projects}
	return c.JSON(http.StatusOK, &resp)
}
