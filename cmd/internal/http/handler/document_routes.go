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

type DocumentService interface {
	ListDocuments(ctx context.Context, actor *entity.Actor, status, docContext, category string) ([]*contract.DocumentResponse, apierror.ErrorResponse)
	GetDocument(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
	CreateDocument(ctx context.Context, actor *entity.Actor, req *contract.DocumentRequest) (*contract.DocumentResponse, apierror.ErrorResponse)
	UpdateDocument(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateDocumentRequest) (*contract.DocumentResponse, apierror.ErrorResponse)
	Submit(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
	Approve(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
	Reject(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
	Unpublish(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
	Restore(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)
	GetHistory(ctx context.Context, actor *entity.Actor, id int64) ([]*contract.AuditResponse, apierror.ErrorResponse)
}

type DefaultDocumentRoute struct {
	DocumentService DocumentService
}

func NewDocumentDefault(documentService DocumentService) *DefaultDocumentRoute {
	return &DefaultDocumentRoute{DocumentService: documentService}
}

func (d *DefaultDocumentRoute) GetDocuments(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	docs, apierr := d.DocumentService.ListDocuments(c.Request().Context(), actor, c.QueryParam("status"), c.QueryParam("context"), c.QueryParam("category"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"documents": docs}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDocumentRoute) GetDocument(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	doc, apierr := d.DocumentService.GetDocument(c.Request().Context(), actor, id)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, doc)
}

func (d *DefaultDocumentRoute) CreateDocument(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.DocumentRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	doc, apierr := d.DocumentService.CreateDocument(c.Request().Context(), actor, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (d *DefaultDocumentRoute) UpdateDocument(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	doc, apierr := d.DocumentService.UpdateDocument(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, doc)
}

func (d *DefaultDocumentRoute) Submit(c echo.Context) error {
	return d.transition(c, d.DocumentService.Submit)
}

func (d *DefaultDocumentRoute) Approve(c echo.Context) error {
	return d.transition(c, d.DocumentService.Approve)
}

func (d *DefaultDocumentRoute) Reject(c echo.Context) error {
	return d.transition(c, d.DocumentService.Reject)
}

func (d *DefaultDocumentRoute) Unpublish(c echo.Context) error {
	return d.transition(c, d.DocumentService.Unpublish)
}

func (d *DefaultDocumentRoute) Restore(c echo.Context) error {
	return d.transition(c, d.DocumentService.Restore)
}

func (d *DefaultDocumentRoute) GetHistory(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	history, apierr := d.DocumentService.GetHistory(c.Request().Context(), actor, id)
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"history": history}
	return c.JSON(http.StatusOK, &resp)
}

type transitionFunc func(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse)

func (d *DefaultDocumentRoute) transition(c echo.Context, fn transitionFunc) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	doc, apierr := fn(c.Request().Context(), actor, id)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, doc)
}
