package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type BiddingService interface {
	ListBiddings(ctx context.Context, actor *entity.Actor, status string) ([]*contract.BiddingResponse, apierror.ErrorResponse)
	GetBidding(ctx context.Context, actor *entity.Actor, id int64) (*contract.BiddingResponse, apierror.ErrorResponse)
	CreateBidding(ctx context.Context, actor *entity.Actor, req *contract.BiddingRequest) (*contract.BiddingResponse, apierror.ErrorResponse)
	UpdateBidding(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateBiddingRequest) (*contract.BiddingResponse, apierror.ErrorResponse)
	AddMovement(ctx context.Context, actor *entity.Actor, id int64, req *contract.MovementRequest) (*contract.BiddingResponse, apierror.ErrorResponse)
	AddDocument(ctx context.Context, actor *entity.Actor, id int64, req *contract.BiddingDocumentRequest, fileHeader *multipart.FileHeader) (*contract.BiddingDocumentResponse, apierror.ErrorResponse)
	ChangeDocumentStatus(ctx context.Context, actor *entity.Actor, biddingID, documentID int64, req *contract.BiddingDocumentStatusRequest) (*contract.BiddingDocumentResponse, apierror.ErrorResponse)
}

type DefaultBiddingRoute struct {
	BiddingService BiddingService
}

func NewBiddingDefault(biddingService BiddingService) *DefaultBiddingRoute {
	return &DefaultBiddingRoute{BiddingService: biddingService}
}

func (b *DefaultBiddingRoute) GetBiddings(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	biddings, apierr := b.BiddingService.ListBiddings(c.Request().Context(), actor, c.QueryParam("status"))
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"biddings": biddings}
	return c.JSON(http.StatusOK, &resp)
}

func (b *DefaultBiddingRoute) GetBidding(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	bidding, apierr := b.BiddingService.GetBidding(c.Request().Context(), actor, id)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, bidding)
}

func (b *DefaultBiddingRoute) CreateBidding(c echo.Context) error {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.BiddingRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	bidding, apierr := b.BiddingService.CreateBidding(c.Request().Context(), actor, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, bidding)
}

func (b *DefaultBiddingRoute) UpdateBidding(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.UpdateBiddingRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	bidding, apierr := b.BiddingService.UpdateBidding(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, bidding)
}

func (b *DefaultBiddingRoute) AddMovement(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.MovementRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	bidding, apierr := b.BiddingService.AddMovement(c.Request().Context(), actor, id, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, bidding)
}

// AddDocument expects a multipart body: json_payload with the document
// metadata and a "file" part.
func (b *DefaultBiddingRoute) AddDocument(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.BiddingDocumentRequest
	fileHeader, apierr := bindMultipart(c, &req, true)
	if apierr != nil {
		return fail(c, apierr)
	}

	doc, apierr := b.BiddingService.AddDocument(c.Request().Context(), actor, id, &req, fileHeader)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (b *DefaultBiddingRoute) ChangeDocumentStatus(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	docID, apierr := paramID(c, "docId")
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.BiddingDocumentStatusRequest
	if err := c.Bind(&req); err != nil {
		return malformed(c)
	}

	doc, apierr := b.BiddingService.ChangeDocumentStatus(c.Request().Context(), actor, id, docID, &req)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, doc)
}
