package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type VersionService interface {
	ListVersions(ctx context.Context, actor *entity.Actor, documentID int64) ([]*contract.VersionResponse, apierror.ErrorResponse)
	UploadVersion(ctx context.Context, actor *entity.Actor, documentID int64, req *contract.VersionRequest, fileHeader *multipart.FileHeader) (*contract.VersionResponse, apierror.ErrorResponse)
	SetCurrentVersion(ctx context.Context, actor *entity.Actor, documentID, versionID int64) (*contract.VersionResponse, apierror.ErrorResponse)
}

type DefaultVersionRoute struct {
	VersionService VersionService
}

func NewVersionDefault(versionService VersionService) *DefaultVersionRoute {
	return &DefaultVersionRoute{VersionService: versionService}
}

func (v *DefaultVersionRoute) GetVersions(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	versions, apierr := v.VersionService.ListVersions(c.Request().Context(), actor, id)
	if apierr != nil {
		return fail(c, apierr)
	}

	resp := echo.Map{"versions": versions}
	return c.JSON(http.StatusOK, &resp)
}

// UploadVersion expects a multipart body with a "file" part and an optional
// json_payload carrying the version notes.
func (v *DefaultVersionRoute) UploadVersion(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	var req contract.VersionRequest
	fileHeader, apierr := bindMultipart(c, &req, false)
	if apierr != nil {
		return fail(c, apierr)
	}

	version, apierr := v.VersionService.UploadVersion(c.Request().Context(), actor, id, &req, fileHeader)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusCreated, version)
}

func (v *DefaultVersionRoute) SetCurrent(c echo.Context) error {
	actor, id, apierr := actorAndID(c)
	if apierr != nil {
		return fail(c, apierr)
	}

	versionID, apierr := paramID(c, "versionId")
	if apierr != nil {
		return fail(c, apierr)
	}

	version, apierr := v.VersionService.SetCurrentVersion(c.Request().Context(), actor, id, versionID)
	if apierr != nil {
		return fail(c, apierr)
	}
	return c.JSON(http.StatusOK, version)
}
