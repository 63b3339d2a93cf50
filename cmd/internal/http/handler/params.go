package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	payloadField = "json_payload"
	fileField    = "file"
)

func paramID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.NewInvalidParamTypeError(name, "int")
	}
	return id, nil
}

// actorAndID reads the authenticated actor and the ":id" path parameter.
func actorAndID(c echo.Context) (*entity.Actor, int64, apierror.ErrorResponse) {
	actor, apierr := utils.GetActorFromContext(c)
	if apierr != nil {
		return nil, 0, apierr
	}

	id, apierr := paramID(c, "id")
	if apierr != nil {
		return nil, 0, apierr
	}
	return actor, id, nil
}

// bindMultipart decodes the json_payload form field into req and returns the
// uploaded file. An absent payload is accepted unless payloadRequired is set.
func bindMultipart(c echo.Context, req any, payloadRequired bool) (*multipart.FileHeader, apierror.ErrorResponse) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return nil, apierror.InvalidMediaTypeError
	}

	jsonPayload := strings.TrimSpace(c.FormValue(payloadField))
	if jsonPayload == "" && payloadRequired {
		return nil, apierror.FormJSONRequiredError
	}

	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), req); err != nil {
			return nil, apierror.MalformedBodyError
		}
	}

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		return nil, apierror.MissingFileError
	}
	return fileHeader, nil
}

func fail(c echo.Context, apierr apierror.ErrorResponse) error {
	return c.JSON(apierr.Code(), apierr)
}

func malformed(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
}
