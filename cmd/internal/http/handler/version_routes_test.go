package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVersionService struct {
	documentID int64
	versionID  int64
	notes      string
	fileName   string
}

func (f *fakeVersionService) ListVersions(_ context.Context, _ *entity.Actor, documentID int64) ([]*contract.VersionResponse, apierror.ErrorResponse) {
	f.documentID = documentID
	return []*contract.VersionResponse{{ID: 1, DocumentID: documentID, VersionNumber: 1}}, nil
}

func (f *fakeVersionService) UploadVersion(_ context.Context, _ *entity.Actor, documentID int64, req *contract.VersionRequest, fileHeader *multipart.FileHeader) (*contract.VersionResponse, apierror.ErrorResponse) {
	f.documentID = documentID
	f.notes = req.Notes
	f.fileName = fileHeader.Filename
	return &contract.VersionResponse{ID: 2, DocumentID: documentID, VersionNumber: 2, IsCurrent: true}, nil
}

func (f *fakeVersionService) SetCurrentVersion(_ context.Context, _ *entity.Actor, documentID, versionID int64) (*contract.VersionResponse, apierror.ErrorResponse) {
	if versionID == 404 {
		return nil, apierror.VersionNotFoundError
	}
	f.documentID = documentID
	f.versionID = versionID
	return &contract.VersionResponse{ID: versionID, DocumentID: documentID, IsCurrent: true}, nil
}

func newContext(req *http.Request, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(utils.ActorContextKey, &entity.Actor{UserID: 1, Role: entity.RoleEditor})

	for name, value := range params {
		c.SetParamNames(append(c.ParamNames(), name)...)
		c.SetParamValues(append(c.ParamValues(), value)...)
	}
	return c, rec
}

func multipartBody(t *testing.T, payload string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if payload != "" {
		require.NoError(t, w.WriteField(payloadField, payload))
	}
	if withFile {
		part, err := w.CreateFormFile(fileField, "lei.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadVersion(t *testing.T) {
	svc := &fakeVersionService{}
	route := NewVersionDefault(svc)

	body, contentType := multipartBody(t, `{"notes":"Texto consolidado"}`, true)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/9/versions", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newContext(req, map[string]string{"id": "9"})

	require.NoError(t, route.UploadVersion(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(9), svc.documentID)
	assert.Equal(t, "Texto consolidado", svc.notes)
	assert.Equal(t, "lei.pdf", svc.fileName)

	var resp contract.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsCurrent)
}

func TestUploadVersion_BadRequests(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		body        func(t *testing.T) (*bytes.Buffer, string)
		status      int
		messagePart string
	}{
		{
			name: "json body",
			id:   "9",
			body: func(*testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(`{"notes":"x"}`), echo.MIMEApplicationJSON
			},
			status: http.StatusUnsupportedMediaType,
		},
		{
			name: "missing file",
			id:   "9",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, `{"notes":"x"}`, false)
			},
			status:      http.StatusBadRequest,
			messagePart: "file",
		},
		{
			name: "broken payload",
			id:   "9",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, `{"notes":`, true)
			},
			status:      http.StatusBadRequest,
			messagePart: "Malformed",
		},
		{
			name: "non numeric id",
			id:   "abc",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "", true)
			},
			status:      http.StatusBadRequest,
			messagePart: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := tt.body(t)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			c, rec := newContext(req, map[string]string{"id": tt.id})

			require.NoError(t, NewVersionDefault(&fakeVersionService{}).UploadVersion(c))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.messagePart)
		})
	}
}

func TestSetCurrent(t *testing.T) {
	svc := &fakeVersionService{}
	route := NewVersionDefault(svc)

	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	c, rec := newContext(req, map[string]string{"id": "3", "versionId": "12"})
	require.NoError(t, route.SetCurrent(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.documentID)
	assert.Equal(t, int64(12), svc.versionID)

	req = httptest.NewRequest(http.MethodPatch, "/", nil)
	c, rec = newContext(req, map[string]string{"id": "3", "versionId": "404"})
	require.NoError(t, route.SetCurrent(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVersions_RequiresActor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, NewVersionDefault(&fakeVersionService{}).GetVersions(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
