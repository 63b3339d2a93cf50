// Package routes mounts every handler on the echo instance.
package routes

import (
	"net/http"
	"portalmunicipal/cmd/internal/http/handler"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Public    *handler.DefaultPublicRoute
	Documents *handler.DefaultDocumentRoute
	Versions  *handler.DefaultVersionRoute
	Areas     *handler.DefaultAreaRoute
	Biddings  *handler.DefaultBiddingRoute
	News      *handler.DefaultNewsRoute
	Catalog   *handler.DefaultCatalogRoute
}

// Register mounts the public portal routes and, behind auth, the admin API.
func Register(e *echo.Echo, r *Routes, auth echo.MiddlewareFunc) {
	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	// Public portal
	e.GET("/api/document-areas", r.Public.GetAreas)
	e.GET("/api/documentos", r.Public.GetDocuments)
	e.GET("/api/documentos/:id", r.Public.GetDocument)
	e.GET("/api/licitacoes", r.Public.GetBiddings)
	e.GET("/api/licitacoes/:id", r.Public.GetBidding)
	e.GET("/api/noticias", r.Public.GetNews)
	e.GET("/api/noticias/:slug", r.Public.GetNewsItem)
	e.GET("/api/servicos", r.Public.GetServices)
	e.GET("/api/projetos", r.Public.GetProjects)

	admin := e.Group("/api", auth)

	// Documents
	admin.GET("/documents", r.Documents.GetDocuments)
	admin.POST("/documents", r.Documents.CreateDocument)
	admin.GET("/documents/:id", r.Documents.GetDocument)
	admin.PATCH("/documents/:id", r.Documents.UpdateDocument)
	admin.POST("/documents/:id/submit", r.Documents.Submit)
	admin.POST("/documents/:id/approve", r.Documents.Approve)
	admin.POST("/documents/:id/reject", r.Documents.Reject)
	admin.POST("/documents/:id/unpublish", r.Documents.Unpublish)
	admin.POST("/documents/:id/restore", r.Documents.Restore)
	admin.GET("/documents/:id/history", r.Documents.GetHistory)

	// Versions
	admin.GET("/documents/:id/versions", r.Versions.GetVersions)
	admin.POST("/documents/:id/versions", r.Versions.UploadVersion)
	admin.PATCH("/documents/:id/versions/:versionId/set-current", r.Versions.SetCurrent)

	// Areas and categories
	admin.GET("/areas", r.Areas.GetAreas)
	admin.POST("/areas", r.Areas.CreateArea)
	admin.PATCH("/areas/:id", r.Areas.UpdateArea)
	admin.DELETE("/areas/:id", r.Areas.DeleteArea)
	admin.POST("/areas/:id/categories", r.Areas.CreateCategory)
	admin.PATCH("/categories/:id", r.Areas.UpdateCategory)
	admin.DELETE("/categories/:id", r.Areas.DeleteCategory)

	// Biddings
	admin.GET("/biddings", r.Biddings.GetBiddings)
	admin.POST("/biddings", r.Biddings.CreateBidding)
	admin.GET("/biddings/:id", r.Biddings.GetBidding)
	admin.PATCH("/biddings/:id", r.Biddings.UpdateBidding)
	admin.POST("/biddings/:id/movements", r.Biddings.AddMovement)
	admin.POST("/biddings/:id/documents", r.Biddings.AddDocument)
	admin.PATCH("/biddings/:id/documents/:docId/status", r.Biddings.ChangeDocumentStatus)

	// News
	admin.GET("/news", r.News.GetNews)
	admin.POST("/news", r.News.CreateNews)
	admin.PATCH("/news/:id", r.News.UpdateNews)
	admin.DELETE("/news/:id", r.News.DeleteNews)
	admin.POST("/news/:id/publish", r.News.PublishNews)

	// Services and projects
	admin.GET("/services", r.Catalog.GetServices)
	admin.POST("/services", r.Catalog.CreateService)
	admin.PATCH("/services/:id", r.Catalog.UpdateService)
	admin.DELETE("/services/:id", r.Catalog.DeleteService)
	admin.GET("/projects", r.Catalog.GetProjects)
	admin.POST("/projects", r.Catalog.CreateProject)
	admin.PATCH("/projects/:id", r.Catalog.UpdateProject)
	admin.DELETE("/projects/:id", r.Catalog.DeleteProject)
}

func healthCheckRoute(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
