package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/models"
	"github.com/taleb-app/backend/internal/storage"
)

// ReportHandler handles abuse reports filed by users. Triage of the
// reports lives on the admin surface.
type ReportHandler struct {
	store storage.Storage
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store storage.Storage) *ReportHandler {
	return &ReportHandler{store: store}
}

// RegisterReportRoutes registers report-related routes.
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/posts/:id/report", h.CreateReport)
}

// CreateReport files a report against a post and flags the post.
func (h *ReportHandler) CreateReport(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.store.CreateReport(c.Request().Context(), middleware.UserID(c), models.InsertReport{
		PostID: postID,
		Reason: req.Reason,
	})
	if err != nil {
		return storageError(err, "Post not found", "Failed to create report")
	}
	return c.JSON(http.StatusCreated, report)
}
