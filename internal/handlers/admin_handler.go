package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/models"
	"github.com/taleb-app/backend/internal/storage"
)

// AdminHandler handles the moderation surface: pending report triage
// and aggregate stats. The routes it registers must sit behind the
// RequireAdmin middleware.
type AdminHandler struct {
	store storage.Storage
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store storage.Storage) *AdminHandler {
	return &AdminHandler{store: store}
}

// RegisterAdminRoutes registers admin routes on an admin-gated group.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/reports", h.GetReports)
	g.PATCH("/reports/:id", h.ResolveReport)
	g.GET("/stats", h.GetStats)
}

// GetReports returns the pending reports with reporter and post joined.
func (h *AdminHandler) GetReports(c echo.Context) error {
	reports, err := h.store.GetReports(c.Request().Context())
	if err != nil {
		return storageError(err, "Reports not found", "Failed to fetch reports")
	}
	return c.JSON(http.StatusOK, reports)
}

// ResolveReport moves a report to resolved or dismissed.
func (h *AdminHandler) ResolveReport(c echo.Context) error {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid report id")
	}

	var req models.ResolveReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.store.ResolveReport(c.Request().Context(), reportID, req.Status); err != nil {
		return storageError(err, "Report not found", "Failed to resolve report")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Report resolved successfully"})
}

// adminStats is the aggregate counters payload.
type adminStats struct {
	TotalStudents int `json:"totalStudents"`
	TotalPosts    int `json:"totalPosts"`
	ReportedPosts int `json:"reportedPosts"`
}

// GetStats returns the aggregate counters for the admin dashboard.
func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.store.GetUsersCount(ctx)
	if err != nil {
		return storageError(err, "", "Failed to fetch admin stats")
	}
	posts, err := h.store.GetPostsCount(ctx)
	if err != nil {
		return storageError(err, "", "Failed to fetch admin stats")
	}
	reports, err := h.store.GetReportsCount(ctx)
	if err != nil {
		return storageError(err, "", "Failed to fetch admin stats")
	}

	return c.JSON(http.StatusOK, adminStats{
		TotalStudents: users,
		TotalPosts:    posts,
		ReportedPosts: reports,
	})
}
