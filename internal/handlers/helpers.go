package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/storage"
)

// storageError maps a storage failure to the HTTP error contract:
// ErrNotFound becomes a 404 with notFoundMsg, ErrInvalidStatus a 400,
// anything else a logged 500 with a generic message.
func storageError(err error, notFoundMsg, internalMsg string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, storage.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s: %v", internalMsg, err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg)
	}
}
