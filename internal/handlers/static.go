package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// HandleMedia serves files from the media directory.
// GET /media/*
func (h *Handler) HandleMedia(c echo.Context) error {
	name, err := pathParam(c, "*")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file path")
	}

	// Prevent directory traversal attacks
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file path")
	}
	if h.mediaDir == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Media not available")
	}

	fullPath := filepath.Join(h.mediaDir, filepath.FromSlash(name))
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return echo.NewHTTPError(http.StatusNotFound, "Media not found")
	}

	return c.File(fullPath)
}
