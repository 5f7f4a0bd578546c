package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/satstress/internal/usecase"
)

// Handler handles HTTP requests for satellite stresses.
type Handler struct {
	stressUC *usecase.StressUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(stressUC *usecase.StressUseCase) *Handler {
	return &Handler{
		stressUC: stressUC,
	}
}

// GetSatellite handles GET /v1/satellite.
func (h *Handler) GetSatellite(c *gin.Context) {
	if c.Query("format") == "text" {
		c.String(http.StatusOK, h.stressUC.SatelliteText())
		return
	}
	c.JSON(http.StatusOK, h.stressUC.Satellite())
}

// GetForcings handles GET /v1/forcings.
func (h *Handler) GetForcings(c *gin.Context) {
	if c.Query("format") == "text" {
		c.String(http.StatusOK, h.stressUC.ForcingsText())
		return
	}
	forcings := h.stressUC.Forcings()
	c.JSON(http.StatusOK, gin.H{
		"forcings": forcings,
		"count":    len(forcings),
	})
}

// GetStress handles GET /v1/stress.
func (h *Handler) GetStress(c *gin.Context) {
	// Parse query parameters.
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	timeStr := c.DefaultQuery("t", "0")
	forcingsStr := c.Query("forcings")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon parameters are required"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
		return
	}
	t, err := strconv.ParseFloat(timeStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid time (seconds after periapse): %v", err)})
		return
	}

	req := usecase.StressRequest{Lat: lat, Lon: lon, Time: t}
	if forcingsStr != "" {
		for _, name := range strings.Split(forcingsStr, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Forcings = append(req.Forcings, name)
			}
		}
	}

	// Execute use case.
	response, err := h.stressUC.Stress(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"system_id": h.stressUC.Body().SystemID,
		"time":      time.Now().UTC().Format(time.RFC3339),
	})
}
