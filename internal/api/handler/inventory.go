package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kedr891/steam-inventory/internal/api/middleware"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
)

type fetchRunner interface {
	Submit(ctx context.Context, steamID string, appID int) (uuid.UUID, <-chan error)
}

type inventoryExporter interface {
	Export(ctx context.Context, steamID string) ([]entity.PricedInventoryGroup, error)
	ArtifactPath(steamID, format string) (string, error)
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

type inventoryParams struct {
	SteamID string `validate:"required,len=17,numeric"`
	AppID   int    `validate:"required,gt=0"`
}

type steamIDParams struct {
	SteamID string `validate:"required,len=17,numeric"`
}

type InventoryHandler struct {
	runner   fetchRunner
	exporter inventoryExporter
	health   healthChecker
	validate *validator.Validate
	log      domain.Logger

	supportedApps map[int]struct{}
	ownerOnly     bool
}

type InventoryOption func(*InventoryHandler)

// WithSupportedApps - без списка принимается любой appid.
func WithSupportedApps(appIDs []int) InventoryOption {
	return func(h *InventoryHandler) {
		h.supportedApps = make(map[int]struct{}, len(appIDs))
		for _, id := range appIDs {
			h.supportedApps[id] = struct{}{}
		}
	}
}

// WithOwnerOnlyTrigger - обновлять инвентарь может только его владелец.
func WithOwnerOnlyTrigger(enabled bool) InventoryOption {
	return func(h *InventoryHandler) {
		h.ownerOnly = enabled
	}
}

func NewInventoryHandler(
	runner fetchRunner,
	exporter inventoryExporter,
	health healthChecker,
	log domain.Logger,
	opts ...InventoryOption,
) *InventoryHandler {
	h := &InventoryHandler{
		runner:   runner,
		exporter: exporter,
		health:   health,
		validate: validator.New(),
		log:      log,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// TriggerFetch - загрузить инвентарь пользователя в базу
// @Router /inventory/{steamid}/{appid} [get]
func (h *InventoryHandler) TriggerFetch(c *gin.Context) {
	params, ok := h.bindInventoryParams(c)
	if !ok {
		return
	}

	if h.ownerOnly && c.GetString(middleware.ContextSteamID) != params.SteamID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jobID, done := h.runner.Submit(c.Request.Context(), params.SteamID, params.AppID)

	if c.Query("async") == "true" {
		select {
		case err := <-done:
			// Отказ приходит сразу, если задача не ставилась
			if err != nil {
				h.respondFetchError(c, params, err)
				return
			}
		default:
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Inventory fetch started", "job_id": jobID})
		return
	}

	select {
	case err := <-done:
		if err != nil {
			h.respondFetchError(c, params, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Inventory saved to database"})
	case <-c.Request.Context().Done():
		// Клиент ушёл, задача доработает сама
		h.log.Info("Client gone before inventory fetch finished",
			"job_id", jobID, "steam_id", params.SteamID, "app_id", params.AppID)
	}
}

func (h *InventoryHandler) respondFetchError(c *gin.Context, params inventoryParams, err error) {
	if errors.Is(err, domain.ErrFetchInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "Inventory fetch already in progress"})
		return
	}

	h.log.Error("Failed to process inventory",
		"steam_id", params.SteamID, "app_id", params.AppID, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process inventory"})
}

// Export - инвентарь с ценами во всех валютах
// @Router /export-inventory/{steamid} [get]
func (h *InventoryHandler) Export(c *gin.Context) {
	params := steamIDParams{SteamID: c.Param("steamid")}
	if err := h.validate.Struct(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid steamid"})
		return
	}

	groups, err := h.exporter.Export(c.Request.Context(), params.SteamID)
	if err != nil {
		h.log.Error("Failed to export inventory", "steam_id", params.SteamID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export inventory"})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// Artifact - сохранённый файл экспорта
// @Param format query string false "json или xlsx"
// @Router /export-inventory/{steamid}/artifact [get]
func (h *InventoryHandler) Artifact(c *gin.Context) {
	params := steamIDParams{SteamID: c.Param("steamid")}
	if err := h.validate.Struct(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid steamid"})
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown format"})
		return
	}

	path, err := h.exporter.ArtifactPath(params.SteamID, format)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Export not found"})
			return
		}
		h.log.Error("Failed to resolve export artifact", "steam_id", params.SteamID, "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read export"})
		return
	}

	c.FileAttachment(path, params.SteamID+"."+format)
}

// Health - liveness и доступность хранилища
// @Router /health [get]
func (h *InventoryHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.HealthCheck(ctx); err != nil {
		h.log.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InventoryHandler) bindInventoryParams(c *gin.Context) (inventoryParams, bool) {
	appID, err := strconv.Atoi(c.Param("appid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appid"})
		return inventoryParams{}, false
	}

	params := inventoryParams{SteamID: c.Param("steamid"), AppID: appID}
	if err := h.validate.Struct(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid steamid or appid"})
		return inventoryParams{}, false
	}

	if h.supportedApps != nil {
		if _, ok := h.supportedApps[params.AppID]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported appid"})
			return inventoryParams{}, false
		}
	}

	return params, true
}
