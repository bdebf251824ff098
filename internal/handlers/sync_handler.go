package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"customer-sync/internal/dto"
	apierrors "customer-sync/internal/errors"
	"customer-sync/internal/models"
	"customer-sync/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultSyncRunsLimit = 20

// SyncHandler triggers synchronization runs and exposes their history
type SyncHandler struct {
	syncService services.SyncServiceInterface
	logger      *slog.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService services.SyncServiceInterface, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// TriggerSync runs a full synchronization and reports the processed count
// @Summary Trigger customer synchronization
// @Tags Sync
// @Produce json
// @Success 200 {object} dto.SyncResponse
// @Failure 429 {object} errors.ErrorResponse "SYSTEM_006 - Rate limit exceeded"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_007 - Upstream failure, SYSTEM_002 - Storage failure"
// @Router /api/v1/sync [post]
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	ctx := c.Request().Context()

	h.logger.InfoContext(ctx, "sync requested",
		slog.String("trace_id", getTraceID(c)),
		slog.String("client_ip", getClientIP(c)),
	)

	run, err := h.syncService.Run(ctx)
	if err != nil {
		var opts []apierrors.ErrorOption
		if run != nil {
			opts = append(opts, apierrors.WithDetails("sync_run_id: "+run.ID.String()))
		}

		if errors.Is(err, services.ErrFetchFailed) {
			return SendUpstreamError(c, err, opts...)
		}
		return SendDatabaseError(c, err, opts...)
	}

	return c.JSON(http.StatusOK, dto.SyncResponse{
		Status:           "success",
		RecordsProcessed: run.RecordsProcessed,
	})
}

// ListSyncRuns returns recent synchronization runs, newest first
// @Summary List sync runs
// @Tags Sync
// @Produce json
// @Param limit query int false "Maximum runs to return (max 100)" default(20)
// @Success 200 {object} dto.ListSyncRunsResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid limit"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_002 - Database error"
// @Router /api/v1/sync/runs [get]
func (h *SyncHandler) ListSyncRuns(c echo.Context) error {
	var req dto.ListSyncRunsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails("limit must be an integer"))
	}

	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	if req.Limit == 0 {
		req.Limit = defaultSyncRunsLimit
	}

	runs, err := h.syncService.ListRuns(c.Request().Context(), req.Limit)
	if err != nil {
		return SendDatabaseError(c, err)
	}

	if runs == nil {
		runs = []models.SyncRun{}
	}

	return c.JSON(http.StatusOK, dto.ListSyncRunsResponse{Data: runs})
}

// GetSyncRun returns a single synchronization run
// @Summary Get sync run
// @Tags Sync
// @Produce json
// @Param id path string true "Sync run ID"
// @Success 200 {object} models.SyncRun
// @Failure 400 {object} errors.ErrorResponse "SYNC_002 - Invalid sync run ID"
// @Failure 404 {object} errors.ErrorResponse "SYNC_001 - Sync run not found"
// @Router /api/v1/sync/runs/{id} [get]
func (h *SyncHandler) GetSyncRun(c echo.Context) error {
	req := dto.GetSyncRunRequest{ID: c.Param("id")}
	if err := c.Validate(req); err != nil {
		return SendError(c, apierrors.SyncRunInvalidID)
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return SendError(c, apierrors.SyncRunInvalidID)
	}

	run, err := h.syncService.GetRun(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSyncRunNotFound) {
			return SendError(c, apierrors.SyncRunNotFound)
		}
		return SendDatabaseError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}
