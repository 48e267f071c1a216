package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/outfit/partner-api/internal/infrastructure/scheduler"
	"github.com/outfit/partner-api/internal/interfaces/http/dto"
)

// SchedulerAdminHandler exposes the expiration scheduler to operators
type SchedulerAdminHandler struct {
	BaseHandler
	expirationScheduler *scheduler.ExpirationScheduler
}

// NewSchedulerAdminHandler creates a new SchedulerAdminHandler
func NewSchedulerAdminHandler(expirationScheduler *scheduler.ExpirationScheduler) *SchedulerAdminHandler {
	return &SchedulerAdminHandler{
		expirationScheduler: expirationScheduler,
	}
}

// SweepTriggeredResponse confirms a manual sweep was started
// @Description Manual sweep trigger confirmation
type SweepTriggeredResponse struct {
	Triggered bool   `json:"triggered"`
	Job       string `json:"job" example:"pending_link_sweep"`
}

// GetStatus godoc
// @ID           getSchedulerStatus
// @Summary      Get expiration scheduler status
// @Description  Returns whether the background expiration scheduler is running and which sweeps it owns
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[SchedulerStatusData]
// @Failure      401 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/scheduler/status [get]
func (h *SchedulerAdminHandler) GetStatus(c *gin.Context) {
	status := SchedulerStatusData{
		Enabled: h.expirationScheduler != nil && h.expirationScheduler.IsRunning(),
		Jobs:    []string{"pending_link_sweep", "search_session_sweep"},
	}

	h.Success(c, status)
}

// TriggerLinkSweep godoc
// @ID           triggerLinkSweep
// @Summary      Trigger a pending link sweep
// @Description  Starts an immediate sweep that expires overdue pending client links
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[SweepTriggeredResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/scheduler/sweep-links [post]
func (h *SchedulerAdminHandler) TriggerLinkSweep(c *gin.Context) {
	if err := h.expirationScheduler.TriggerLinkSweep(c.Request.Context()); err != nil {
		h.UnprocessableEntity(c, dto.ErrCodeInvalidState, "Scheduler is not running")
		return
	}

	h.Success(c, SweepTriggeredResponse{Triggered: true, Job: "pending_link_sweep"})
}

// TriggerSessionSweep godoc
// @ID           triggerSessionSweep
// @Summary      Trigger a search session sweep
// @Description  Starts an immediate sweep that expires stale search sessions
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[SweepTriggeredResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/scheduler/sweep-sessions [post]
func (h *SchedulerAdminHandler) TriggerSessionSweep(c *gin.Context) {
	if err := h.expirationScheduler.TriggerSessionSweep(c.Request.Context()); err != nil {
		h.UnprocessableEntity(c, dto.ErrCodeInvalidState, "Scheduler is not running")
		return
	}

	h.Success(c, SweepTriggeredResponse{Triggered: true, Job: "search_session_sweep"})
}
