package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/outfit/partner-api/internal/application/partner"
)

// PartnerAdminHandler handles partner provisioning API endpoints.
// All routes sit behind the admin token middleware.
type PartnerAdminHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerAdminHandler creates a new PartnerAdminHandler
func NewPartnerAdminHandler(partnerService *partnerapp.PartnerService) *PartnerAdminHandler {
	return &PartnerAdminHandler{
		partnerService: partnerService,
	}
}

// Create godoc
// @ID           createPartner
// @Summary      Provision a new partner
// @Description  Creates a partner and issues its API key. The raw key appears in this response only; afterwards only the hash and prefix are stored.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreatePartnerRequest true "Partner creation request"
// @Success      201 {object} APIResponse[partnerapp.PartnerCreatedResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/partners [post]
func (h *PartnerAdminHandler) Create(c *gin.Context) {
	var req partnerapp.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @ID           listPartners
// @Summary      List partners
// @Description  Retrieve a paginated list of partners with optional filtering
// @Tags         admin
// @Produce      json
// @Param        search query string false "Search term (name, contact email)"
// @Param        status query string false "Partner status" Enums(active, suspended)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.PartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/partners [get]
func (h *PartnerAdminHandler) List(c *gin.Context) {
	var filter partnerapp.PartnerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	partners, total, err := h.partnerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, partners, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getPartnerById
// @Summary      Get partner by ID
// @Description  Retrieve a partner by its ID
// @Tags         admin
// @Produce      json
// @Param        id path string true "Partner ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.PartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/partners/{id} [get]
func (h *PartnerAdminHandler) GetByID(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	result, err := h.partnerService.GetByID(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RotateKey godoc
// @ID           rotatePartnerKey
// @Summary      Rotate a partner API key
// @Description  Issues a fresh API key and invalidates the previous one. The raw key appears in this response only.
// @Tags         admin
// @Produce      json
// @Param        id path string true "Partner ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.APIKeyRotatedResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/partners/{id}/rotate-key [post]
func (h *PartnerAdminHandler) RotateKey(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	result, err := h.partnerService.RotateKey(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Suspend godoc
// @ID           suspendPartner
// @Summary      Suspend a partner
// @Description  Suspends a partner so its API key stops verifying
// @Tags         admin
// @Produce      json
// @Param        id path string true "Partner ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.PartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/partners/{id}/suspend [post]
func (h *PartnerAdminHandler) Suspend(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	result, err := h.partnerService.Suspend(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate godoc
// @ID           activatePartner
// @Summary      Activate a partner
// @Description  Reactivates a suspended partner
// @Tags         admin
// @Produce      json
// @Param        id path string true "Partner ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.PartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     AdminToken
// @Router       /admin/partners/{id}/activate [post]
func (h *PartnerAdminHandler) Activate(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	result, err := h.partnerService.Activate(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
