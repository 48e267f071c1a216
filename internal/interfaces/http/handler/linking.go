package handler

import (
	"github.com/gin-gonic/gin"

	linkingapp "github.com/outfit/partner-api/internal/application/linking"
)

// LinkingHandler handles identity linking API endpoints
type LinkingHandler struct {
	BaseHandler
	agentService  *linkingapp.AgentLinkingService
	clientService *linkingapp.ClientLinkingService
}

// NewLinkingHandler creates a new LinkingHandler
func NewLinkingHandler(
	agentService *linkingapp.AgentLinkingService,
	clientService *linkingapp.ClientLinkingService,
) *LinkingHandler {
	return &LinkingHandler{
		agentService:  agentService,
		clientService: clientService,
	}
}

// CreateAgent godoc
// @ID           createAgent
// @Summary      Link a partner agent
// @Description  Links a partner agent to an Outfit agent account, creating the account when no matching email exists. Repeated calls with the same input return the same link.
// @Tags         linking
// @Accept       json
// @Produce      json
// @Param        request body linkingapp.CreateAgentRequest true "Agent link request"
// @Success      200 {object} APIResponse[linkingapp.CreateAgentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     PartnerAPIKey
// @Router       /partner/create-agent [post]
func (h *LinkingHandler) CreateAgent(c *gin.Context) {
	partnerID, err := getPartnerID(c)
	if err != nil {
		h.Unauthorized(c, "Partner credential missing")
		return
	}

	var req linkingapp.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.agentService.CreateAgent(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// VerifyCustomer godoc
// @ID           verifyCustomer
// @Summary      Verify a partner customer
// @Description  Matches a partner client against the agent's roster. Returns a linked result, or a disambiguation payload with scored candidates when no single account is a confident match.
// @Tags         linking
// @Accept       json
// @Produce      json
// @Param        request body linkingapp.VerifyCustomerRequest true "Customer verification request"
// @Success      200 {object} APIResponse[linkingapp.LinkResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     PartnerAPIKey
// @Router       /partner/verify-customer [post]
func (h *LinkingHandler) VerifyCustomer(c *gin.Context) {
	partnerID, err := getPartnerID(c)
	if err != nil {
		h.Unauthorized(c, "Partner credential missing")
		return
	}

	var req linkingapp.VerifyCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.clientService.VerifyCustomer(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ResolveCustomer godoc
// @ID           resolveCustomer
// @Summary      Resolve a pending customer link
// @Description  Completes a disambiguation started by verify-customer, either linking the client to a chosen candidate or creating a fresh account.
// @Tags         linking
// @Accept       json
// @Produce      json
// @Param        request body linkingapp.ResolveCustomerRequest true "Customer resolution request"
// @Success      200 {object} APIResponse[linkingapp.LinkResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     PartnerAPIKey
// @Router       /partner/resolve-customer [post]
func (h *LinkingHandler) ResolveCustomer(c *gin.Context) {
	partnerID, err := getPartnerID(c)
	if err != nil {
		h.Unauthorized(c, "Partner credential missing")
		return
	}

	var req linkingapp.ResolveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.clientService.ResolveCustomer(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
