package handler

import (
	"github.com/gin-gonic/gin"

	searchapp "github.com/outfit/partner-api/internal/application/search"
)

// SearchHandler handles hotel search API endpoints
type SearchHandler struct {
	BaseHandler
	searchService *searchapp.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *searchapp.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search godoc
// @ID           partnerSearch
// @Summary      Run a hotel search
// @Description  Resolves the agent and client links, records a search session, runs the hotel search, and returns results with a signed deeplink into the booking flow.
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request body searchapp.SearchRequest true "Hotel search request"
// @Success      200 {object} APIResponse[searchapp.SearchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     PartnerAPIKey
// @Router       /partner/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	partnerID, err := getPartnerID(c)
	if err != nil {
		h.Unauthorized(c, "Partner credential missing")
		return
	}

	var req searchapp.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
