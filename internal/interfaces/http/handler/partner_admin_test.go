package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	partnerapp "github.com/outfit/partner-api/internal/application/partner"
	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/interfaces/http/dto"
)

// MockPartnerRepository is a mock implementation of partner.PartnerRepository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByAPIKeyPrefix(ctx context.Context, prefix string) (*partner.Partner, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartnerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) SaveWithLock(ctx context.Context, p *partner.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type partnerAdminFixture struct {
	partners *MockPartnerRepository
	handler  *PartnerAdminHandler
}

func newPartnerAdminFixture() *partnerAdminFixture {
	f := &partnerAdminFixture{
		partners: new(MockPartnerRepository),
	}
	service := partnerapp.NewPartnerService(f.partners, noopPublisher{}, zap.NewNop())
	f.handler = NewPartnerAdminHandler(service)
	return f
}

// Admin routes carry no partner credential; they sit behind the admin token
// middleware, which is not under test here.
func (f *partnerAdminFixture) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/v1/admin/partners", f.handler.Create)
	router.GET("/v1/admin/partners", f.handler.List)
	router.GET("/v1/admin/partners/:id", f.handler.GetByID)
	router.POST("/v1/admin/partners/:id/rotate-key", f.handler.RotateKey)
	router.POST("/v1/admin/partners/:id/suspend", f.handler.Suspend)
	router.POST("/v1/admin/partners/:id/activate", f.handler.Activate)
	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newTestPartner(t *testing.T, name string) *partner.Partner {
	t.Helper()
	p, _, err := partner.NewPartner(name, "api-team@"+name+".example")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestPartnerAdminHandler_Create(t *testing.T) {
	f := newPartnerAdminFixture()

	f.partners.On("ExistsByName", mock.Anything, "TravelCo").Return(false, nil)
	f.partners.On("Save", mock.Anything, mock.AnythingOfType("*partner.Partner")).Return(nil)

	w := postJSON(t, f.router(), "/v1/admin/partners", partnerapp.CreatePartnerRequest{
		Name:         "TravelCo",
		ContactEmail: "api-team@travelco.example",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.StatusSuccess, resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "TravelCo", data["name"])
	assert.Equal(t, "active", data["status"])

	// The raw key is disclosed exactly once, here
	rawKey, ok := data["api_key"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, rawKey)
	prefix, ok := data["api_key_prefix"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, prefix)
	assert.Contains(t, rawKey, prefix)

	f.partners.AssertExpectations(t)
}

func TestPartnerAdminHandler_Create_DuplicateName(t *testing.T) {
	f := newPartnerAdminFixture()

	f.partners.On("ExistsByName", mock.Anything, "TravelCo").Return(true, nil)

	w := postJSON(t, f.router(), "/v1/admin/partners", partnerapp.CreatePartnerRequest{
		Name: "TravelCo",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.StatusError, resp.Status)
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)

	f.partners.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPartnerAdminHandler_Create_InvalidBody(t *testing.T) {
	f := newPartnerAdminFixture()

	// Missing name fails binding before the service runs
	w := postJSON(t, f.router(), "/v1/admin/partners", map[string]string{
		"contact_email": "api-team@travelco.example",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestPartnerAdminHandler_List(t *testing.T) {
	f := newPartnerAdminFixture()

	first := newTestPartner(t, "TravelCo")
	second := newTestPartner(t, "BookingHub")

	f.partners.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return([]partner.Partner{*first, *second}, nil)
	f.partners.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return(int64(2), nil)

	w := getJSON(t, f.router(), "/v1/admin/partners")

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.StatusSuccess, resp.Status)

	items := resp.Data.([]interface{})
	assert.Len(t, items, 2)

	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)

	f.partners.AssertExpectations(t)
}

func TestPartnerAdminHandler_List_InvalidStatus(t *testing.T) {
	f := newPartnerAdminFixture()

	w := getJSON(t, f.router(), "/v1/admin/partners?status=deleted")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestPartnerAdminHandler_GetByID(t *testing.T) {
	f := newPartnerAdminFixture()

	p := newTestPartner(t, "TravelCo")
	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	w := getJSON(t, f.router(), "/v1/admin/partners/"+p.ID.String())

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, p.ID.String(), data["id"])
	assert.Equal(t, "TravelCo", data["name"])

	// The stored key never leaves the server, only its prefix does
	_, hasKey := data["api_key"]
	assert.False(t, hasKey)

	f.partners.AssertExpectations(t)
}

func TestPartnerAdminHandler_GetByID_InvalidID(t *testing.T) {
	f := newPartnerAdminFixture()

	w := getJSON(t, f.router(), "/v1/admin/partners/not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestPartnerAdminHandler_GetByID_NotFound(t *testing.T) {
	f := newPartnerAdminFixture()

	missingID := uuid.New()
	f.partners.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

	w := getJSON(t, f.router(), "/v1/admin/partners/"+missingID.String())

	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestPartnerAdminHandler_RotateKey(t *testing.T) {
	f := newPartnerAdminFixture()

	p := newTestPartner(t, "TravelCo")
	oldPrefix := p.APIKeyPrefix

	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.partners.On("SaveWithLock", mock.Anything, p).Return(nil)

	w := postJSON(t, f.router(), "/v1/admin/partners/"+p.ID.String()+"/rotate-key", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, p.ID.String(), data["partner_id"])

	rawKey, ok := data["api_key"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, rawKey)

	newPrefix, ok := data["api_key_prefix"].(string)
	require.True(t, ok)
	assert.NotEqual(t, oldPrefix, newPrefix)
	assert.NotEmpty(t, data["key_rotated_at"])

	f.partners.AssertExpectations(t)
}

func TestPartnerAdminHandler_Suspend(t *testing.T) {
	f := newPartnerAdminFixture()

	p := newTestPartner(t, "TravelCo")
	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.partners.On("SaveWithLock", mock.Anything, p).Return(nil)

	w := postJSON(t, f.router(), "/v1/admin/partners/"+p.ID.String()+"/suspend", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "suspended", data["status"])

	f.partners.AssertExpectations(t)
}

func TestPartnerAdminHandler_Suspend_AlreadySuspended(t *testing.T) {
	f := newPartnerAdminFixture()

	p := newTestPartner(t, "TravelCo")
	require.NoError(t, p.Suspend())
	p.ClearDomainEvents()

	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	w := postJSON(t, f.router(), "/v1/admin/partners/"+p.ID.String()+"/suspend", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

	f.partners.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPartnerAdminHandler_Activate(t *testing.T) {
	f := newPartnerAdminFixture()

	p := newTestPartner(t, "TravelCo")
	require.NoError(t, p.Suspend())
	p.ClearDomainEvents()

	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.partners.On("SaveWithLock", mock.Anything, p).Return(nil)

	w := postJSON(t, f.router(), "/v1/admin/partners/"+p.ID.String()+"/activate", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "active", data["status"])

	f.partners.AssertExpectations(t)
}
