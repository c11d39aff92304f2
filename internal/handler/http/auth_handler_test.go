package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apihttp "github.com/lucashenrq/pedeja/internal/handler/http"
	"github.com/lucashenrq/pedeja/internal/store"
	"github.com/lucashenrq/pedeja/internal/user"
)

func newAuthRouter(userSvc *MockUserService, storeSvc *MockStoreService) *chi.Mux {
	handler := apihttp.NewAuthHandler(userSvc, storeSvc)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestAuthHandler_handleRegister_Success(t *testing.T) {
	mockUserSvc := new(MockUserService)
	mockStoreSvc := new(MockStoreService)

	newID := uuid.Must(uuid.NewV4())
	mockUserSvc.On("Register", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Name == "Ana" && u.Phone == "119999" && u.PIN == "123456" && u.Role == user.RoleClient
	})).Return(newID, nil).Once()

	body := map[string]string{"name": "Ana", "phone": "119999", "pin": "123456", "role": "client"}
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newAuthRouter(mockUserSvc, mockStoreSvc).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, newID.String(), response["id"])
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_handleRegister_MissingFields(t *testing.T) {
	mockUserSvc := new(MockUserService)
	mockStoreSvc := new(MockStoreService)

	body := map[string]string{"name": "Ana"}
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(jsonBody))
	rr := httptest.NewRecorder()

	newAuthRouter(mockUserSvc, mockStoreSvc).ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errorResponse map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errorResponse))
	assert.NotEmpty(t, errorResponse["error"])
	mockUserSvc.AssertNotCalled(t, "Register")
}

func TestAuthHandler_handleLogin_ClientWithoutStore(t *testing.T) {
	mockUserSvc := new(MockUserService)
	mockStoreSvc := new(MockStoreService)

	loggedIn := &user.User{
		ID:    uuid.Must(uuid.NewV4()),
		Name:  "Ana",
		Phone: "119999",
		PIN:   "123456",
		Role:  user.RoleClient,
	}
	mockUserSvc.On("Login", mock.Anything, "119999", "123456").Return(loggedIn, nil).Once()
	mockStoreSvc.On("GetByOwnerID", mock.Anything, loggedIn.ID).Return(nil, store.ErrNotFound).Once()

	jsonBody, err := json.Marshal(map[string]string{"phone": "119999", "pin": "123456"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonBody))
	rr := httptest.NewRecorder()

	newAuthRouter(mockUserSvc, mockStoreSvc).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		User  *user.User       `json:"user"`
		Store *json.RawMessage `json:"store"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.NotNil(t, response.User)
	assert.Equal(t, loggedIn.ID, response.User.ID)
	// The PIN must never appear in a response.
	assert.NotContains(t, rr.Body.String(), "123456")
	if response.Store != nil {
		assert.Equal(t, "null", string(*response.Store), "store must be null for a client")
	}
	mockUserSvc.AssertExpectations(t)
	mockStoreSvc.AssertExpectations(t)
}

func TestAuthHandler_handleLogin_PartnerWithStore(t *testing.T) {
	mockUserSvc := new(MockUserService)
	mockStoreSvc := new(MockStoreService)

	loggedIn := &user.User{
		ID:    uuid.Must(uuid.NewV4()),
		Name:  "Bruno",
		Phone: "118888",
		Role:  user.RolePartner,
	}
	ownedStore := &store.Store{
		ID:      uuid.Must(uuid.NewV4()),
		OwnerID: loggedIn.ID,
		Name:    "Cantina do Bruno",
		Status:  store.StatusOnline,
	}
	mockUserSvc.On("Login", mock.Anything, "118888", "4321").Return(loggedIn, nil).Once()
	mockStoreSvc.On("GetByOwnerID", mock.Anything, loggedIn.ID).Return(ownedStore, nil).Once()

	jsonBody, err := json.Marshal(map[string]string{"phone": "118888", "pin": "4321"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonBody))
	rr := httptest.NewRecorder()

	newAuthRouter(mockUserSvc, mockStoreSvc).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var response apihttp.LoginResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.NotNil(t, response.Store)
	assert.Equal(t, ownedStore.ID, response.Store.ID)
	mockStoreSvc.AssertExpectations(t)
}

func TestAuthHandler_handleLogin_InvalidCredentials(t *testing.T) {
	mockUserSvc := new(MockUserService)
	mockStoreSvc := new(MockStoreService)

	// The handler answers identically for unknown phone and wrong PIN.
	mockUserSvc.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, user.ErrInvalidCredentials).Twice()

	for _, body := range []map[string]string{
		{"phone": "000000", "pin": "123456"},
		{"phone": "119999", "pin": "999999"},
	} {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonBody))
		rr := httptest.NewRecorder()

		newAuthRouter(mockUserSvc, mockStoreSvc).ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var errorResponse map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&errorResponse))
		assert.Equal(t, "invalid credentials", errorResponse["error"])
	}
	mockUserSvc.AssertExpectations(t)
}
