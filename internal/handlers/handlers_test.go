package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/store"
)

type emptyECardRepo struct{}

func (emptyECardRepo) Create(context.Context, *models.BusinessECard) error { return nil }

func (emptyECardRepo) Latest(context.Context, uuid.UUID) (*models.BusinessECard, error) {
	return nil, store.ErrNotFound
}

func (emptyECardRepo) ByRegistrationID(context.Context, string) (*models.BusinessECard, error) {
	return nil, store.ErrNotFound
}

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	gemini *httptest.Server
}

func (suite *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	suite.gemini = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": "Namaste! Start with PAN."}}}},
			},
		})
	}))

	checklistService := services.NewChecklistService(nil, nil)
	businessService := services.NewBusinessService(nil, checklistService, nil)
	ecardService := services.NewECardService(emptyECardRepo{}, checklistService, nil, nil, config.ECardConfig{ValidityDays: 365})
	chatService := services.NewChatService(config.ChatConfig{
		GeminiAPIKey:    "test-key",
		Model:           "gemini-1.5-flash",
		BaseURL:         suite.gemini.URL,
		MaxOutputTokens: 500,
		Timeout:         5,
	}, nil)

	checklistHandler := NewChecklistHandler(businessService, checklistService)
	verificationHandler := NewVerificationHandler(ecardService)
	catalogHandler := NewCatalogHandler(services.NewSchemeService())
	businessHandler := NewBusinessHandler(businessService)

	suite.router = gin.New()
	suite.router.POST("/api/chat", NewChatHandler(chatService).Chat)
	suite.router.POST("/api/chat-nokey", NewChatHandler(services.NewChatService(config.ChatConfig{}, nil)).Chat)

	v1 := suite.router.Group("/v1")
	{
		v1.POST("/checklist/preview", checklistHandler.Preview)
		v1.GET("/requirements", catalogHandler.ListRequirements)
		v1.GET("/schemes", catalogHandler.ListSchemes)
		v1.GET("/businesses/:id", businessHandler.GetBusiness)
		v1.GET("/businesses/registration/:registrationId", businessHandler.GetByRegistrationID)
		v1.POST("/verify/qr", verificationHandler.VerifyQRPayload)
		v1.GET("/verify/:registrationId", verificationHandler.VerifyByRegistrationID)
	}
}

func (suite *HandlersTestSuite) TearDownSuite() {
	suite.gemini.Close()
}

func (suite *HandlersTestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(suite.T(), json.NewEncoder(&buf).Encode(b))
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func (suite *HandlersTestSuite) TestChatReturnsModelResponse() {
	w, response := suite.do("POST", "/api/chat", map[string]string{"message": "How do I start?"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "Namaste! Start with PAN.", response["response"])
	assert.NotContains(suite.T(), response, "success")
}

func (suite *HandlersTestSuite) TestChatMissingKey() {
	w, response := suite.do("POST", "/api/chat-nokey", map[string]string{"message": "tell me a joke"})

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	assert.Equal(suite.T(), "Missing Gemini API key", response["error"])
}

func (suite *HandlersTestSuite) TestChatMissingKeyUsesFallback() {
	w, response := suite.do("POST", "/api/chat-nokey", map[string]string{"message": "Do I need GST?"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "fallback", response["source"])
}

func (suite *HandlersTestSuite) TestChatRequiresMessage() {
	w, response := suite.do("POST", "/api/chat", map[string]string{})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "Message is required", response["error"])
}

func (suite *HandlersTestSuite) TestPreviewChecklist() {
	w, response := suite.do("POST", "/v1/checklist/preview", map[string]interface{}{
		"structure":          "private-limited",
		"industry":           "food-beverage",
		"has_physical_store": true,
	})

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(8), data["total"])

	first := data["requirements"].([]interface{})[0].(map[string]interface{})
	assert.Equal(suite.T(), "pan-card", first["id"])
}

func (suite *HandlersTestSuite) TestPreviewRejectsUnknownStructure() {
	w, response := suite.do("POST", "/v1/checklist/preview", map[string]interface{}{
		"structure": "trust",
		"industry":  "retail",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}

func (suite *HandlersTestSuite) TestListRequirements() {
	w, response := suite.do("GET", "/v1/requirements", nil)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), float64(19), response["data"].(map[string]interface{})["total"])
}

func (suite *HandlersTestSuite) TestListSchemesFiltered() {
	w, response := suite.do("GET", "/v1/schemes?size=medium&industry=retail&is_new=false", nil)

	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), float64(3), response["data"].(map[string]interface{})["total"])
}

func (suite *HandlersTestSuite) TestGetBusinessRejectsMalformedID() {
	w, _ := suite.do("GET", "/v1/businesses/not-a-uuid", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w, _ = suite.do("GET", "/v1/businesses/registration/XYZ", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestVerifyUnknownRegistration() {
	w, response := suite.do("GET", "/v1/verify/BZ12345678", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *HandlersTestSuite) TestVerifyQRRejectsMalformedPayload() {
	w, response := suite.do("POST", "/v1/verify/qr", `{"registrationId":"BZ1","status":"maybe"}`)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	errBody := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INVALID_QR_PAYLOAD", errBody["code"])
	assert.NotEmpty(suite.T(), errBody["details"])
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
