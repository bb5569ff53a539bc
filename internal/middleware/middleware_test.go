package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"readum/internal/config"
	"readum/internal/domain"
	"readum/internal/logger"
	"readum/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error", Env: "test"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestIDMiddleware())
	return app
}

func decode(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient context", domain.NewInsufficientContextError(), http.StatusUnprocessableEntity, "INSUFFICIENT_CONTEXT"},
		{"document processing", domain.NewDocumentProcessingError("failed to load document", errors.New("dial tcp")), http.StatusBadRequest, "DOCUMENT_PROCESSING_ERROR"},
		{"vector store", domain.NewVectorStoreOperationError(domain.NewDirectoryCreationError("/tmp/x", errors.New("exists"))), http.StatusInternalServerError, "VECTOR_STORE_OPERATION_ERROR"},
		{"rag processing", domain.NewRAGProcessingError(domain.NewRAGChainExecutionError(errors.New("503"))), http.StatusInternalServerError, "RAG_PROCESSING_ERROR"},
		{"result not found", domain.NewResultNotFoundError("abc"), http.StatusNotFound, "RESULT_NOT_FOUND"},
		{"storage", domain.NewStorageError("failed to store answer", errors.New("down")), http.StatusInternalServerError, "STORAGE_ERROR"},
		{"fiber error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	app := newApp()
	app.Post("/", func(c *fiber.Ctx) error {
		_, err := domain.NewQuizRequest("pdf", "short", "beginner", 20)
		return err
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	var fields []string
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"type", "questionCount"}, fields)
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 26)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-id", resp.Header.Get(RequestIDHeader))
}

func TestRequestLogger_WritesErrorResponse(t *testing.T) {
	app := newApp()
	app.Use(RequestLogger())
	app.Get("/", func(c *fiber.Ctx) error { return domain.NewResultNotFoundError("x") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateResultID(t *testing.T) {
	app := newApp()
	app.Get("/result/:uuid", NewValidationMiddleware().ValidateResultID(), func(c *fiber.Ctx) error {
		return c.SendString(ValidatedResultID(c))
	})

	id := util.NewQuizID()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/result/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/result/not-an-id", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}
