package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/simulacao-api/internal/config"
	"github.com/deppfellow/simulacao-api/internal/errs"
	"github.com/deppfellow/simulacao-api/internal/handler"
	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/deppfellow/simulacao-api/internal/service"
	"github.com/deppfellow/simulacao-api/static"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services, err := service.NewServices(s)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services, static.FS))
}

func postSimulation(t *testing.T, r *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/simulacao", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)
	return rec
}

func decodeHTTPError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
	return httpErr
}

func TestSimulate_OK(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "reference scenario",
			body:     `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5}`,
			expected: `{"valor_entrada": 20000, "valor_financiado": 180000, "total_a_guardar": 30000, "parcela_mensal": 500}`,
		},
		{
			name:     "fractional percent with rounded installment",
			body:     `{"valor_imovel": 350000, "percentual_entrada": 7.5, "anos_contrato": 3}`,
			expected: `{"valor_entrada": 26250, "valor_financiado": 323750, "total_a_guardar": 52500, "parcela_mensal": 1458.33}`,
		},
		{
			name:     "upper bounds",
			body:     `{"valor_imovel": 480000, "percentual_entrada": 20, "anos_contrato": 2}`,
			expected: `{"valor_entrada": 96000, "valor_financiado": 384000, "total_a_guardar": 72000, "parcela_mensal": 3000}`,
		},
		{
			name:     "integral years written as float",
			body:     `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5.0}`,
			expected: `{"valor_entrada": 20000, "valor_financiado": 180000, "total_a_guardar": 30000, "parcela_mensal": 500}`,
		},
		{
			name:     "integral years in exponent form",
			body:     `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5e0}`,
			expected: `{"valor_entrada": 20000, "valor_financiado": 180000, "total_a_guardar": 30000, "parcela_mensal": 500}`,
		},
		{
			name:     "lower bounds",
			body:     `{"valor_imovel": 100000, "percentual_entrada": 5, "anos_contrato": 1}`,
			expected: `{"valor_entrada": 5000, "valor_financiado": 95000, "total_a_guardar": 15000, "parcela_mensal": 1250}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSimulation(t, r, tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.expected, rec.Body.String())
		})
	}
}

func TestSimulate_ValidationErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{
			name:    "percent above range",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 25, "anos_contrato": 5}`,
			field:   "percentual_entrada",
			message: "must not exceed 20",
		},
		{
			name:    "percent below range",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 4.99, "anos_contrato": 5}`,
			field:   "percentual_entrada",
			message: "must be at least 5",
		},
		{
			name:    "years above range",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 6}`,
			field:   "anos_contrato",
			message: "must not exceed 5",
		},
		{
			name:    "zero years",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 0}`,
			field:   "anos_contrato",
			message: "must be at least 1",
		},
		{
			name:    "non positive property value",
			body:    `{"valor_imovel": 0, "percentual_entrada": 10, "anos_contrato": 5}`,
			field:   "valor_imovel",
			message: "must be greater than 0",
		},
		{
			name:    "fractional years",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 2.5}`,
			field:   "anos_contrato",
			message: "must be a valid integer",
		},
		{
			name:    "string property value",
			body:    `{"valor_imovel": "duzentos mil", "percentual_entrada": 10, "anos_contrato": 5}`,
			field:   "valor_imovel",
			message: "must be a valid number",
		},
		{
			name:    "trailing data after body",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5} trailing`,
			field:   "body",
			message: "malformed JSON: unexpected data after JSON body",
		},
		{
			name:    "missing field",
			body:    `{"valor_imovel": 200000, "percentual_entrada": 10}`,
			field:   "anos_contrato",
			message: "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSimulation(t, r, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			httpErr := decodeHTTPError(t, rec)
			assert.Equal(t, "UNPROCESSABLE_ENTITY", httpErr.Code)
			assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)

			fieldErr, ok := httpErr.Field(tt.field)
			require.True(t, ok, "expected an error on %s, got %+v", tt.field, httpErr.Errors)
			assert.Equal(t, tt.message, fieldErr.Error)
		})
	}
}

func TestSimulate_MalformedJSON(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := postSimulation(t, r, `{"valor_imovel": 200000, "percentual_entrada": 10,`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	httpErr := decodeHTTPError(t, rec)
	fieldErr, ok := httpErr.Field("body")
	require.True(t, ok)
	assert.Contains(t, fieldErr.Error, "malformed JSON")
}

func TestSimulate_WithoutContentType(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/simulacao",
		strings.NewReader(`{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valor_entrada": 20000, "valor_financiado": 180000, "total_a_guardar": 30000, "parcela_mensal": 500}`, rec.Body.String())
}

func TestSimulate_EmptyBody(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := postSimulation(t, r, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	httpErr := decodeHTTPError(t, rec)
	assert.Len(t, httpErr.Errors, 3)
	for _, fieldErr := range httpErr.Errors {
		assert.Equal(t, "is required", fieldErr.Error)
	}
}

func TestSimulate_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/simulacao", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", decodeHTTPError(t, rec).Code)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, nil)
	origin := "http://localhost:5173"

	t.Run("simple request echoes origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/simulacao",
			strings.NewReader(`{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderOrigin, origin)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, origin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/simulacao", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		req.Header.Set(echo.HeaderAccessControlRequestHeaders, "Content-Type")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, origin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
		assert.Equal(t, "Content-Type", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	})

	t.Run("restricted origins", func(t *testing.T) {
		restricted := newTestRouter(t, func(cfg *config.Config) {
			cfg.Server.CORSAllowedOrigins = []string{"https://app.example.com"}
		})

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
		rec := httptest.NewRecorder()

		restricted.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("reuses incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-123")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("generates uuid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID))
		assert.NoError(t, err)
	})
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	httpErr := decodeHTTPError(t, rec)
	assert.Equal(t, "NOT_FOUND", httpErr.Code)
	assert.Equal(t, "Route not found", httpErr.Message)
}

func TestStatus(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status      string `json:"status"`
		Environment string `json:"environment"`
		Checks      map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "development", body.Environment)
	assert.Equal(t, "healthy", body.Checks["calculator"].Status)
}

func TestStatus_ChecksDisabled(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Observability.HealthChecks.Enabled = false
	})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "calculator")
}

func TestDocs(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("ui", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Contains(t, rec.Body.String(), "/static/openapi.json")
	})

	t.Run("openapi document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/openapi.json", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc["paths"], "/simulacao")
	})
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.RateLimit.Enabled = true
		cfg.Server.RateLimit.Rate = 1
		cfg.Server.RateLimit.Burst = 1
	})

	body := `{"valor_imovel": 200000, "percentual_entrada": 10, "anos_contrato": 5}`

	assert.Equal(t, http.StatusOK, postSimulation(t, r, body).Code)

	rec := postSimulation(t, r, body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	httpErr := decodeHTTPError(t, rec)
	assert.Equal(t, "TOO_MANY_REQUESTS", httpErr.Code)
	assert.True(t, httpErr.Override)

	// Other routes are not limited.
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	statusRec := httptest.NewRecorder()
	r.ServeHTTP(statusRec, req)
	assert.Equal(t, http.StatusOK, statusRec.Code)
}
