package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/heating-compare/internal/comparison"
	"github.com/iwvelando/heating-compare/internal/config"
	"github.com/iwvelando/heating-compare/pkg/breakeven"
	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(zap.NewNop(), Options{Version: "1.2.3"})
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func multipartBody(t *testing.T, field, filename string, data []byte) ([]byte, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body.Bytes(), writer.FormDataContentType()
}

func TestHandleCalculateDefaults(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/calculate", []byte(`{}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(CalculationIDHeader))

	var results comparison.Results
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Len(t, results.Scenarios, comparison.ScenarioCount)
	assert.Equal(t, 30, results.BreakEven.HorizonYears)
	assert.Len(t, results.CurrentBaseline.AnnualCosts, 30)
	assert.Equal(t, constants.BaselineName, results.CurrentBaseline.Name)
}

func TestHandleCalculateEmptyBodyUsesDefaults(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/calculate", nil, "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestHandleCalculatePartialPayload(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/calculate", []byte(`{"analysis_years": 3, "new_boiler_cost": 0}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var results comparison.Results
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Equal(t, 3, results.BreakEven.HorizonYears)
	assert.Equal(t, 0.0, results.Investment.BoilerCost)
	for _, s := range results.Scenarios {
		assert.Len(t, s.AnnualCosts, 3)
	}
}

func TestHandleCalculateIntegralFloatYears(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/calculate", []byte(`{"analysis_years": 12.0}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var results comparison.Results
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Equal(t, 12, results.BreakEven.HorizonYears)
	for _, s := range results.Scenarios {
		assert.Len(t, s.AnnualCosts, 12)
	}
}

func TestHandleCalculateNeverYearIsNull(t *testing.T) {
	h := newTestHandler(t)

	// Boilers cost more upfront and burn pellets while electricity is free.
	payload := []byte(`{"electric_price_per_kwh": 0, "electric_subscription_increase_per_month": 0,
		"radiator_cost_per_kw": 0, "wood_consumption_stere": 0, "analysis_years": 5}`)
	rr := do(t, h, http.MethodPost, "/api/calculate", payload, "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var raw struct {
		BreakEven struct {
			Matrix [][]map[string]interface{} `json:"matrix"`
		} `json:"break_even"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))

	cell := raw.BreakEven.Matrix[1][3]
	assert.Equal(t, string(breakeven.StatusNever), cell["status"])
	year, present := cell["year"]
	assert.True(t, present, "year key should be present")
	assert.Nil(t, year)
}

func TestHandleCalculateValidationErrors(t *testing.T) {
	collector := metrics.NewCollector("test")
	h := NewHandler(zap.NewNop(), Options{Metrics: collector})

	payload := []byte(`{"total_area_m2": -1, "old_boiler_efficiency_percent": 0, "analysis_years": 51}`)
	rr := do(t, h, http.MethodPost, "/api/calculate", payload, "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "total_area_m2")
	require.Len(t, resp.Violations, 3)

	fields := make([]string, 0, len(resp.Violations))
	for _, v := range resp.Violations {
		fields = append(fields, v.Field)
		assert.NotEmpty(t, v.Constraint)
	}
	assert.ElementsMatch(t, []string{"total_area_m2", "old_boiler_efficiency_percent", "analysis_years"}, fields)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ValidationFailures.WithLabelValues("analysis_years")))
}

func TestHandleCalculateBadRequests(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"Malformed JSON", `{"total_area_m2": `},
		{"String for number", `{"total_area_m2": "big"}`},
		{"Fractional years", `{"analysis_years": 2.5}`},
		{"Array payload", `[1, 2]`},
		{"Null payload", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/calculate", []byte(tt.payload), "application/json")
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Empty(t, resp.Violations)
		})
	}
}

func TestHandleCalculateTooLarge(t *testing.T) {
	h := NewHandler(zap.NewNop(), Options{MaxUploadSize: 16})

	rr := do(t, h, http.MethodPost, "/api/calculate", []byte(`{"total_area_m2": 100, "analysis_years": 10}`), "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/calculate"},
		{http.MethodGet, "/api/calculate/upload"},
		{http.MethodGet, "/api/parameters/export"},
		{http.MethodPost, "/api/defaults"},
		{http.MethodPost, "/api/version"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, nil, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestHandleCalculateUpload(t *testing.T) {
	h := newTestHandler(t)

	data, err := os.ReadFile(filepath.Join("..", "..", "test", "test_parameters.yaml"))
	require.NoError(t, err)
	body, contentType := multipartBody(t, "file", "test_parameters.yaml", data)

	rr := do(t, h, http.MethodPost, "/api/calculate/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var results comparison.Results
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Equal(t, 5, results.BreakEven.HorizonYears)
	assert.Equal(t, 5.0, results.Investment.RadiatorPowerKW)

	cell := results.BreakEven.Matrix[3][1]
	assert.Equal(t, breakeven.StatusAhead, cell.Status)
}

func TestHandleCalculateUploadErrors(t *testing.T) {
	h := newTestHandler(t)

	t.Run("Missing file", func(t *testing.T) {
		body, contentType := multipartBody(t, "other", "x.yaml", []byte("parameters: {}"))
		rr := do(t, h, http.MethodPost, "/api/calculate/upload", body, contentType)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "x.yaml", []byte("parameters: [unclosed"))
		rr := do(t, h, http.MethodPost, "/api/calculate/upload", body, contentType)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Invalid values", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "x.yaml", []byte("parameters:\n  analysis_years: 0\n"))
		rr := do(t, h, http.MethodPost, "/api/calculate/upload", body, contentType)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Fractional years", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "x.yaml", []byte("parameters:\n  analysis_years: 12.9\n"))
		rr := do(t, h, http.MethodPost, "/api/calculate/upload", body, contentType)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Violations, 1)
		assert.Equal(t, config.AnalysisYearsField, resp.Violations[0].Field)
		assert.Equal(t, "12.9", resp.Violations[0].Value)
	})

	t.Run("Not multipart", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calculate/upload", []byte("{}"), "application/json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleCalculateUploadIgnoresEnvironment(t *testing.T) {
	t.Setenv("HEATING_PARAMETERS_ANALYSIS_YEARS", "30")
	h := newTestHandler(t)

	body, contentType := multipartBody(t, "file", "x.yaml", []byte("parameters:\n  analysis_years: 5\n"))
	rr := do(t, h, http.MethodPost, "/api/calculate/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var results comparison.Results
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Equal(t, 5, results.BreakEven.HorizonYears)
}

func TestHandleParametersExportRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/parameters/export", []byte(`{"total_area_m2": 120.5, "analysis_years": 12}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	exported := resp["parametersYaml"]
	require.NotEmpty(t, exported)
	assert.True(t, strings.HasPrefix(exported, "parameters:\n"))
	assert.Less(t, strings.Index(exported, "total_area_m2"), strings.Index(exported, "radiator_install_extra_cost"))

	var doc config.Configuration
	require.NoError(t, yaml.Unmarshal([]byte(exported), &doc))
	expected := config.Defaults()
	expected.TotalAreaM2 = 120.5
	expected.AnalysisYears = 12
	assert.Equal(t, expected, doc.Parameters)

	loaded, err := config.LoadConfigurationFromReader(strings.NewReader(exported))
	require.NoError(t, err)
	assert.Equal(t, expected, loaded.Parameters)
}

func TestHandleDefaults(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/defaults", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var params config.Parameters
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &params))
	assert.Equal(t, config.Defaults(), params)
}

func TestHandleIndex(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	page := rr.Body.String()
	assert.Contains(t, page, `name="total_area_m2" value="98.5"`)
	assert.Contains(t, page, `name="analysis_years" value="30" step="1"`)
	assert.Contains(t, page, "v1.2.3")
	for _, name := range config.FieldNames() {
		assert.Contains(t, page, `name="`+name+`"`)
	}
}

func TestStaticAssets(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		rr := do(t, h, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.NotEmpty(t, rr.Body.String(), path)
	}

	rr := do(t, h, http.MethodGet, "/static/missing.js", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleVersionAndHealth(t *testing.T) {
	h := NewHandler(nil, Options{})

	rr := do(t, h, http.MethodGet, "/api/version", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version": "dev"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector(constants.MetricsNamespace)
	h := NewHandler(zap.NewNop(), Options{Metrics: collector})

	rr := do(t, h, http.MethodPost, "/api/calculate", []byte(`{}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.CalculationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.APIRequestsTotal.WithLabelValues("/api/calculate", "POST", "200")))

	rr = do(t, h, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "heating_compare_calculations_total 1")
}

func TestUnmatchedRoutesShareOneSeries(t *testing.T) {
	collector := metrics.NewCollector(constants.MetricsNamespace)
	h := NewHandler(zap.NewNop(), Options{Metrics: collector})

	for _, path := range []string{"/no-such-page", "/another-missing-page"} {
		rr := do(t, h, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.APIRequestsTotal.WithLabelValues("unmatched", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.APIRequestsTotal.WithLabelValues("/no-such-page", "GET", "404")))
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(zap.NewNop(), Options{AllowedOrigins: []string{"https://example.org"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://example.org", rr.Header().Get("Access-Control-Allow-Origin"))
}
