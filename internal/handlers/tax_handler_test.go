package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gst-service/internal/services"
	"gst-service/internal/validation"
)

// MockRejectionRecorder is a mock implementation of RejectionRecorder
type MockRejectionRecorder struct {
	mock.Mock
}

func (m *MockRejectionRecorder) RecordValidationRejection(field string) {
	m.Called(field)
}

// Helper to setup test router with every route wired
func setupTestRouter(t *testing.T, rejections RejectionRecorder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterBindings())

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	handler := NewTaxHandler(services.NewTaxCalculator(logger, nil, nil), rejections)

	r := gin.New()
	r.GET("/health", HealthCheck)
	r.GET("/livez", LivenessCheck)
	r.GET("/readyz", ReadinessCheck)
	v1 := r.Group("/api/v1")
	v1.POST("/tax/compute", handler.CalculateTax)
	v1.POST("/bills/eligibility", handler.CheckBillEligibility)
	v1.GET("/identifiers/:id", handler.GetIdentifier)
	v1.POST("/validate/:field", handler.ValidateField)
	v1.POST("/validate", handler.ValidateFields)
	return r
}

func performJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ===========================================
// Tax Computation Handler Tests
// ===========================================

func TestCalculateTax_Handler_IntraState(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/tax/compute", map[string]interface{}{
		"supplierGstin":       "29ABCDE1234F1Z5",
		"customerGstin":       "29XYZAB5678C1Z9",
		"taxableValue":        1000,
		"declaredInvoiceType": "FCM",
		"rateSource":          map[string]interface{}{"flatRate": 18},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["calculationId"])
	assert.Equal(t, "90", body["cgst"])
	assert.Equal(t, "90", body["sgst"])
	assert.Equal(t, "0", body["igst"])
	assert.Equal(t, "1180", body["finalAmount"])
	assert.Equal(t, "FCM", body["resolvedInvoiceType"])
	assert.Equal(t, "supplier", body["taxPayableBy"])
	assert.Equal(t, true, body["isSameJurisdiction"])
}

func TestCalculateTax_Handler_GovernmentCustomer(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/tax/compute", map[string]interface{}{
		"supplierGstin": "29ABCDE1234F1Z5",
		"customerPan":   "AAAGP1234K",
		"taxableValue":  "5000",
		"rateSource":    map[string]interface{}{"flatRate": "18"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "EXEMPTED", body["resolvedInvoiceType"])
	assert.Equal(t, "none", body["taxPayableBy"])
	assert.Equal(t, false, body["gstApplicable"])
	assert.Equal(t, "0", body["gstAmount"])
	assert.Equal(t, "5000", body["finalAmount"])
}

func TestCalculateTax_Handler_MalformedGSTINFallsBackToIGST(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/tax/compute", map[string]interface{}{
		"supplierGstin":       "29ABCDE1234F1Z5",
		"customerGstin":       "27XYZ",
		"taxableValue":        1000,
		"declaredInvoiceType": "FCM",
		"rateSource":          map[string]interface{}{"flatRate": 18},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["isSameJurisdiction"])
	assert.Equal(t, "180", body["igst"])
	assert.Equal(t, "0", body["cgst"])
	assert.Equal(t, "0", body["sgst"])
	assert.Equal(t, "INTER_STATE", body["supplyType"])
}

func TestCalculateTax_Handler_GovernmentPANWithoutFormatCheck(t *testing.T) {
	r := setupTestRouter(t, nil)

	// Ends in O, which the PAN field validator rejects
	w := performJSON(r, http.MethodPost, "/api/v1/tax/compute", map[string]interface{}{
		"supplierGstin": "29ABCDE1234F1Z5",
		"customerPan":   "AAAGP1234O",
		"taxableValue":  1000,
		"rateSource":    map[string]interface{}{"flatRate": 18},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["isGovernment"])
	assert.Equal(t, "EXEMPTED", body["resolvedInvoiceType"])
	assert.Equal(t, "1000", body["finalAmount"])
}

func TestCalculateTax_Handler_UnknownInvoiceType(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/tax/compute", map[string]interface{}{
		"taxableValue":        1000,
		"declaredInvoiceType": "BOGUS",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateTax_Handler_MalformedJSON(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/tax/compute", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid request", body["error"])
	assert.NotEmpty(t, body["message"])
}

// ===========================================
// Bill Eligibility Handler Tests
// ===========================================

func TestCheckBillEligibility_Handler(t *testing.T) {
	r := setupTestRouter(t, nil)

	tests := []struct {
		name     string
		billed   string
		received string
		eligible bool
		status   string
	}{
		{"exact", "100.00", "100.00", true, "SETTLED"},
		{"within tolerance", "100.00", "99.99", true, "SETTLED"},
		{"short", "100.00", "99.98", false, "SHORTFALL"},
		{"excess", "100.00", "100.50", false, "EXCESS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(r, http.MethodPost, "/api/v1/bills/eligibility", map[string]interface{}{
				"billId":         "BILL-001",
				"billedAmount":   tt.billed,
				"receivedAmount": tt.received,
			})

			require.Equal(t, http.StatusOK, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, "BILL-001", body["billId"])
			assert.Equal(t, tt.eligible, body["eligible"])
			assert.Equal(t, tt.status, body["status"])
		})
	}
}

func TestCheckBillEligibility_Handler_MissingAmounts(t *testing.T) {
	r := setupTestRouter(t, nil)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty body", map[string]interface{}{}},
		{"billed only", map[string]interface{}{"billedAmount": "100.00"}},
		{"received only", map[string]interface{}{"receivedAmount": "100.00"}},
		{"null amounts", map[string]interface{}{"billedAmount": nil, "receivedAmount": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(r, http.MethodPost, "/api/v1/bills/eligibility", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid request", decodeBody(t, w)["error"])
		})
	}
}

func TestCheckBillEligibility_Handler_ZeroAmountsPresent(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/bills/eligibility", map[string]interface{}{
		"billedAmount":   "0",
		"receivedAmount": "0",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["eligible"])
}

// ===========================================
// Identifier Handler Tests
// ===========================================

func TestGetIdentifier_Handler(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodGet, "/api/v1/identifiers/29abcde1234f1z5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "29ABCDE1234F1Z5", body["identifier"])
	assert.Equal(t, float64(29), body["jurisdictionCode"])
	assert.Equal(t, "Karnataka", body["stateName"])
	assert.Equal(t, "ABCDE1234F", body["embeddedPan"])
	assert.Equal(t, false, body["isGovernment"])
}

func TestGetIdentifier_Handler_NoJurisdiction(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodGet, "/api/v1/identifiers/AAAGP1234K", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Nil(t, body["jurisdictionCode"])
	assert.Equal(t, true, body["isGovernment"])
}

// ===========================================
// Field Validation Handler Tests
// ===========================================

func TestValidateField_Handler_Valid(t *testing.T) {
	rejections := new(MockRejectionRecorder)
	r := setupTestRouter(t, rejections)

	w := performJSON(r, http.MethodPost, "/api/v1/validate/pan", map[string]string{"value": " abcpg1234d "})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "pan", body["field"])
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "ABCPG1234D", body["normalized"])
	rejections.AssertNotCalled(t, "RecordValidationRejection", mock.Anything)
}

func TestValidateField_Handler_Rejected(t *testing.T) {
	rejections := new(MockRejectionRecorder)
	rejections.On("RecordValidationRejection", "pincode").Return()
	r := setupTestRouter(t, rejections)

	w := performJSON(r, http.MethodPost, "/api/v1/validate/pincode", map[string]string{"value": "5600"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "PIN code must be exactly 6 digits", body["message"])
	rejections.AssertExpectations(t)
}

func TestValidateField_Handler_UnknownField(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/validate/shoe_size", map[string]string{"value": "9"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Unknown field", body["error"])
	assert.NotEmpty(t, body["fields"])
}

func TestValidateFields_Handler_Batch(t *testing.T) {
	rejections := new(MockRejectionRecorder)
	rejections.On("RecordValidationRejection", "mobile").Return()
	r := setupTestRouter(t, rejections)

	w := performJSON(r, http.MethodPost, "/api/v1/validate", map[string]interface{}{
		"fields": map[string]string{
			"gstin":  "29ABCDE1234F1Z5",
			"mobile": "5123456789",
			"bogus":  "x",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["valid"])

	results, isList := body["results"].([]interface{})
	require.True(t, isList)
	require.Len(t, results, 3)

	// Results are ordered by field name
	first := results[0].(map[string]interface{})
	assert.Equal(t, "bogus", first["field"])
	assert.Equal(t, false, first["valid"])
	second := results[1].(map[string]interface{})
	assert.Equal(t, "gstin", second["field"])
	assert.Equal(t, true, second["valid"])
	third := results[2].(map[string]interface{})
	assert.Equal(t, "mobile", third["field"])
	assert.Equal(t, false, third["valid"])

	rejections.AssertExpectations(t)
}

func TestValidateFields_Handler_MissingFields(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/validate", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===========================================
// Health Handler Tests
// ===========================================

func TestHealthEndpoints(t *testing.T) {
	r := setupTestRouter(t, nil)

	for _, path := range []string{"/health", "/livez", "/readyz"} {
		w := performJSON(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	body := decodeBody(t, performJSON(r, http.MethodGet, "/health", nil))
	assert.Equal(t, "gst-service", body["service"])
}
