package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gst-service/internal/identifier"
	"gst-service/internal/models"
	"gst-service/internal/services"
	"gst-service/internal/validation"
)

// RejectionRecorder counts rejected field validations
type RejectionRecorder interface {
	RecordValidationRejection(field string)
}

// TaxHandler handles GST computation, reconciliation and validation HTTP requests
type TaxHandler struct {
	calculator *services.TaxCalculator
	rejections RejectionRecorder
}

// NewTaxHandler creates a new tax handler. rejections may be nil.
func NewTaxHandler(calculator *services.TaxCalculator, rejections RejectionRecorder) *TaxHandler {
	return &TaxHandler{
		calculator: calculator,
		rejections: rejections,
	}
}

// CalculateTax handles POST /api/v1/tax/compute
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	var req models.ComputeTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	response := h.calculator.CalculateTax(c.Request.Context(), req.ToContext())
	c.JSON(http.StatusOK, response)
}

// CheckBillEligibility handles POST /api/v1/bills/eligibility
func (h *TaxHandler) CheckBillEligibility(c *gin.Context) {
	var req models.BillEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	response := h.calculator.CheckBill(c.Request.Context(), req)
	c.JSON(http.StatusOK, response)
}

// GetIdentifier handles GET /api/v1/identifiers/:id
func (h *TaxHandler) GetIdentifier(c *gin.Context) {
	facts := identifier.Parse(c.Param("id"))

	response := models.IdentifierResponse{
		Identifier:   facts.Normalized,
		StateName:    facts.StateName,
		IsGovernment: facts.IsGovernment,
		EmbeddedPAN:  facts.EmbeddedPAN,
	}
	if facts.JurisdictionOK {
		code := facts.JurisdictionCode
		response.JurisdictionCode = &code
	}

	c.JSON(http.StatusOK, response)
}

// ==================== Field Validation ====================

// ValidateField handles POST /api/v1/validate/:field
func (h *TaxHandler) ValidateField(c *gin.Context) {
	field := c.Param("field")
	validate, found := validation.Lookup(field)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Unknown field",
			"message": fmt.Sprintf("no validator registered for %q", field),
			"fields":  validation.Fields(),
		})
		return
	}

	var req models.ValidateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.verdict(field, validate(req.Value)))
}

// ValidateFields handles POST /api/v1/validate
func (h *TaxHandler) ValidateFields(c *gin.Context) {
	var req models.ValidateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	names := make([]string, 0, len(req.Fields))
	for name := range req.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	response := models.ValidateFieldsResponse{
		Valid:   true,
		Results: make([]models.ValidateFieldResponse, 0, len(names)),
	}
	for _, name := range names {
		var verdict models.ValidateFieldResponse
		if validate, found := validation.Lookup(name); found {
			verdict = h.verdict(name, validate(req.Fields[name]))
		} else {
			verdict = models.ValidateFieldResponse{
				Field:   name,
				Valid:   false,
				Message: fmt.Sprintf("no validator registered for %q", name),
			}
		}
		response.Valid = response.Valid && verdict.Valid
		response.Results = append(response.Results, verdict)
	}

	c.JSON(http.StatusOK, response)
}

func (h *TaxHandler) verdict(field string, res validation.Result) models.ValidateFieldResponse {
	if !res.Valid && h.rejections != nil {
		h.rejections.RecordValidationRejection(field)
	}
	return models.ValidateFieldResponse{
		Field:      field,
		Valid:      res.Valid,
		Message:    res.Message,
		Normalized: res.Normalized,
	}
}
