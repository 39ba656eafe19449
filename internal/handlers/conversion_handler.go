package handlers

import (
	"net/http"

	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ConversionHandler struct {
	service  *services.ConversionService
	validate *validator.Validate
}

func NewConversionHandler(service *services.ConversionService) *ConversionHandler {
	return &ConversionHandler{
		service:  service,
		validate: validator.New(),
	}
}

// Convert answers with a bare rate string for the requested pair.
func (h *ConversionHandler) Convert(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	// ISO 4217 currency codes: three letters
	if err := h.validate.Var(from, "required,alpha,len=3"); err != nil {
		respondError(c, http.StatusUnauthorized, "The source currency code is invalid.", err)
		return
	}
	if err := h.validate.Var(to, "required,alpha,len=3"); err != nil {
		respondError(c, http.StatusUnauthorized, "The target currency code is invalid.", err)
		return
	}

	amount := c.Query("amount")
	if amount == "" {
		amount = "1"
	}

	rate, err := h.service.Convert(c.Request.Context(), from, to, amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.String(http.StatusOK, rate)
}
