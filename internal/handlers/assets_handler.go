package handlers

import (
	"net/http"

	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AssetsHandler struct {
	service *services.AssetsService
}

func NewAssetsHandler(service *services.AssetsService) *AssetsHandler {
	return &AssetsHandler{service: service}
}

// Assets scrapes the named bank's account listing. An unknown bank name falls
// back to the default scraper inside the registry.
func (h *AssetsHandler) Assets(c *gin.Context) {
	userName := c.Query("userName")
	password := c.Query("password")
	if userName == "" || password == "" {
		respondError(c, http.StatusUnauthorized, "Username or Password is missing.", nil)
		return
	}

	assets, err := h.service.GetAssets(c.Request.Context(), c.Param("bank"), userName, password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}
