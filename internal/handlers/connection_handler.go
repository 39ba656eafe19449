package handlers

import (
	"net/http"

	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/services"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	service *services.ConnectionService
}

func NewConnectionHandler(service *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

// Tree lists the connections store as a directory tree.
func (h *ConnectionHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not read the connections store.", err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Get returns one visitor's log, most recent first. The fileName query
// parameter carries the visitor id, as the legacy clients send it.
func (h *ConnectionHandler) Get(c *gin.Context) {
	records, err := h.service.Get(c.Query("fileName"))
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			respondError(c, http.StatusBadRequest, "File not existing.", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not read the connection log.", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Delete removes one visitor's log. Answers the bare "true" body the legacy
// viewer expects.
func (h *ConnectionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Query("fileName")); err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			respondError(c, http.StatusBadRequest, "File not existing.", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not delete the connection log.", err)
		return
	}
	c.String(http.StatusOK, "true")
}

// Track appends a fingerprint record. The endpoint always answers 200 with a
// bare "true" body; a malformed payload or a storage failure is logged and
// swallowed so tracking can never break the page being tracked.
func (h *ConnectionHandler) Track(c *gin.Context) {
	var payload models.TrackRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		attachError(c, err)
		c.String(http.StatusOK, "true")
		return
	}

	h.service.Track(payload, c.Request.Header, c.ClientIP())
	c.String(http.StatusOK, "true")
}
