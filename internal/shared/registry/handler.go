package registry

import (
	"net/http"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/middleware"
	"github.com/gin-gonic/gin"
)

// Handler exposes the registry store over HTTP.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	URL        string `json:"url" validate:"required,url"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// RegisterRoutes mounts the registry endpoints on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	r := router.Group("/registry/services")
	{
		r.POST("", h.register)
		r.GET("", h.list)
		r.GET("/:name", h.lookup)
		r.DELETE("/:name", h.deregister)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	inst := h.store.Register(req.Name, req.URL, time.Duration(req.TTLSeconds)*time.Second)
	c.JSON(http.StatusOK, inst)
}

func (h *Handler) lookup(c *gin.Context) {
	inst, ok := h.store.Lookup(c.Param("name"))
	if !ok {
		middleware.RespondWithError(c, http.StatusNotFound, "Service not registered")
		return
	}
	c.JSON(http.StatusOK, inst)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

func (h *Handler) deregister(c *gin.Context) {
	h.store.Deregister(c.Param("name"))
	c.Status(http.StatusNoContent)
}
