package devstore

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotedesk/internal/observability/logger"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/pkg/db/pagination"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log.Named("devstore.http")}
}

// Register mounts the store contract under /api.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/quotations", h.ListQuotations)
	api.POST("/quotations", h.CreateQuotation)
	api.GET("/quotations/:id", h.GetQuotation)
	api.PUT("/quotations/:id", h.UpdateQuotation)
	api.DELETE("/quotations/:id", h.DeleteQuotation)

	api.GET("/inventory/", h.ListInventory)
	api.POST("/inventory/", h.CreateInventory)
	api.PUT("/inventory/:id", h.UpdateInventory)
	api.DELETE("/inventory/:id", h.DeleteInventory)

	api.GET("/company/info", h.CompanyInfo)
}

func (h *Handler) ListQuotations(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Error: "Invalid pagination parameters"})
		return
	}
	resp, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetQuotation(c *gin.Context) {
	q, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) CreateQuotation(c *gin.Context) {
	var body contract.Quotation
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Error: "Invalid request body"})
		return
	}
	id, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.MessageBody{Message: "Quotation created", ID: id})
}

func (h *Handler) UpdateQuotation(c *gin.Context) {
	var body contract.Quotation
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Error: "Invalid request body"})
		return
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("id"), body); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageBody{Message: "Quotation updated"})
}

func (h *Handler) DeleteQuotation(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageBody{Message: "Quotation deleted"})
}

func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.svc.Inventory(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateInventory(c *gin.Context) {
	var in InventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Error: "Invalid request body"})
		return
	}
	item, err := h.svc.CreateInventory(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateInventory(c *gin.Context) {
	var in InventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Error: "Invalid request body"})
		return
	}
	if err := h.svc.UpdateInventory(c.Request.Context(), c.Param("id"), in); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageBody{Message: "Item updated"})
}

func (h *Handler) DeleteInventory(c *gin.Context) {
	if err := h.svc.DeleteInventory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageBody{Message: "Item deleted"})
}

func (h *Handler) CompanyInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CompanyInfo())
}

// fail writes the store's error envelope: {"errors":[...]} for validation,
// {"error": "..."} otherwise.
func (h *Handler) fail(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Errors: []string{vErr.Message}})
	case errors.Is(err, ErrMissingFields):
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Errors: []string{"Please fill all fields"}})
	case errors.Is(err, ErrNegativeRate):
		c.JSON(http.StatusBadRequest, contract.ErrorBody{Errors: []string{"Rate cannot be negative"}})
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, contract.ErrorBody{Error: "Not found"})
	case errors.Is(err, ErrDuplicateItem):
		c.JSON(http.StatusConflict, contract.ErrorBody{Error: "An item with this description already exists"})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("store request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, contract.ErrorBody{Error: "Internal server error"})
	}
}
