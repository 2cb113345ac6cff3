package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopstack/catalogd/internal/services"
	apperrors "github.com/shopstack/catalogd/pkg/errors"
	"github.com/shopstack/catalogd/pkg/logger"
	"github.com/shopstack/catalogd/pkg/response"
)

// ProductHandler delivers the product catalog endpoints.
type ProductHandler struct {
	service *services.CatalogService
}

// NewProductHandler constructs a ProductHandler instance.
func NewProductHandler(service *services.CatalogService) (*ProductHandler, error) {
	if service == nil {
		return nil, errors.New("handlers: catalog service must be provided")
	}
	return &ProductHandler{service: service}, nil
}

// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid product payload"))
		return
	}

	product, err := h.service.Create(requestContext(c), input)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	useCache := true
	if raw, ok := c.GetQuery("use_cache"); ok {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("use_cache must be a boolean"))
			return
		}
		useCache = parsed
	}

	products, err := h.service.List(requestContext(c), useCache)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, products)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.service.Get(requestContext(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid product payload"))
		return
	}

	product, err := h.service.Update(requestContext(c), id, input)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(requestContext(c), id); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func productID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(c, apperrors.NewBadRequest("product id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func (h *ProductHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		response.Error(c, apperrors.ErrNotFound)
	case errors.Is(err, services.ErrInvalidInput):
		response.Error(c, apperrors.NewBadRequest(err.Error()))
	default:
		logger.Error("catalog request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
	}
}
