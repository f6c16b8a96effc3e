package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/catalog"
	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/pkg/response"
)

// CatalogHandler serves the public product and category pages.
type CatalogHandler struct {
	Catalog *catalog.Service
	Backend *api.Client
	Logger  *logrus.Logger
}

func NewCatalogHandler(svc *catalog.Service, backend *api.Client, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: svc, Backend: backend, Logger: logger}
}

// List handles GET /products?q=&category=
func (h *CatalogHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	category := strings.TrimSpace(c.Query("category"))
	products, err := h.Catalog.List(c.Request.Context(), q, category)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, products, "")
}

func (h *CatalogHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	size, _ := strconv.Atoi(c.Query("size"))
	products, err := h.Catalog.Search(c.Request.Context(), q, size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, products, "")
}

// Featured falls back to filtering the full list by the Featured pseudo
// category when the backend endpoint fails.
func (h *CatalogHandler) Featured(c *gin.Context) {
	products, err := h.Backend.FeaturedProducts(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Warn("featured endpoint failed, filtering list")
		products, err = h.Catalog.List(c.Request.Context(), "", entity.FeaturedCategory)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
	}
	response.OK(c, http.StatusOK, products, "")
}

func (h *CatalogHandler) ByCategory(c *gin.Context) {
	products, err := h.Backend.ProductsByCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, products, "")
}

func (h *CatalogHandler) Get(c *gin.Context) {
	p, err := h.Backend.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p, "")
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	cats, err := h.Backend.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, cats, "")
}

func (h *CatalogHandler) TopLevelCategories(c *gin.Context) {
	cats, err := h.Backend.TopLevelCategories(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, cats, "")
}

func (h *CatalogHandler) ChildCategories(c *gin.Context) {
	cats, err := h.Backend.ChildCategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, cats, "")
}
