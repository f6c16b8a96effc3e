package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/analytics"
	"github.com/oksasatya/go-storefront/internal/application/catalog"
	"github.com/oksasatya/go-storefront/internal/application/checkout"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/pkg/helpers"
	"github.com/oksasatya/go-storefront/pkg/response"
)

const maxImageBytes = 5 << 20

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// CacheInvalidator drops cached catalog data after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// AdminHandler serves the back-office pages. Optional collaborators may be
// nil: Reports and Mirror need Postgres, Images needs a GCS bucket.
type AdminHandler struct {
	Backend  *api.Client
	Catalog  *catalog.Service
	Cache    CacheInvalidator
	Reports  ReportSource
	Mirror   analytics.MirrorWriter
	Images   ImageUploader
	Notifier *checkout.Notifier
	Clock    analytics.Clock
	Logger   *logrus.Logger
}

// ReportSource serves analytics from a local copy instead of the backend.
type ReportSource interface {
	repository.OrderSource
	repository.ProductSource
}

type analyticsQuery struct {
	Period string `form:"period" binding:"omitempty,period"`
	From   string `form:"from"`
	To     string `form:"to"`
	Top    int    `form:"top" binding:"omitempty,gte=1,lte=50"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string, endOfDay bool) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, l := range dateLayouts {
		t, err := time.ParseInLocation(l, s, time.Local)
		if err != nil {
			continue
		}
		if l == "2006-01-02" && endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, true
	}
	return nil, false
}

func (h *AdminHandler) sources(c *gin.Context) (repository.OrderSource, repository.ProductSource, error) {
	if h.Reports != nil {
		return h.Reports, h.Reports, nil
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

// Analytics handles GET /admin/analytics?period=&from=&to=&top=
func (h *AdminHandler) Analytics(c *gin.Context) {
	var q analyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	from, ok := parseDate(q.From, false)
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"from": "must be a date"})
		return
	}
	to, ok := parseDate(q.To, true)
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"to": "must be a date"})
		return
	}
	orders, products, err := h.sources(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	svc := analytics.NewService(orders, products, h.Clock, h.Logger)
	report, err := svc.Report(c.Request.Context(), analytics.Query{
		Period: analytics.Period(q.Period),
		Range:  analytics.DateRange{From: from, To: to},
		Top:    q.Top,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, report, "")
}

func (h *AdminHandler) Stock(c *gin.Context) {
	orders, products, err := h.sources(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	report, err := analytics.NewService(orders, products, h.Clock, h.Logger).Stock(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, report, "")
}

// LowStock asks the backend for its own low-stock list.
func (h *AdminHandler) LowStock(c *gin.Context) {
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	products, err := client.LowStockProducts(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, products, "")
}

func (h *AdminHandler) Orders(c *gin.Context) {
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	orders, err := client.ListOrders(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, orders, "")
}

// UpdateOrderStatus changes the status and emails the customer.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	order, err := client.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Notifier.OrderStatusChanged(c.Request.Context(), *order)
	response.OK(c, http.StatusOK, order, "order updated")
}

func (h *AdminHandler) catalogChanged(ctx context.Context) {
	if h.Cache != nil {
		h.Cache.Invalidate(ctx)
	}
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var in api.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalid(c, err)
		return
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	p, err := client.CreateProduct(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.catalogChanged(c.Request.Context())
	h.Catalog.Reindex(c.Request.Context(), *p)
	response.OK(c, http.StatusCreated, p, "product created")
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var in api.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalid(c, err)
		return
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	p, err := client.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.catalogChanged(c.Request.Context())
	h.Catalog.Reindex(c.Request.Context(), *p)
	response.OK(c, http.StatusOK, p, "product updated")
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	id := c.Param("id")
	if err := client.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.catalogChanged(c.Request.Context())
	h.Catalog.Unindex(c.Request.Context(), id)
	response.OK[any](c, http.StatusOK, nil, "product deleted")
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var in api.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalid(c, err)
		return
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	cat, err := client.CreateCategory(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, cat, "category created")
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var in api.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalid(c, err)
		return
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	cat, err := client.UpdateCategory(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, cat, "category updated")
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if err := client.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.catalogChanged(c.Request.Context())
	response.OK[any](c, http.StatusOK, nil, "category deleted")
}

// UploadImage stores the multipart "image" field in the bucket, or forwards
// it to the backend when no bucket is configured.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > maxImageBytes {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "must be at most 5MB"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !helpers.AllowedImageType(contentType) {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "must be jpeg, png, webp or gif"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "unreadable"})
		return
	}
	defer f.Close()

	uploader := h.Images
	if uploader == nil {
		client, err := authed(c, h.Backend)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		uploader = client
	}
	url, err := uploader.UploadImage(c.Request.Context(), fh.Filename, contentType, f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"url": url}, "image uploaded")
}

// Reindex rebuilds the product search index from the catalog.
func (h *AdminHandler) Reindex(c *gin.Context) {
	n, err := h.Catalog.ReindexAll(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"indexed": n}, "")
}

// SyncReports refreshes the Postgres reporting copy from the backend.
func (h *AdminHandler) SyncReports(c *gin.Context) {
	if h.Mirror == nil {
		response.Fail(c, http.StatusNotFound, "reporting database not configured", nil)
		return
	}
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	m := &analytics.Mirror{Orders: client, Products: client, Writer: h.Mirror, Logger: h.Logger}
	res, err := m.Sync(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, res, "reports synced")
}
