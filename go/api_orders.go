package storefrontserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

// RevenueDateLayout renders revenue buckets as day/month/year.
const RevenueDateLayout = "02/01/2006"

// OrdersAPI wires HTTP transport with the orders bounded context service.
type OrdersAPI struct {
	service  ordersports.Service
	location *time.Location
}

// NewOrdersAPI creates an OrdersAPI. location is the default time zone of the
// revenue series; nil means UTC.
func NewOrdersAPI(service ordersports.Service, location *time.Location) OrdersAPI {
	if location == nil {
		location = time.UTC
	}
	return OrdersAPI{service: service, location: location}
}

// Post /api/orders
// Places an order from the public checkout. A retried request carrying the
// same Idempotency-Key header replays the original order with 200.
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.OrderInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, replayed, err := api.service.PlaceOrder(c.Request.Context(), c.GetHeader(IdempotencyKeyHeader), orderhttpmapper.ToDraft(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	c.JSON(status, orderhttpmapper.FromDomainOrder(order))
}

// Get /admin/api/orders
// Lists orders, newest first, optionally filtered by ?status=
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	var (
		orders []*orderdomain.Order
		err    error
	)
	if raw, ok := c.GetQuery("status"); ok {
		status, parseErr := orderdomain.ParseStatus(raw)
		if parseErr != nil {
			respondError(c, parseErr)
			return
		}
		orders, err = api.service.GetOrdersByStatus(c.Request.Context(), status)
	} else {
		orders, err = api.service.GetOrders(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /admin/api/orders/:id
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /admin/api/orders/:id/status
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	var payload orderhttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	status, err := orderdomain.ParseStatus(payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Delete /admin/api/orders/:id
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	if err := api.service.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /admin/api/orders/stats
// Per-status counts and delivered revenue
func (api *OrdersAPI) OrderStats(c *gin.Context) {
	stats, err := api.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainStats(stats))
}

// Get /admin/api/orders/revenue
// Daily revenue series; ?tz= overrides the bucketing time zone
func (api *OrdersAPI) RevenueSeries(c *gin.Context) {
	loc := api.location
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			respondBadRequest(c, fmt.Errorf("unknown time zone %q", tz))
			return
		}
		loc = parsed
	}
	points, err := api.service.RevenueSeries(c.Request.Context(), loc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromRevenuePoints(points, RevenueDateLayout))
}

// Get /admin/api/orders/status-chart
// Order counts per status, labelled in ?lang= (fr by default)
func (api *OrdersAPI) StatusChart(c *gin.Context) {
	points, err := api.service.StatusSeries(c.Request.Context(), orderdomain.StatusLabeler(c.Query("lang")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromStatusPoints(points))
}
