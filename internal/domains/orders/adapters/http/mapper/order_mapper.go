package mapper

import (
	"time"

	orderdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

// OrderProduct is one checkout line.
type OrderProduct struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// OrderInput is the public checkout payload.
type OrderInput struct {
	CustomerName    string         `json:"customerName"`
	CustomerPhone   string         `json:"customerPhone"`
	CustomerAddress string         `json:"customerAddress"`
	Products        []OrderProduct `json:"products"`
	TotalAmount     int64          `json:"totalAmount"`
}

// Order represents the transport-layer shape of a placed order.
type Order struct {
	ID string `json:"id"`
	OrderInput
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

type Stats struct {
	Pending          int   `json:"pending"`
	Processing       int   `json:"processing"`
	Shipped          int   `json:"shipped"`
	Delivered        int   `json:"delivered"`
	Cancelled        int   `json:"cancelled"`
	Total            int64 `json:"total"`
	DeliveredRevenue int64 `json:"deliveredRevenue"`
}

type RevenuePoint struct {
	Date             string `json:"date"`
	Revenue          int64  `json:"revenue"`
	DeliveredRevenue int64  `json:"deliveredRevenue"`
}

type StatusPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ToDraft converts a checkout payload into an order draft.
func ToDraft(in OrderInput) orderdomain.Draft {
	lines := make([]orderdomain.Line, 0, len(in.Products))
	for _, p := range in.Products {
		lines = append(lines, orderdomain.Line{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: p.Quantity})
	}
	return orderdomain.Draft{
		Customer:    orderdomain.Customer{Name: in.CustomerName, Phone: in.CustomerPhone, Address: in.CustomerAddress},
		Lines:       lines,
		TotalAmount: in.TotalAmount,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	products := make([]OrderProduct, 0, len(order.Lines))
	for _, l := range order.Lines {
		products = append(products, OrderProduct{ID: l.ProductID, Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	return Order{
		ID: order.ID,
		OrderInput: OrderInput{
			CustomerName:    order.Customer.Name,
			CustomerPhone:   order.Customer.Phone,
			CustomerAddress: order.Customer.Address,
			Products:        products,
			TotalAmount:     order.TotalAmount,
		},
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func FromDomainOrders(orders []*orderdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomainOrder(o))
	}
	return out
}

func FromDomainStats(s orderdomain.Stats) Stats {
	return Stats(s)
}

// FromRevenuePoints renders each day with layout, e.g. "02/01/2006".
func FromRevenuePoints(points []orderdomain.RevenuePoint, layout string) []RevenuePoint {
	out := make([]RevenuePoint, 0, len(points))
	for _, p := range points {
		out = append(out, RevenuePoint{Date: p.Day.Format(layout), Revenue: p.Revenue, DeliveredRevenue: p.DeliveredRevenue})
	}
	return out
}

func FromStatusPoints(points []orderdomain.StatusPoint) []StatusPoint {
	out := make([]StatusPoint, 0, len(points))
	for _, p := range points {
		out = append(out, StatusPoint(p))
	}
	return out
}
