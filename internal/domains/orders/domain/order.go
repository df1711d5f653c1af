package domain

import (
	"errors"
	"strings"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// Status is an open enum: any known status may follow any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

var (
	ErrMissingCustomer  = errors.New("customer name, phone and address are required")
	ErrNoLines          = errors.New("order must contain at least one product")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrNegativeTotal    = errors.New("total amount must not be negative")
	ErrInvalidStatus    = errors.New("order status is invalid")
	ErrMissingProductID = errors.New("order line product id is required")
	ErrEmptyID          = errors.New("order id is required")
)

type Customer struct {
	Name    string
	Phone   string
	Address string
}

// Line snapshots a product's name and price at checkout.
type Line struct {
	ProductID string
	Name      string
	Price     int64
	Quantity  int64
}

// Draft is an order before it is placed.
type Draft struct {
	Customer    Customer
	Lines       []Line
	TotalAmount int64
}

// Order is a placed order. TotalAmount is stored as submitted.
type Order struct {
	ID string
	Draft
	Status Status
	projection.Metadata
}

// Normalize trims customer fields and line text.
func (d *Draft) Normalize() {
	d.Customer.Name = strings.TrimSpace(d.Customer.Name)
	d.Customer.Phone = strings.TrimSpace(d.Customer.Phone)
	d.Customer.Address = strings.TrimSpace(d.Customer.Address)
	for i := range d.Lines {
		d.Lines[i].ProductID = strings.TrimSpace(d.Lines[i].ProductID)
		d.Lines[i].Name = strings.TrimSpace(d.Lines[i].Name)
	}
}

func (d Draft) Validate() error {
	if d.Customer.Name == "" || d.Customer.Phone == "" || d.Customer.Address == "" {
		return ErrMissingCustomer
	}
	if len(d.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range d.Lines {
		if line.ProductID == "" {
			return ErrMissingProductID
		}
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if line.Price < 0 {
			return ErrNegativePrice
		}
	}
	if d.TotalAmount < 0 {
		return ErrNegativeTotal
	}
	return nil
}

// ParseStatus accepts only the known statuses.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]Line(nil), o.Lines...)
	return &clone
}
