package dto

import (
	"time"

	"cafetab/internal/domain"
)

// OrderItemRequest is a raw line item as submitted by the client. Name, price
// and category are accepted on the wire but discarded during normalization;
// the catalog is authoritative.
type OrderItemRequest struct {
	ItemID   uint    `json:"itemId"`
	Quantity int     `json:"quantity"`
	Note     *string `json:"note,omitempty"`

	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Category string  `json:"category,omitempty"`
}

type CreateOrderRequest struct {
	TableID   uint               `json:"tableId"`
	Items     []OrderItemRequest `json:"items"`
	Notes     *string            `json:"notes,omitempty"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
}

type UpdateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
	Notes *string            `json:"notes,omitempty"`
}

type PayOrderRequest struct {
	PaymentType string `json:"paymentType"`
}

type OrderLineResponse struct {
	ItemID   uint    `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Note     *string `json:"note,omitempty"`
	Subtotal float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID          uint                `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	TableID     uint                `json:"tableId"`
	Items       []OrderLineResponse `json:"items"`
	Status      string              `json:"status"`
	PaymentType *string             `json:"paymentType,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
	Total       float64             `json:"total"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderLineResponse, len(order.Items))
	for i, line := range order.Items {
		items[i] = OrderLineResponse{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Category: line.Category,
			ImageURL: line.ImageURL,
			Note:     line.Note,
			Subtotal: line.Subtotal(),
		}
	}

	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		TableID:     order.TableID,
		Items:       items,
		Status:      order.Status,
		PaymentType: order.PaymentType,
		Notes:       order.Notes,
		Total:       order.Total(),
		CreatedAt:   order.CreatedAt,
	}
}

type MenuItemResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func NewMenuItemResponse(item domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		ImageURL: item.ImageURL,
	}
}
