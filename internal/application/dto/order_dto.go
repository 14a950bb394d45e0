package dto

import "github.com/jhoicas/distribo-web/internal/domain/entity"

// CreateOrderRequest entrada para POST /orders. Solo estos campos, sin extras.
type CreateOrderRequest struct {
	DeliveryDate     string                  `json:"deliveryDate"`
	Items            []OrderItemRequest      `json:"items"`
	DeliveryLocation DeliveryLocationRequest `json:"deliveryLocation"`
}

// OrderItemRequest línea del pedido.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// DeliveryLocationRequest destino del pedido.
type DeliveryLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// NewCreateOrderRequest construye el payload desde la entidad.
func NewCreateOrderRequest(o entity.Order) CreateOrderRequest {
	items := make([]OrderItemRequest, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return CreateOrderRequest{
		DeliveryDate: o.DeliveryDate,
		Items:        items,
		DeliveryLocation: DeliveryLocationRequest{
			Latitude:  o.DeliveryLocation.Latitude,
			Longitude: o.DeliveryLocation.Longitude,
			Name:      o.DeliveryLocation.Name,
		},
	}
}
