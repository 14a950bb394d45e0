package entity

// Order pedido construido por envío; no se conserva tras la petición.
type Order struct {
	DeliveryDate     string // YYYY-MM-DD
	Items            []OrderItem
	DeliveryLocation DeliveryLocation
}

// OrderItem línea del pedido.
type OrderItem struct {
	ProductID string
	Quantity  int
}

// DeliveryLocation destino del pedido (ubicación guardada o punto libre en el mapa).
type DeliveryLocation struct {
	Latitude  float64
	Longitude float64
	Name      string
}
