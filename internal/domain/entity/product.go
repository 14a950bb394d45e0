package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo. La fuente de verdad es la API.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       *Stock // nil = sin información de stock
	Images      []Image
}

// Stock cantidad disponible y su unidad.
type Stock struct {
	Value decimal.Decimal
	Unit  string
}

// Image imagen ya almacenada por la API.
type Image struct {
	ID  string
	URL string
}

// Límites de los formularios de producto.
const (
	MaxProductNameLen        = 100
	MaxProductDescriptionLen = 500
	MaxProductImages         = 4
	MaxProductImageBytes     = 10 * 1024 * 1024
)

// MainImage primera imagen o vacío.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// InStock indica si hay stock informado y positivo.
func (p Product) InStock() bool {
	return p.Stock != nil && p.Stock.Value.IsPositive()
}
