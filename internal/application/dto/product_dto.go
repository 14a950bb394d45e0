package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Nombres de campo multipart que espera la API de productos.
const (
	FieldProductName        = "Name"
	FieldProductDescription = "Description"
	FieldProductPrice       = "Price"
	FieldStockValue         = "Stock.Value"
	FieldStockUnit          = "Stock.Unit"
	FieldStockNewUnit       = "StockNewUnit"
	FieldImageFiles         = "ImageFiles"
	FieldKeepImageIDs       = "KeepImageIds"
)

// ProductResponse salida de GET /products y GET /products/{id}.
type ProductResponse struct {
	ID          FlexString      `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *StockResponse  `json:"stock"`
	Images      []ImageResponse `json:"images"`
}

// StockResponse stock informado.
type StockResponse struct {
	Value decimal.Decimal `json:"value"`
	Unit  FlexString      `json:"unit"`
}

// ImageResponse imagen almacenada.
type ImageResponse struct {
	ID  FlexString `json:"id"`
	URL string     `json:"url"`
}

// ToEntity convierte a entidad.
func (p ProductResponse) ToEntity() entity.Product {
	out := entity.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Images:      make([]entity.Image, 0, len(p.Images)),
	}
	if p.Stock != nil {
		out.Stock = &entity.Stock{Value: p.Stock.Value, Unit: p.Stock.Unit.String()}
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, entity.Image{ID: img.ID.String(), URL: img.URL})
	}
	return out
}

// ToProducts convierte una lista.
func ToProducts(in []ProductResponse) []entity.Product {
	out := make([]entity.Product, 0, len(in))
	for _, p := range in {
		out = append(out, p.ToEntity())
	}
	return out
}

// FormField campo de texto de un envío multipart.
type FormField struct {
	Name  string
	Value string
}

// FormFile archivo de un envío multipart.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// ProductUpload cuerpo de POST /products y PUT /products/{id}, en orden de envío.
type ProductUpload struct {
	Fields []FormField
	Files  []FormFile
}

// Field devuelve el primer valor del campo.
func (u ProductUpload) Field(name string) (string, bool) {
	for _, f := range u.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
