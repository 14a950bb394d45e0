package forms

import (
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Image archivo subido por el usuario.
type Image struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Product formulario de create-product.html y update-product.html.
type Product struct {
	Name        string
	Description string
	Price       string
	StockValue  string
	StockUnit   string
	Images      []Image
	// KeepImageIDs imágenes ya almacenadas que se conservan (solo actualización).
	KeepImageIDs []string
}

// CheckImages valida cantidad, tamaño y formato. kept son las imágenes que se conservan.
func CheckImages(images []Image, kept int) error {
	if len(images)+kept > entity.MaxProductImages {
		return domain.Invalid(dto.FieldImageFiles, "Maximum 4 images allowed")
	}
	for _, img := range images {
		if img.Size > entity.MaxProductImageBytes {
			return domain.Invalid(dto.FieldImageFiles, fmt.Sprintf("%s exceeds the 10MB size limit", img.Name))
		}
		mt, _, err := mime.ParseMediaType(img.ContentType)
		if err != nil || !acceptedImageTypes[strings.ToLower(mt)] {
			return domain.Invalid(dto.FieldImageFiles,
				fmt.Sprintf("%s is not an accepted image format (JPEG, JPG, PNG only)", img.Name))
		}
	}
	return nil
}

func (p Product) text(period string) (name, desc string, err error) {
	name = Clean(p.Name)
	if name == "" {
		return "", "", domain.Invalid(dto.FieldProductName, "Product name is required"+period)
	}
	if utf8.RuneCountInString(name) > entity.MaxProductNameLen {
		return "", "", domain.Invalid(dto.FieldProductName,
			fmt.Sprintf("Product name must be at most %d characters", entity.MaxProductNameLen))
	}
	desc = Clean(p.Description)
	if desc == "" {
		return "", "", domain.Invalid(dto.FieldProductDescription, "Product description is required"+period)
	}
	if utf8.RuneCountInString(desc) > entity.MaxProductDescriptionLen {
		return "", "", domain.Invalid(dto.FieldProductDescription,
			fmt.Sprintf("Product description must be at most %d characters", entity.MaxProductDescriptionLen))
	}
	return name, desc, nil
}

func (p Product) stockValue() (string, error) {
	v := strings.TrimSpace(p.StockValue)
	if v == "" {
		return "", nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return "", domain.Invalid(dto.FieldStockValue, "Stock value must be a number.")
	}
	if d.IsNegative() {
		return "", domain.Invalid(dto.FieldStockValue, "Stock value cannot be negative.")
	}
	return d.String(), nil
}

func imageFiles(images []Image) []dto.FormFile {
	out := make([]dto.FormFile, 0, len(images))
	for _, img := range images {
		out = append(out, dto.FormFile{
			Field:       dto.FieldImageFiles,
			Name:        img.Name,
			ContentType: img.ContentType,
			Content:     img.Content,
		})
	}
	return out
}

// ParseCreate valida un producto nuevo: precio >= 0, stock con valor y unidad o ninguno,
// entre 1 y 4 imágenes.
func (p Product) ParseCreate() (dto.ProductUpload, error) {
	name, desc, err := p.text("")
	if err != nil {
		return dto.ProductUpload{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil || price.IsNegative() {
		return dto.ProductUpload{}, domain.Invalid(dto.FieldProductPrice, "Valid product price is required")
	}
	if len(p.Images) == 0 {
		return dto.ProductUpload{}, domain.Invalid(dto.FieldImageFiles, "At least one product image is required")
	}
	if err := CheckImages(p.Images, 0); err != nil {
		return dto.ProductUpload{}, err
	}
	unit := strings.TrimSpace(p.StockUnit)
	if (strings.TrimSpace(p.StockValue) == "") != (unit == "") {
		return dto.ProductUpload{}, domain.Invalid(dto.FieldStockValue,
			"Both stock quantity and unit must be provided if adding stock information")
	}
	stock, err := p.stockValue()
	if err != nil {
		return dto.ProductUpload{}, err
	}

	up := dto.ProductUpload{Fields: []dto.FormField{
		{Name: dto.FieldProductName, Value: name},
		{Name: dto.FieldProductDescription, Value: desc},
		{Name: dto.FieldProductPrice, Value: price.String()},
	}}
	if stock != "" {
		up.Fields = append(up.Fields,
			dto.FormField{Name: dto.FieldStockValue, Value: stock},
			dto.FormField{Name: dto.FieldStockUnit, Value: unit},
		)
	}
	up.Files = imageFiles(p.Images)
	return up, nil
}

// ParseUpdate valida una edición: precio > 0 y al menos una imagen entre las
// conservadas y las nuevas.
func (p Product) ParseUpdate() (dto.ProductUpload, error) {
	name, desc, err := p.text(".")
	if err != nil {
		return dto.ProductUpload{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil || !price.IsPositive() {
		return dto.ProductUpload{}, domain.Invalid(dto.FieldProductPrice, "Product price must be greater than zero.")
	}
	stock, err := p.stockValue()
	if err != nil {
		return dto.ProductUpload{}, err
	}
	keep := make([]string, 0, len(p.KeepImageIDs))
	for _, id := range p.KeepImageIDs {
		if id = strings.TrimSpace(id); id != "" {
			keep = append(keep, id)
		}
	}
	if len(p.Images)+len(keep) == 0 {
		return dto.ProductUpload{}, domain.Invalid(dto.FieldImageFiles,
			"At least one product image is required. Please upload an image.")
	}
	if err := CheckImages(p.Images, len(keep)); err != nil {
		return dto.ProductUpload{}, err
	}

	up := dto.ProductUpload{Fields: []dto.FormField{
		{Name: dto.FieldProductName, Value: name},
		{Name: dto.FieldProductDescription, Value: desc},
		{Name: dto.FieldProductPrice, Value: price.String()},
		{Name: dto.FieldStockNewUnit, Value: strings.TrimSpace(p.StockUnit)},
	}}
	if stock != "" {
		up.Fields = append(up.Fields, dto.FormField{Name: dto.FieldStockValue, Value: stock})
	}
	if len(keep) > 0 {
		up.Fields = append(up.Fields, dto.FormField{Name: dto.FieldKeepImageIDs, Value: strings.Join(keep, ",")})
	}
	up.Files = imageFiles(p.Images)
	return up, nil
}
