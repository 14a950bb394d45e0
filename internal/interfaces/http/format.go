package http

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

var printer = message.NewPrinter(language.English)

// formatPrice precio con dos decimales y separador de miles.
func formatPrice(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// formatStock cantidad en KG o N/A si la API no informa stock.
func formatStock(s *entity.Stock) string {
	if s == nil {
		return "N/A"
	}
	return s.Value.String() + " KG"
}
