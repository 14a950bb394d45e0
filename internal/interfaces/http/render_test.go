package http

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

func TestNewRenderer_TodasLasPlantillas(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	for _, name := range pageNames {
		assert.Contains(t, r.pages, name)
	}
}

func TestNewRefresh(t *testing.T) {
	r := NewRefresh("products.html", 1500*time.Millisecond)
	assert.Equal(t, "1.5;url=/products.html", r.Content)
	assert.Equal(t, "0;url=/login.html", NewRefresh("login.html", 0).Content)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$2.50", formatPrice(decimal.RequireFromString("2.5")))
	assert.Equal(t, "$0.00", formatPrice(decimal.Zero))
	assert.Equal(t, "N/A", formatStock(nil))
	assert.Equal(t, "12.5 KG", formatStock(&entity.Stock{Value: decimal.RequireFromString("12.50")}))
	assert.Equal(t, "AN", initials("ana@acme.co"))
	assert.Equal(t, "?", initials(""))
}

func TestBackTo_SoloRutasPropias(t *testing.T) {
	assert.Equal(t, "/profile.html", backTo("http://localhost:3000/profile.html"))
	assert.Equal(t, "/product-detail.html?id=7", backTo("http://localhost/product-detail.html?id=7"))
	assert.Equal(t, "/products.html", backTo(""))
	assert.Equal(t, "/products.html", backTo("https://x.example//evil"))
}

func TestNewProfileView_Variantes(t *testing.T) {
	company := &entity.Company{ID: "c1"}

	v := newProfileView(gate.Decision{Role: entity.RoleAdmin})
	assert.True(t, v.ShowRegisterUser)
	assert.True(t, v.ShowCreateProduct)
	assert.False(t, v.ShowCompany)

	v = newProfileView(gate.Decision{Role: entity.RoleRootUser, Company: company, HasCompany: true})
	assert.True(t, v.ShowDeleteCompany)
	assert.True(t, v.ShowAddLocation)
	assert.True(t, v.ManageLocations)
	assert.False(t, v.ShowCreateCompany)

	v = newProfileView(gate.Decision{Role: entity.RoleRootUser})
	assert.True(t, v.ShowCreateCompany)
	assert.False(t, v.ShowRegisterUser)

	v = newProfileView(gate.Decision{Role: entity.RoleUser, Company: company, HasCompany: true})
	assert.True(t, v.ShowCompany)
	assert.False(t, v.ManageLocations)

	v = newProfileView(gate.Decision{Role: entity.RoleDistributor})
	assert.Equal(t, ProfileView{Role: entity.RoleDistributor}, v)
}

func TestLoginLimiter_RafagaYLimpieza(t *testing.T) {
	l := NewLoginLimiter(60, 2)
	defer l.Stop()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"), "ráfaga agotada")
	assert.True(t, l.Allow("2.2.2.2"), "cada IP tiene su bucket")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "un token por segundo")

	now = now.Add(time.Hour)
	l.cleanup()
	assert.Zero(t, l.Len())
}
