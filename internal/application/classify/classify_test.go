package classify

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribo-web/internal/domain"
)

type problemErr struct {
	status        int
	code, message string
}

func (p *problemErr) Error() string                  { return fmt.Sprintf("HTTP %d", p.status) }
func (p *problemErr) Problem() (int, string, string) { return p.status, p.code, p.message }

func TestClassify_401PurgaYRedirigeALogin(t *testing.T) {
	out := Classify(http.StatusUnauthorized, []byte(`{"message":"expired"}`))

	assert.Equal(t, MsgUnauthorized, out.Message)
	assert.True(t, out.Effect.Purge)
	require.NotNil(t, out.Effect.Redirect)
	assert.Equal(t, "login.html", out.Effect.Redirect.Target)
	assert.Equal(t, RedirectDelay, out.Effect.Redirect.Delay)
}

func TestClassify_409NameIsTaken(t *testing.T) {
	out := Classify(http.StatusConflict, []byte(`{"message":"x","code":"NameIsTaken"}`))

	assert.Equal(t, "A company with this name already exists. Please choose a different name.", out.Message)
	assert.False(t, out.Effect.Purge)
	assert.Nil(t, out.Effect.Redirect)
}

func TestClassify_TablaDeStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		opts   []Option
		want   string
	}{
		{"400 stock", 400, `{"code":"StockMismatch"}`, nil, "Not enough items in stock to fulfill this order. Please try a smaller quantity or check back later."},
		{"400 pedidos aprobados", 400, `{"code":"HasApprovedOrders"}`, nil, "Cannot delete location because it has approved orders"},
		{"400 última ubicación", 400, `{"code":"CompanyMustHaveOneLocation"}`, nil, "Cannot delete the last location. Companies must have at least one location"},
		{"400 mensaje de la API", 400, `{"message":"Price is required"}`, nil, "Price is required"},
		{"400 sin mensaje", 400, `{}`, []Option{WithBadRequest("Invalid order details.")}, "Invalid order details."},
		{"409 otro código", 409, `{"message":"dup"}`, nil, "dup"},
		{"409 sin mensaje", 409, ``, nil, MsgConflict},
		{"409 forzado", 409, `{"code":"NameIsTaken"}`, []Option{WithConflict("A location with this name already exists for your company")}, "A location with this name already exists for your company"},
		{"409 email", 409, `{"code":"EmailIsTaken"}`, nil, "A company with this email already exists. Please use a different email."},
		{"409 teléfono", 409, `{"code":"PhoneNumberIsTaken"}`, nil, "A company with this phone number already exists. Please use a different phone number."},
		{"409 ya tiene empresa", 409, `{"code":"UserAlreadyHasCompany"}`, nil, "You already have a company associated with your account."},
		{"500", 500, `{"message":"boom"}`, nil, MsgServerError},
		{"502 no JSON", 502, `<html>`, nil, MsgUnexpected},
		{"418 con mensaje", 418, `{"message":"teapot"}`, nil, "teapot"},
		{"2xx", 200, `{"data":{}}`, nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Classify(tc.status, []byte(tc.body), tc.opts...)
			assert.Equal(t, tc.want, out.Message)
			assert.False(t, out.Effect.Purge)
			assert.Nil(t, out.Effect.Redirect)
		})
	}
}

func TestClassify_403RedirigeAProfile(t *testing.T) {
	out := Classify(http.StatusForbidden, nil, WithForbidden("You do not have permission to create products."))

	assert.Equal(t, "You do not have permission to create products.", out.Message)
	assert.False(t, out.Effect.Purge)
	require.NotNil(t, out.Effect.Redirect)
	assert.Equal(t, "profile.html", out.Effect.Redirect.Target)
}

func TestClassify_404ConRedireccionOpcional(t *testing.T) {
	out := Classify(http.StatusNotFound, nil)
	assert.Equal(t, MsgNotFound, out.Message)
	assert.Nil(t, out.Effect.Redirect)

	out = Classify(http.StatusNotFound, nil, WithNotFound("Product not found. It may have been deleted already.", "products.html"))
	assert.Equal(t, "Product not found. It may have been deleted already.", out.Message)
	require.NotNil(t, out.Effect.Redirect)
	assert.Equal(t, "products.html", out.Effect.Redirect.Target)
}

func TestClassifyError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, Outcome{}, ClassifyError(nil))
	})
	t.Run("red", func(t *testing.T) {
		out := ClassifyError(fmt.Errorf("x: %w", domain.ErrNetwork))
		assert.Equal(t, MsgUnexpected, out.Message)
		assert.Nil(t, out.Effect.Redirect)
	})
	t.Run("red con mensaje propio", func(t *testing.T) {
		out := ClassifyError(domain.ErrNetwork, WithNetworkError("An error occurred during login. Please try again later."))
		assert.Equal(t, "An error occurred during login. Please try again later.", out.Message)
	})
	t.Run("validación", func(t *testing.T) {
		out := ClassifyError(domain.Invalid("quantity", "Please enter a valid quantity"))
		assert.Equal(t, "Please enter a valid quantity", out.Message)
	})
	t.Run("respuesta de la API envuelta", func(t *testing.T) {
		err := fmt.Errorf("crear empresa: %w", &problemErr{status: 409, code: "NameIsTaken"})
		out := ClassifyError(err)
		assert.Equal(t, "A company with this name already exists. Please choose a different name.", out.Message)
	})
	t.Run("401 envuelto purga", func(t *testing.T) {
		out := ClassifyError(&problemErr{status: 401})
		assert.True(t, out.Effect.Purge)
	})
	t.Run("not found sin respuesta HTTP", func(t *testing.T) {
		out := ClassifyError(fmt.Errorf("companies/me: %w", domain.ErrNotFound), WithNotFound("Location not found. It may have been already deleted.", ""))
		assert.Equal(t, "Location not found. It may have been already deleted.", out.Message)
	})
}
