package http_test

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
	apphttp "github.com/jhoicas/distribo-web/internal/interfaces/http"
)

type upload struct {
	field       string
	name        string
	contentType string
	content     []byte
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nimagen")

func postMultipart(t *testing.T, app *fiber.App, target string, fields [][2]string, files []upload, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, w.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return do(t, app, req, cookies...)
}

// sentForm decodifica el multipart que recibió la API falsa.
func sentForm(t *testing.T, call apiCall) *multipart.Form {
	t.Helper()
	mt, params, err := mime.ParseMediaType(call.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mt)
	form, err := multipart.NewReader(bytes.NewReader(call.Body), params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func fileContent(t *testing.T, fh *multipart.FileHeader) []byte {
	t.Helper()
	f, err := fh.Open()
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// create-product.html
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_MultipartConUnaImagen(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	f.on(http.MethodPost, "/products", http.StatusCreated, `{"data":{"id":"p9"}}`)
	app := buildApp(t, f, nil)

	resp, body := postMultipart(t, app, "/create-product.html",
		[][2]string{
			{"Name", "Tomate"},
			{"Description", "Chonto"},
			{"Price", "2.5"},
			{"Stock.Value", "10"},
			{"StockNewUnit", "0"},
		},
		[]upload{{field: "ImageFiles", name: "tomate.png", contentType: "image/png", content: pngBytes}},
		tokenCookie(t, "Admin"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, apphttp.MsgProductCreated)
	assert.Contains(t, body, `content="1.5;url=/profile.html"`)

	calls := f.callsTo(http.MethodPost, "/products")
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].Header.Get("Authorization"), "Bearer "))
	form := sentForm(t, calls[0])
	assert.Equal(t, []string{"Tomate"}, form.Value["Name"])
	assert.Equal(t, []string{"Chonto"}, form.Value["Description"])
	assert.Equal(t, []string{"2.5"}, form.Value["Price"])
	assert.Equal(t, []string{"10"}, form.Value["Stock.Value"])
	assert.Equal(t, []string{"0"}, form.Value["Stock.Unit"], "StockNewUnit sustituye a Stock.Unit ausente")

	require.Len(t, form.File["ImageFiles"], 1)
	img := form.File["ImageFiles"][0]
	assert.Equal(t, "tomate.png", img.Filename)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"))
	assert.Equal(t, pngBytes, fileContent(t, img))
}

func TestCreateProduct_ImagenSobreElLimiteNoLlegaALaAPI(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	f.on(http.MethodPost, "/products", http.StatusCreated, `{"data":{}}`)
	app := buildApp(t, f, nil)

	big := bytes.Repeat([]byte{0}, entity.MaxProductImageBytes+5*1024*1024)
	resp, body := postMultipart(t, app, "/create-product.html",
		[][2]string{{"Name", "Tomate"}, {"Description", "Chonto"}, {"Price", "2.5"}},
		[]upload{{field: "ImageFiles", name: "grande.png", contentType: "image/png", content: big}},
		tokenCookie(t, "Admin"))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "grande.png exceeds the 10MB size limit")
	assert.Contains(t, body, `value="Tomate"`, "el formulario conserva lo escrito")
	assert.Empty(t, f.callsTo(http.MethodPost, "/products"))
}

func TestCreateProduct_FormularioSinArchivos(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	app := buildApp(t, f, nil)

	resp, body := postForm(t, app, "/create-product.html",
		url.Values{"Name": {"Tomate"}, "Description": {"Chonto"}, "Price": {"2.5"}},
		tokenCookie(t, "Admin"))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "At least one product image is required")
	assert.Empty(t, f.callsTo(http.MethodPost, "/products"))
}

// ──────────────────────────────────────────────────────────────────────────────
// update-product.html
// ──────────────────────────────────────────────────────────────────────────────

func productWithImages(f *fakeAPI) string {
	return `{"data":{"id":"p1","name":"Tomate","description":"Chonto","price":2.5,` +
		`"stock":{"value":10,"unit":0},"images":[` +
		`{"id":"i1","url":"` + f.srv.URL + `/img/1.png"},` +
		`{"id":"i2","url":"` + f.srv.URL + `/img/2.jpg"}]}}`
}

func updateFields() [][2]string {
	return [][2]string{
		{"Name", "Tomate"},
		{"Description", "Chonto"},
		{"Price", "3.5"},
		{"Stock.Value", "7"},
		{"StockNewUnit", "0"},
		{"KeepImageIds", "i1"},
	}
}

func TestUpdateProductPage_PrecargaElProducto(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	f.on(http.MethodGet, "/products/p1", http.StatusOK, productWithImages(f))
	app := buildApp(t, f, nil)

	resp, body := get(t, app, "/update-product.html?id=p1", tokenCookie(t, "Admin"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Tomate"`)
	assert.Contains(t, body, `value="i1" checked`)
	assert.Contains(t, body, `value="i2" checked`)
}

func TestUpdateProduct_SoloImagenesConservadas(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	f.on(http.MethodGet, "/products/p1", http.StatusOK, productWithImages(f))
	f.file("/img/1.png", "application/octet-stream", "PNGDATA")
	f.file("/img/2.jpg", "image/jpeg", "JPGDATA")
	f.on(http.MethodPut, "/products/p1", http.StatusOK, `{"data":{}}`)
	app := buildApp(t, f, nil)

	resp, body := postMultipart(t, app, "/update-product.html?id=p1", updateFields(), nil, tokenCookie(t, "Admin"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, apphttp.MsgProductUpdated)
	assert.Contains(t, body, `content="1.5;url=/product-detail.html?id=p1"`)

	calls := f.callsTo(http.MethodPut, "/products/p1")
	require.Len(t, calls, 1)
	form := sentForm(t, calls[0])
	assert.Equal(t, []string{"Tomate"}, form.Value["Name"])
	assert.Equal(t, []string{"Chonto"}, form.Value["Description"])
	assert.Equal(t, []string{"3.5"}, form.Value["Price"])
	assert.Equal(t, []string{"0"}, form.Value["StockNewUnit"])
	assert.Equal(t, []string{"7"}, form.Value["Stock.Value"])
	assert.Equal(t, []string{"i1"}, form.Value["KeepImageIds"])

	require.Len(t, form.File["ImageFiles"], 1, "la imagen conservada se reenvía")
	img := form.File["ImageFiles"][0]
	assert.Equal(t, "existing-image-i1.png", img.Filename)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"), "tipo deducido de la extensión")
	assert.Equal(t, []byte("PNGDATA"), fileContent(t, img))

	assert.Len(t, f.callsTo(http.MethodGet, "/img/1.png"), 1)
	assert.Empty(t, f.callsTo(http.MethodGet, "/img/2.jpg"), "i2 no se conserva")
}

func TestUpdateProduct_ImagenConservadaNoDisponible(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	f.on(http.MethodGet, "/products/p1", http.StatusOK, productWithImages(f))
	app := buildApp(t, f, nil)

	resp, body := postMultipart(t, app, "/update-product.html?id=p1", updateFields(), nil, tokenCookie(t, "Admin"))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, apphttp.MsgKeptImagesFailed)
	assert.Empty(t, f.callsTo(http.MethodPut, "/products/p1"))
	assert.Nil(t, responseCookie(resp, "token"), "un fallo del servidor de imágenes no purga la sesión")
}

func TestUpdateProduct_401PurgaSesion(t *testing.T) {
	f := newFakeAPI(t)
	f.me("Admin")
	f.on(http.MethodGet, "/products/p1", http.StatusOK, productWithImages(f))
	f.file("/img/1.png", "image/png", "PNGDATA")
	f.on(http.MethodPut, "/products/p1", http.StatusUnauthorized, `{"message":"expired"}`)
	app := buildApp(t, f, nil)

	resp, body := postMultipart(t, app, "/update-product.html?id=p1", updateFields(), nil,
		tokenCookie(t, "Admin"), &http.Cookie{Name: "user", Value: "x"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, classify.MsgUnauthorized)
	assert.Contains(t, body, `url=/login.html`)
	assertCleared(t, resp, "token")
	assertCleared(t, resp, "user")
}

func TestUpdateProduct_NoAdminPurgaYVaALogin(t *testing.T) {
	for _, role := range []string{"User", "RootUser", "Distributor"} {
		t.Run(role, func(t *testing.T) {
			f := newFakeAPI(t)
			f.me(role)
			f.on(http.MethodGet, "/products/p1", http.StatusOK, productWithImages(f))
			app := buildApp(t, f, nil)
			cookies := []*http.Cookie{tokenCookie(t, role), {Name: "user", Value: "x"}}

			resp, _ := get(t, app, "/update-product.html?id=p1", cookies...)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/login.html", resp.Header.Get("Location"))
			assertCleared(t, resp, "token")
			assertCleared(t, resp, "user")

			resp, _ = postMultipart(t, app, "/update-product.html?id=p1", updateFields(), nil, cookies...)
			assert.Equal(t, "/login.html", resp.Header.Get("Location"))
			assert.Empty(t, f.callsTo(http.MethodPut, "/products/p1"))
		})
	}
}
