package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

type fakeRecorder struct {
	mu       sync.Mutex
	calls    []int
	failures int
}

func (f *fakeRecorder) ObserveAPICall(_, _ string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, status)
}

func (f *fakeRecorder) ObserveAPIFailure(string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
}

func token(tok string) TokenSource {
	return func() (string, bool) { return tok, tok != "" }
}

func TestDo_AdjuntaBearerYJSON(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"email":"a@b.co","role":{"name":"Admin"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/v1/")
	resp, err := c.Do(context.Background(), token("abc.def.ghi"), Request{Method: http.MethodGet, Path: "/users/me", Auth: true})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	require.NotNil(t, got)
	assert.Equal(t, "/v1/users/me", got.URL.Path)
	assert.Equal(t, "Bearer abc.def.ghi", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Len(t, got.Header.Get("X-Request-ID"), 26, "ULID")
}

func TestDo_SinAuthNoEnviaToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Do(context.Background(), token("x.y.z"), Request{Method: http.MethodPost, Path: "/users/login"})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestDo_ErroresHTTPNoSonErrorDeTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"taken","code":"NameIsTaken"}`))
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	resp, err := NewClient(srv.URL, WithRecorder(rec)).Do(context.Background(), nil, Request{Method: http.MethodPost, Path: "/companies"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.Status)

	p, ok := resp.Problem()
	require.True(t, ok)
	assert.Equal(t, "NameIsTaken", p.Code)

	appErr := resp.Err()
	require.Error(t, appErr)
	assert.True(t, errors.Is(appErr, domain.ErrConflict))
	assert.Equal(t, []int{http.StatusConflict}, rec.calls)
}

func TestDo_FalloDeRedEsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &fakeRecorder{}
	_, err := NewClient(url, WithRecorder(rec)).Do(context.Background(), nil, Request{Method: http.MethodGet, Path: "/products"})
	require.Error(t, err)
	var ne *NetworkError
	assert.True(t, errors.As(err, &ne))
	assert.True(t, errors.Is(err, domain.ErrNetwork))
	assert.Equal(t, 1, rec.failures)
}

func TestResponse_ProblemConCuerpoNoJSON(t *testing.T) {
	r := &Response{Status: 500, Body: []byte("<html>oops</html>")}
	_, ok := r.Problem()
	assert.False(t, ok)

	var ae *ApplicationError
	require.True(t, errors.As(r.Err(), &ae))
	assert.Equal(t, 500, ae.Status)
	assert.Empty(t, ae.Message)
}

func TestDo_MultipartUsaSuPropioContentType(t *testing.T) {
	var (
		ct    string
		name  string
		files []string
		types []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		name = r.FormValue(dto.FieldProductName)
		for _, fh := range r.MultipartForm.File[dto.FieldImageFiles] {
			files = append(files, fh.Filename)
			types = append(types, fh.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	body := dto.ProductUpload{
		Fields: []dto.FormField{{Name: dto.FieldProductName, Value: "Tomate"}},
		Files:  []dto.FormFile{{Field: dto.FieldImageFiles, Name: "a.png", ContentType: "image/png", Content: []byte("png")}},
	}

	g := NewClient(srv.URL).Gateway(token("a.b.c"))
	require.NoError(t, g.CreateProduct(context.Background(), body))

	assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="), ct)
	assert.Equal(t, "Tomate", name)
	assert.Equal(t, []string{"a.png"}, files)
	assert.Equal(t, []string{"image/png"}, types)
}

func TestGateway_LoginVariantesDeToken(t *testing.T) {
	cases := map[string]struct {
		body    string
		token   string
		profile bool
	}{
		"data string": {`{"data":"h.p.s"}`, "h.p.s", false},
		"token plano": {`{"token":"h.p.s"}`, "h.p.s", false},
		"data.token":  {`{"data":{"token":"h.p.s","email":"a@b.co","role":{"name":"RootUser"}}}`, "h.p.s", true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var in dto.LoginRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, "a@b.co", in.Email)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			res, err := NewClient(srv.URL).Gateway(nil).Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "x"})
			require.NoError(t, err)
			assert.Equal(t, tc.token, res.Token)
			if tc.profile {
				require.NotNil(t, res.Profile)
				assert.Equal(t, entity.RoleRootUser, res.Profile.Role)
			} else {
				assert.Nil(t, res.Profile)
			}
		})
	}
}

func TestGateway_LoginSinToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Gateway(nil).Login(context.Background(), dto.LoginRequest{})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestGateway_MyCompany404YDataVacia(t *testing.T) {
	status := http.StatusNotFound
	body := `{"message":"not found"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()
	g := NewClient(srv.URL).Gateway(token("a.b.c"))

	_, err := g.MyCompany(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	status, body = http.StatusOK, `{"data":null}`
	_, err = g.MyCompany(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	body = `{"data":{"id":7,"name":"ACME","locations":[{"id":1,"name":"HQ","latitude":1.5,"longitude":2.5}]}}`
	c, err := g.MyCompany(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", c.ID)
	require.Len(t, c.Locations, 1)
	assert.Equal(t, "HQ", c.Locations[0].Name)
}

func TestGateway_DeletesUsanQueryID(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	g := NewClient(srv.URL).Gateway(token("a.b.c"))

	require.NoError(t, g.DeleteCompany(context.Background(), "12"))
	require.NoError(t, g.DeleteLocation(context.Background(), "34"))
	require.NoError(t, g.DeleteProduct(context.Background(), "p 1"))
	assert.Equal(t, []string{"/companies?id=12", "/locations?id=34", "/products/p 1?"}, paths)
}

func TestGateway_ListProductsVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL).Gateway(token("a.b.c")).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGateway_CreateOrderEnviaSoloLosCamposDelPedido(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	in := dto.CreateOrderRequest{
		DeliveryDate:     "2030-01-02",
		Items:            []dto.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		DeliveryLocation: dto.DeliveryLocationRequest{Latitude: 1, Longitude: 2, Name: "HQ"},
	}
	require.NoError(t, NewClient(srv.URL).Gateway(token("a.b.c")).CreateOrder(context.Background(), in))
	assert.Len(t, raw, 3)
	assert.Contains(t, raw, "deliveryDate")
	assert.Contains(t, raw, "items")
	assert.Contains(t, raw, "deliveryLocation")
}
