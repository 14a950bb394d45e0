package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// ErrNoToken login 2xx sin token en el cuerpo.
var ErrNoToken = errors.New("api: login sin token en la respuesta")

// Gateway operaciones tipadas sobre los recursos de la API, ligadas a una fuente de token.
// Toda respuesta no 2xx vuelve como *ApplicationError; la falta de respuesta como *NetworkError.
type Gateway struct {
	c      *Client
	tokens TokenSource
}

// Gateway crea un gateway ligado a tokens.
func (c *Client) Gateway(tokens TokenSource) *Gateway {
	if tokens == nil {
		tokens = NoToken
	}
	return &Gateway{c: c, tokens: tokens}
}

func (g *Gateway) do(ctx context.Context, r Request) (*Response, error) {
	resp, err := g.c.Do(ctx, g.tokens, r)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return resp, err
	}
	return resp, nil
}

// LoginResult token emitido y, si la API lo envía, el objeto de usuario.
type LoginResult struct {
	Token   string
	Profile *entity.UserProfile
}

// Login POST /users/login (sin Authorization).
func (g *Gateway) Login(ctx context.Context, in dto.LoginRequest) (LoginResult, error) {
	resp, err := g.do(ctx, Request{Method: http.MethodPost, Path: "/users/login", Body: in})
	if err != nil {
		return LoginResult{}, err
	}
	tok, raw, ok := dto.ExtractLoginToken(resp.Body)
	if !ok {
		return LoginResult{}, ErrNoToken
	}
	res := LoginResult{Token: tok}
	if raw != nil {
		var u dto.UserResponse
		if err := json.Unmarshal(raw, &u); err == nil && u.Email != "" {
			p := u.ToProfile()
			res.Profile = &p
		}
	}
	return res, nil
}

// Me GET /users/me. Rol ausente se trata como User.
func (g *Gateway) Me(ctx context.Context) (entity.UserProfile, error) {
	resp, err := g.do(ctx, Request{Method: http.MethodGet, Path: "/users/me", Auth: true})
	if err != nil {
		return entity.UserProfile{}, err
	}
	var u dto.UserResponse
	if err := resp.Decode(&u); err != nil {
		return entity.UserProfile{}, fmt.Errorf("users/me: %w", err)
	}
	return u.ToProfile(), nil
}

// RegisterUser POST /users/register.
func (g *Gateway) RegisterUser(ctx context.Context, in dto.RegisterUserRequest) error {
	_, err := g.do(ctx, Request{Method: http.MethodPost, Path: "/users/register", Body: in, Auth: true})
	return err
}

// CreateCompany POST /companies.
func (g *Gateway) CreateCompany(ctx context.Context, in dto.CreateCompanyRequest) error {
	_, err := g.do(ctx, Request{Method: http.MethodPost, Path: "/companies", Body: in, Auth: true})
	return err
}

// MyCompany GET /companies/me. data vacía equivale a 404 (domain.ErrNotFound).
func (g *Gateway) MyCompany(ctx context.Context) (entity.Company, error) {
	resp, err := g.do(ctx, Request{Method: http.MethodGet, Path: "/companies/me", Auth: true})
	if err != nil {
		return entity.Company{}, err
	}
	var c dto.CompanyResponse
	if err := resp.Decode(&c); err != nil {
		if errors.Is(err, ErrEmptyData) {
			return entity.Company{}, fmt.Errorf("companies/me: %w", domain.ErrNotFound)
		}
		return entity.Company{}, fmt.Errorf("companies/me: %w", err)
	}
	if c.Empty() {
		return entity.Company{}, fmt.Errorf("companies/me: %w", domain.ErrNotFound)
	}
	return c.ToEntity(), nil
}

// DeleteCompany DELETE /companies?id=.
func (g *Gateway) DeleteCompany(ctx context.Context, id string) error {
	_, err := g.do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/companies",
		Query:  url.Values{"id": {id}},
		Auth:   true,
	})
	return err
}

// CreateLocation POST /locations.
func (g *Gateway) CreateLocation(ctx context.Context, in dto.LocationRequest) error {
	_, err := g.do(ctx, Request{Method: http.MethodPost, Path: "/locations", Body: in, Auth: true})
	return err
}

// DeleteLocation DELETE /locations?id=.
func (g *Gateway) DeleteLocation(ctx context.Context, id string) error {
	_, err := g.do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/locations",
		Query:  url.Values{"id": {id}},
		Auth:   true,
	})
	return err
}

// ListProducts GET /products.
func (g *Gateway) ListProducts(ctx context.Context) ([]entity.Product, error) {
	resp, err := g.do(ctx, Request{Method: http.MethodGet, Path: "/products", Auth: true})
	if err != nil {
		return nil, err
	}
	var list []dto.ProductResponse
	if err := resp.Decode(&list); err != nil {
		if errors.Is(err, ErrEmptyData) {
			return []entity.Product{}, nil
		}
		return nil, fmt.Errorf("products: %w", err)
	}
	return dto.ToProducts(list), nil
}

// GetProduct GET /products/{id}.
func (g *Gateway) GetProduct(ctx context.Context, id string) (entity.Product, error) {
	resp, err := g.do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(id),
		Route:  "/products/{id}",
		Auth:   true,
	})
	if err != nil {
		return entity.Product{}, err
	}
	var p dto.ProductResponse
	if err := resp.Decode(&p); err != nil {
		if errors.Is(err, ErrEmptyData) {
			return entity.Product{}, fmt.Errorf("products/%s: %w", id, domain.ErrNotFound)
		}
		return entity.Product{}, fmt.Errorf("products/%s: %w", id, err)
	}
	return p.ToEntity(), nil
}

// CreateProduct POST /products (multipart).
func (g *Gateway) CreateProduct(ctx context.Context, in dto.ProductUpload) error {
	_, err := g.do(ctx, Request{Method: http.MethodPost, Path: "/products", Body: MultipartFrom(in), Auth: true})
	return err
}

// UpdateProduct PUT /products/{id} (multipart).
func (g *Gateway) UpdateProduct(ctx context.Context, id string, in dto.ProductUpload) error {
	_, err := g.do(ctx, Request{
		Method: http.MethodPut,
		Path:   "/products/" + url.PathEscape(id),
		Route:  "/products/{id}",
		Body:   MultipartFrom(in),
		Auth:   true,
	})
	return err
}

// DeleteProduct DELETE /products/{id}.
func (g *Gateway) DeleteProduct(ctx context.Context, id string) error {
	_, err := g.do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/products/" + url.PathEscape(id),
		Route:  "/products/{id}",
		Auth:   true,
	})
	return err
}

// CreateOrder POST /orders.
func (g *Gateway) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) error {
	_, err := g.do(ctx, Request{Method: http.MethodPost, Path: "/orders", Body: in, Auth: true})
	return err
}
