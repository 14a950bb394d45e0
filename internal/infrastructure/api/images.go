package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

const routeStoredImage = "stored-image"

// StoredImage descarga una imagen ya almacenada del producto para volver a subirla
// en ImageFiles: la API exige los archivos de todas las imágenes que se conservan.
// La URL es pública, no lleva Authorization.
func (c *Client) StoredImage(ctx context.Context, img entity.Image) (dto.FormFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return dto.FormFile{}, fmt.Errorf("api: imagen %s: %w", img.ID, err)
	}
	reqID := newRequestID()
	req.Header.Set(headerRequestID, reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAPIFailure(http.MethodGet, routeStoredImage)
		return dto.FormFile{}, &NetworkError{Method: http.MethodGet, Path: routeStoredImage, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveAPICall(http.MethodGet, routeStoredImage, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// no es una respuesta de la API: un 401 del servidor de imágenes no debe purgar la sesión
		return dto.FormFile{}, fmt.Errorf("api: imagen %s: HTTP %d", img.ID, resp.StatusCode)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, entity.MaxProductImageBytes+1))
	if err != nil {
		return dto.FormFile{}, &NetworkError{Method: http.MethodGet, Path: routeStoredImage, Err: err}
	}
	if len(content) > entity.MaxProductImageBytes {
		return dto.FormFile{}, fmt.Errorf("api: imagen %s supera %d bytes", img.ID, entity.MaxProductImageBytes)
	}

	ct := storedImageType(resp.Header.Get(headerContentType), img.URL)
	ext := "jpg"
	if strings.Contains(ct, "png") {
		ext = "png"
	}
	c.log.Debug().Str("image_id", img.ID).Int("bytes", len(content)).Str("request_id", reqID).Msg("imagen conservada descargada")
	return dto.FormFile{
		Field:       dto.FieldImageFiles,
		Name:        fmt.Sprintf("existing-image-%s.%s", img.ID, ext),
		ContentType: ct,
		Content:     content,
	}, nil
}

// storedImageType tipo aceptado por la API (jpeg, jpg o png). Si el servidor de
// imágenes no manda uno válido se deduce de la extensión, jpeg por defecto.
func storedImageType(header, rawURL string) string {
	h := strings.ToLower(header)
	if strings.Contains(h, "jpeg") || strings.Contains(h, "jpg") || strings.Contains(h, "png") {
		return header
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	if strings.HasSuffix(strings.ToLower(p), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
