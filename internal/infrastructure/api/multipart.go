package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/jhoicas/distribo-web/internal/application/dto"
)

// Multipart cuerpo multipart/form-data (subida de imágenes de producto).
type Multipart struct {
	fields [][2]string
	files  []File
}

// File archivo a adjuntar.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// NewMultipart crea un cuerpo vacío.
func NewMultipart() *Multipart { return &Multipart{} }

// AddField agrega un campo de texto (se conserva el orden).
func (m *Multipart) AddField(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// AddFile agrega un archivo.
func (m *Multipart) AddFile(f File) *Multipart {
	m.files = append(m.files, f)
	return m
}

// MultipartFrom arma el cuerpo desde un envío de producto.
func MultipartFrom(u dto.ProductUpload) *Multipart {
	m := NewMultipart()
	for _, f := range u.Fields {
		m.AddField(f.Name, f.Value)
	}
	for _, f := range u.Files {
		m.AddFile(File{Field: f.Field, Name: f.Name, ContentType: f.ContentType, Content: f.Content})
	}
	return m
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("campo %s: %w", f[0], err)
		}
	}
	for _, f := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("archivo %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("archivo %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
