package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoredImageType(t *testing.T) {
	cases := []struct {
		header, url, want string
	}{
		{"image/png", "http://cdn/x", "image/png"},
		{"image/jpeg; charset=binary", "http://cdn/x.png", "image/jpeg; charset=binary"},
		{"application/octet-stream", "http://cdn/a/1.PNG?v=2", "image/png"},
		{"", "http://cdn/a/1.webp", "image/jpeg"},
		{"text/html", "::no-es-url.png", "image/png"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, storedImageType(tc.header, tc.url), tc.url)
	}
}
