package service_test

import (
	"bytes"
	"net/url"
	"testing"

	"qr-dine/diner-svc/internal/domain"
	"qr-dine/diner-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableQRGenerator_URL(t *testing.T) {
	gen := service.TableQRGenerator{BaseURL: "https://dine.example.com"}

	raw := gen.URL(domain.ScanParams{HotelID: "h 1", BranchID: "b1", TableNo: "7"})

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/qr", parsed.Path)
	assert.Equal(t, domain.ScanParams{HotelID: "h 1", BranchID: "b1", TableNo: "7"}, domain.ScanParamsFromQuery(parsed.Query()))
}

func TestTableQRGenerator_Generate(t *testing.T) {
	gen := service.TableQRGenerator{BaseURL: "https://dine.example.com"}

	png, err := gen.Generate(tableParams)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = gen.Generate(domain.ScanParams{HotelID: "h1"})
	assert.ErrorIs(t, err, domain.ErrMissingScanParams)
}
