package service

import (
	"net/url"

	"qr-dine/diner-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

// TableQRGenerator renders the code printed on a table. Scanning it opens the
// diner's entry point with the table's three identifiers.
type TableQRGenerator struct {
	BaseURL string
	Size    int
}

func (g TableQRGenerator) URL(params domain.ScanParams) string {
	q := url.Values{}
	q.Set("hotelId", params.HotelID)
	q.Set("branchId", params.BranchID)
	q.Set("tableNo", params.TableNo)
	return g.BaseURL + "/qr?" + q.Encode()
}

func (g TableQRGenerator) Generate(params domain.ScanParams) ([]byte, error) {
	if !params.Complete() {
		return nil, domain.ErrMissingScanParams
	}
	size := g.Size
	if size == 0 {
		size = 256
	}
	return qrcode.Encode(g.URL(params), qrcode.Medium, size)
}

var _ QRCodeGenerator = TableQRGenerator{}
