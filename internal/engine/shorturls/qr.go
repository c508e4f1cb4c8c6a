package shorturls

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	apperr "shortspace/internal/pkg/errors"
)

// QRCode renders a PNG QR code pointing at the short link. Any member
// of the owning organization may fetch it.
func (s *Service) QRCode(userID, id, shortDomain string, size int) ([]byte, error) {
	u, err := s.visible(userID, id)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		size = 512
	}
	if size < 128 || size > 2048 {
		return nil, apperr.BadRequestField("size", "size must be between 128 and 2048")
	}

	shortLink := fmt.Sprintf("https://%s/%s/%s", shortDomain, u.NamespaceName, u.ShortCode)

	qr, err := qrcode.New(shortLink, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qr.PNG(size)
}
