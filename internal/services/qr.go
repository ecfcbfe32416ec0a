package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"group-verify-bot/internal/constants"
	apperrors "group-verify-bot/internal/errors"
)

// QRService renders the verification entry link as a PNG the admin can post
// or print
type QRService struct {
	level  qrcode.RecoveryLevel
	size   int
	logger *logrus.Logger
}

// NewQRService creates a QR renderer for entry links
func NewQRService(logger *logrus.Logger) *QRService {
	return &QRService{
		level:  qrcode.High,
		size:   constants.QRCodeSize,
		logger: logger,
	}
}

// GenerateQR encodes link. An empty link is refused with a ValidationError.
func (s *QRService) GenerateQR(link string) ([]byte, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, &apperrors.ValidationError{Field: "entry_link", Message: "nothing to encode"}
	}

	code, err := qrcode.New(link, s.level)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry link: %w", err)
	}

	png, err := code.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render entry link QR code: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"link":  link,
		"bytes": len(png),
	}).Debug("Rendered entry link QR code")
	return png, nil
}
