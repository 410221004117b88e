package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent   = errors.New("qrcode.empty_content")
	ErrGenerateFailed = errors.New("qrcode.generate_failed")
)

// DefaultSize is the image width in pixels used when size is not positive.
const DefaultSize = 256

// MaxSize caps the image width.
const MaxSize = 1024

// Generate renders content as a PNG of size x size pixels with medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	size = min(size, MaxSize)

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerateFailed, err)
	}
	return png, nil
}

// DataURI renders content as a "data:image/png;base64,..." string for inline HTML images.
func DataURI(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
