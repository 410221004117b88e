// Package qrcode renders PNG QR codes with github.com/skip2/go-qrcode.
// It is used to share organization invite links as scannable images.
package qrcode
