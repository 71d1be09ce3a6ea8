package service

import (
	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(content string) ([]byte, error)
}

type DefaultQRGenerator struct {
	Size int
}

func (g DefaultQRGenerator) Generate(content string) ([]byte, error) {
	size := g.Size
	if size == 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
