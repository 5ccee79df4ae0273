package domain

import (
	"context"
	"errors"
	"fmt"
)

// PaletteSize é a quantidade de cores aceitas pelo canvas.
const PaletteSize = 16

var ErrEmptyImage = errors.New("reference image has no pixels")

// ReferenceImage é a imagem alvo já quantizada em índices de paleta.
//
// Depois de construída nunca é alterada, então pode ser lida por várias
// goroutines sem lock.
type ReferenceImage struct {
	Width  uint32
	Height uint32
	Pixels []uint8
}

// NewReferenceImage valida dimensões e tamanho do buffer.
func NewReferenceImage(width, height uint32, pixels []uint8) (*ReferenceImage, error) {
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}
	if uint64(len(pixels)) != uint64(width)*uint64(height) {
		return nil, fmt.Errorf("reference image: expected %d pixels for %dx%d, got %d",
			uint64(width)*uint64(height), width, height, len(pixels))
	}
	for i, p := range pixels {
		if p >= PaletteSize {
			return nil, fmt.Errorf("reference image: pixel %d has palette index %d out of range", i, p)
		}
	}
	return &ReferenceImage{Width: width, Height: height, Pixels: pixels}, nil
}

// At devolve o índice de paleta desejado na coordenada relativa (x, y).
func (img *ReferenceImage) At(x, y uint32) uint8 {
	return img.Pixels[uint64(y)*uint64(img.Width)+uint64(x)]
}

// Offset é o deslocamento fixo da imagem dentro do canvas.
type Offset struct {
	X uint32
	Y uint32
}

// Target é o pixel escolhido numa tentativa, já em coordenadas absolutas.
type Target struct {
	X     uint32
	Y     uint32
	Color uint8
}

// Pixel é o estado atual de uma coordenada do canvas, como o oráculo responde.
type Pixel struct {
	X         uint32  `json:"x"`
	Y         uint32  `json:"y"`
	Timestamp float64 `json:"timestamp"`
	UserName  string  `json:"user_name"`
	Color     uint8   `json:"color"`
}

// PixelReader consulta o valor atual de uma coordenada do canvas.
// Falhas abortam a tentativa corrente; não há retry interno.
type PixelReader interface {
	ReadPixel(ctx context.Context, x, y uint32) (Pixel, error)
}
