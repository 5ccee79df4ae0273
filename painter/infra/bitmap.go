package infra

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"

	"place-bot/painter/domain"
)

// LoadBitmap abre a imagem de referência (BMP ou PNG) e quantiza cada pixel
// na paleta fixa.
func LoadBitmap(path string, log zerolog.Logger) (*domain.ReferenceImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode reference image %q: %w", path, err)
	}
	log.Info().Str("path", path).Str("format", format).Msg("reference image loaded")
	return Quantize(img, log)
}

// Quantize converte uma imagem em índices de paleta, em ordem de linha
// (índice = y*width + x). Cor fora da paleta vira índice 0 e gera um warning
// por cor distinta, com a quantidade de ocorrências.
func Quantize(img image.Image, log zerolog.Logger) (*domain.ReferenceImage, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, domain.ErrEmptyImage
	}

	type miss struct {
		count  int
		firstX int
		firstY int
	}
	misses := make(map[color.RGBA]*miss)

	pixels := make([]uint8, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			idx, ok := PaletteIndex(c)
			if !ok {
				key := color.RGBAModel.Convert(c).(color.RGBA)
				if m, seen := misses[key]; seen {
					m.count++
				} else {
					misses[key] = &miss{count: 1, firstX: x, firstY: y}
				}
			}
			pixels = append(pixels, idx)
		}
	}

	for c, m := range misses {
		log.Warn().
			Uints8("rgb", []uint8{c.R, c.G, c.B}).
			Int("count", m.count).
			Int("first_x", m.firstX).
			Int("first_y", m.firstY).
			Msg("unexpected color in reference image, falling back to palette index 0")
	}

	out, err := domain.NewReferenceImage(uint32(w), uint32(h), pixels)
	if err != nil {
		return nil, err
	}
	log.Info().Int("width", w).Int("height", h).Int("unmatched_colors", len(misses)).Msg("reference image quantized")
	return out, nil
}
