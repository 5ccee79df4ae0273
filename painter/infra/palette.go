package infra

import (
	"image/color"

	"place-bot/painter/domain"
)

// Palette é a tabela fixa e ordenada de cores aceitas pelo canvas.
// O índice de cada entrada é o valor enviado no campo color.
var Palette = [domain.PaletteSize]color.RGBA{
	{255, 255, 255, 255},
	{228, 228, 228, 255},
	{136, 136, 136, 255},
	{34, 34, 34, 255},
	{255, 167, 209, 255},
	{229, 0, 0, 255},
	{229, 149, 0, 255},
	{160, 106, 66, 255},
	{229, 217, 0, 255},
	{148, 224, 68, 255},
	{2, 190, 1, 255},
	{0, 211, 221, 255},
	{0, 131, 199, 255},
	{0, 0, 234, 255},
	{207, 110, 228, 255},
	{130, 0, 128, 255},
}

// PaletteIndex devolve o índice da entrada com RGB exatamente igual a c.
// Cores fora da paleta devolvem (0, false). Alpha é ignorado.
func PaletteIndex(c color.Color) (uint8, bool) {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	for i, p := range Palette {
		if p.R == r8 && p.G == g8 && p.B == b8 {
			return uint8(i), true
		}
	}
	return 0, false
}
