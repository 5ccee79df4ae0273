package fakecanvas

import (
	"sync"
	"time"

	"place-bot/painter/domain"
)

// Board é o canvas em memória. Todas as células começam no índice 0.
type Board struct {
	mu     sync.RWMutex
	width  uint32
	height uint32
	cells  []domain.Pixel
}

func NewBoard(width, height uint32) *Board {
	b := &Board{width: width, height: height, cells: make([]domain.Pixel, uint64(width)*uint64(height))}
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			b.cells[b.index(x, y)] = domain.Pixel{X: x, Y: y}
		}
	}
	return b
}

func (b *Board) index(x, y uint32) uint64 { return uint64(y)*uint64(b.width) + uint64(x) }

func (b *Board) Contains(x, y uint32) bool { return x < b.width && y < b.height }

func (b *Board) Get(x, y uint32) (domain.Pixel, bool) {
	if !b.Contains(x, y) {
		return domain.Pixel{}, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cells[b.index(x, y)], true
}

func (b *Board) Set(x, y uint32, color uint8, user string) bool {
	if !b.Contains(x, y) {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells[b.index(x, y)] = domain.Pixel{
		X:         x,
		Y:         y,
		Color:     color,
		UserName:  user,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	}
	return true
}

// Matches informa se a região começando em off já reproduz img.
func (b *Board) Matches(img *domain.ReferenceImage, off domain.Offset) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for y := uint32(0); y < img.Height; y++ {
		for x := uint32(0); x < img.Width; x++ {
			ax, ay := off.X+x, off.Y+y
			if !b.Contains(ax, ay) || b.cells[b.index(ax, ay)].Color != img.At(x, y) {
				return false
			}
		}
	}
	return true
}
