// Package slider drives the hero banner carousel.
package slider

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/view"
)

// Keys understood by HandleKey.
const (
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
)

const DefaultInterval = 5 * time.Second

// Slider shows one slide at a time and keeps the matching dot active.
type Slider struct {
	mu       sync.Mutex
	slides   []*view.Element
	dots     []*view.Element
	current  int
	onChange func(index int)
}

// New captures slides and dots and activates the first slide.
func New(slides, dots []*view.Element) *Slider {
	s := &Slider{slides: slides, dots: dots}
	s.mu.Lock()
	s.show(0)
	s.mu.Unlock()
	return s
}

// FromBanners builds a slider with one slide and one dot per banner.
func FromBanners(banners []api.Banner) *Slider {
	slides := make([]*view.Element, len(banners))
	dots := make([]*view.Element, len(banners))
	for i := range banners {
		slides[i] = view.NewElement("slide-" + strconv.Itoa(i+1))
		dots[i] = view.NewElement("dot-" + strconv.Itoa(i+1))
	}
	return New(slides, dots)
}

// OnChange registers fn to be called with the new 0-based index after
// every transition.
func (s *Slider) OnChange(fn func(index int)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Slider) Len() int {
	return len(s.slides)
}

// Current is the 0-based index of the visible slide.
func (s *Slider) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Slider) Next() {
	s.move(func(cur, n int) int { return (cur + 1) % n })
}

func (s *Slider) Previous() {
	s.move(func(cur, n int) int { return (cur - 1 + n) % n })
}

// GoTo shows the n-th slide, counting from 1. Out of range positions are
// ignored and reported as false.
func (s *Slider) GoTo(n int) bool {
	if n < 1 || n > len(s.slides) {
		return false
	}
	s.move(func(int, int) int { return n - 1 })
	return true
}

// HandleKey maps arrow keys to Previous/Next and reports whether the key
// was used.
func (s *Slider) HandleKey(key string) bool {
	switch key {
	case KeyLeft:
		s.Previous()
	case KeyRight:
		s.Next()
	default:
		return false
	}
	return len(s.slides) > 0
}

// Run advances the slider every interval until ctx is done. With no slides
// it returns immediately.
func (s *Slider) Run(ctx context.Context, interval time.Duration) {
	if len(s.slides) == 0 {
		return
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Next()
		}
	}
}

func (s *Slider) move(next func(cur, n int) int) {
	if len(s.slides) == 0 {
		return
	}
	s.mu.Lock()
	idx := next(s.current, len(s.slides))
	s.show(idx)
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(idx)
	}
}

// show must be called with mu held.
func (s *Slider) show(index int) {
	for _, el := range s.slides {
		el.SetActive(false)
	}
	for _, el := range s.dots {
		el.SetActive(false)
	}
	if index >= 0 && index < len(s.slides) {
		s.slides[index].SetActive(true)
		s.current = index
	}
	if index >= 0 && index < len(s.dots) {
		s.dots[index].SetActive(true)
	}
}
