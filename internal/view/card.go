package view

import (
	"sort"
	"sync"
)

// Indicator is a badge shown over a product image.
type Indicator string

const (
	IndicatorPersonalized Indicator = "personalized-indicator"
	IndicatorGenerating   Indicator = "generating-indicator"
)

func (i Indicator) Label() string {
	switch i {
	case IndicatorPersonalized:
		return "✨ Personalized"
	case IndicatorGenerating:
		return "🎨 Generating..."
	}
	return ""
}

// Card is the container of one product image and its badges.
type Card struct {
	ProductID int
	Image     *Image

	mu         sync.Mutex
	indicators map[Indicator]struct{}
}

func NewCard(productID int, imageSrc string) *Card {
	return &Card{
		ProductID:  productID,
		Image:      NewImage(imageSrc),
		indicators: make(map[Indicator]struct{}),
	}
}

// AddIndicator shows the badge. It returns false if it was already shown.
func (c *Card) AddIndicator(ind Indicator) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.indicators[ind]; ok {
		return false
	}
	c.indicators[ind] = struct{}{}
	return true
}

func (c *Card) HasIndicator(ind Indicator) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.indicators[ind]
	return ok
}

// RemoveIndicators removes every badge.
func (c *Card) RemoveIndicators() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.indicators)
}

func (c *Card) Indicators() []Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Indicator, 0, len(c.indicators))
	for ind := range c.indicators {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Element is anything that can be switched on and off, such as a slide or
// a pager dot.
type Element struct {
	ID string

	mu     sync.Mutex
	active bool
}

func NewElement(id string) *Element {
	return &Element{ID: id}
}

func (e *Element) SetActive(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = on
}

func (e *Element) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}
