// Package view holds the render-independent state of storefront widgets:
// product images with their personalization binding, product cards with
// badges, and toggleable elements.
package view

import (
	"sort"
	"sync"
)

type Event string

const (
	MouseEnter Event = "mouseenter"
	MouseLeave Event = "mouseleave"
)

// ListenerID identifies one registered listener so it can be removed later.
type ListenerID uint64

type Listener func(img *Image)

// Image is a product image element. It tracks which URL is displayed, the
// original and personalized sources, and the listeners attached to it.
// It is safe for concurrent use.
type Image struct {
	mu sync.Mutex

	src             string
	originalURL     string
	personalizedURL string
	personalized    bool

	nextID    ListenerID
	listeners map[Event]map[ListenerID]Listener
	hover     []ListenerID
}

func NewImage(src string) *Image {
	return &Image{
		src:       src,
		listeners: make(map[Event]map[ListenerID]Listener),
	}
}

func (img *Image) Src() string {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.src
}

func (img *Image) OriginalURL() string {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.originalURL
}

func (img *Image) PersonalizedURL() string {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.personalizedURL
}

func (img *Image) IsPersonalized() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.personalized
}

// RememberOriginal records the current source as the original URL unless
// one was already recorded, and returns the original URL.
func (img *Image) RememberOriginal() string {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.originalURL == "" {
		img.originalURL = img.src
	}
	return img.originalURL
}

// MarkPersonalized switches the image to its personalized variant. display
// is what gets shown right now (usually url plus a cache-buster).
func (img *Image) MarkPersonalized(url, display string) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.personalized = true
	img.personalizedURL = url
	img.src = display
}

// ShowOriginal displays the original source. Only hover handlers call it.
func (img *Image) ShowOriginal() {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.originalURL != "" {
		img.src = img.originalURL
	}
}

// ShowPersonalized displays the personalized source, if there is one.
func (img *Image) ShowPersonalized() {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.personalizedURL != "" {
		img.src = img.personalizedURL
	}
}

// On registers fn for ev and returns a handle for Off.
func (img *Image) On(ev Event, fn Listener) ListenerID {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.nextID++
	id := img.nextID
	if img.listeners[ev] == nil {
		img.listeners[ev] = make(map[ListenerID]Listener)
	}
	img.listeners[ev][id] = fn
	return id
}

// Off removes the listeners with the given handles. Unknown handles are
// ignored.
func (img *Image) Off(ids ...ListenerID) {
	img.mu.Lock()
	defer img.mu.Unlock()
	for _, id := range ids {
		for _, byID := range img.listeners {
			delete(byID, id)
		}
	}
}

// SetHover replaces the hover listener pair: handles registered by an
// earlier call are removed first, so listeners never pile up.
func (img *Image) SetHover(enter, leave Listener) {
	img.mu.Lock()
	old := img.hover
	img.hover = nil
	img.mu.Unlock()

	img.Off(old...)
	e := img.On(MouseEnter, enter)
	l := img.On(MouseLeave, leave)

	img.mu.Lock()
	img.hover = []ListenerID{e, l}
	img.mu.Unlock()
}

func (img *Image) ListenerCount(ev Event) int {
	img.mu.Lock()
	defer img.mu.Unlock()
	return len(img.listeners[ev])
}

// Dispatch calls the listeners for ev in registration order. Listeners run
// without the lock held.
func (img *Image) Dispatch(ev Event) {
	img.mu.Lock()
	byID := img.listeners[ev]
	ids := make([]ListenerID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, byID[id])
	}
	img.mu.Unlock()

	for _, fn := range fns {
		fn(img)
	}
}
