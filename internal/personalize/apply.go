package personalize

import (
	"github.com/wichananm65/pet-shop-storefront/internal/view"
)

// Apply shows the personalized image on card: cache-busted source, the
// personalized flag, hover-to-compare and the badge. Calling it again
// replaces the hover listeners instead of stacking them.
func (m *Manager) Apply(card *view.Card, personalizedURL string) {
	if personalizedURL == "" {
		return
	}
	img := card.Image
	img.RememberOriginal()
	img.MarkPersonalized(personalizedURL, CacheBust(personalizedURL, m.opts.Now()))
	img.SetHover(showOriginal, showPersonalized)

	card.RemoveIndicators()
	card.AddIndicator(view.IndicatorPersonalized)
}

func showOriginal(img *view.Image)     { img.ShowOriginal() }
func showPersonalized(img *view.Image) { img.ShowPersonalized() }
