package personalize

import (
	"context"
	"time"

	"github.com/wichananm65/pet-shop-storefront/internal/view"
	"go.uber.org/zap"
)

// poll re-checks the backend until the personalized image shows up, the
// backend stops reporting progress, or MaxAttempts checks have been made.
func (m *Manager) poll(ctx context.Context, f *Flow, card *view.Card) State {
	id := card.ProductID
	log := m.logger.With(zap.Int("product_id", id))
	f.set(StatePolling)

	timer := time.NewTimer(m.opts.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return m.cancelled(log, f, card)
		case <-timer.C:
		}

		attempts := f.attempt()
		log.Debug("polling attempt", zap.Int("attempt", attempts))

		st := m.Check(ctx, id)
		if st == nil && ctx.Err() != nil {
			return m.cancelled(log, f, card)
		}
		if st != nil && st.HasPersonalizedImage {
			log.Debug("image ready", zap.String("url", st.PersonalizedImageURL), zap.Int("attempts", attempts))
			m.Apply(card, st.PersonalizedImageURL)
			return StateResolved
		}

		if attempts < m.opts.MaxAttempts && st != nil && (st.IsGenerating || st.ReadyForPersonalization) {
			timer.Reset(m.opts.Interval)
			continue
		}

		log.Debug("stopped polling", zap.Int("attempts", attempts))
		clearProgress(card)
		return StateTimedOut
	}
}

// cancelled ends a flow whose context was cancelled, the shopper having
// left the page.
func (m *Manager) cancelled(log *zap.Logger, f *Flow, card *view.Card) State {
	clearProgress(card)
	log.Debug("personalization cancelled", zap.Int("attempts", f.Attempts()))
	return StateCancelled
}

// clearProgress drops the generating badge, keeping the personalized one.
func clearProgress(card *view.Card) {
	card.RemoveIndicators()
	if card.Image.IsPersonalized() {
		card.AddIndicator(view.IndicatorPersonalized)
	}
}
