package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/slider"
)

func newSlidesCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		duration time.Duration
		gotoPos  int
		keys     []string
	)

	cmd := &cobra.Command{
		Use:   "slides",
		Short: "Cycle through the hero banners",
		Long: `Loads the hero banners and advances through them on a timer, printing
each slide as it becomes active. Runs until interrupted or --duration elapses.

--goto and --keys move the slider by hand before the timer starts, the way
the dots and the arrow keys do on the page. When either is given without
--duration the command stops after moving.`,
		Example: `  # Watch three transitions at one-second intervals
  storefront slides --interval 1s --duration 3500ms

  # Jump to the third banner, then step back one
  storefront slides --goto 3 --keys ArrowLeft`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			banners, err := a.client.Banners(ctx)
			if err != nil {
				return fmt.Errorf("failed to load banners: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(banners) == 0 {
				_, err := fmt.Fprintln(out, "No banners.")
				return err
			}

			s := slider.FromBanners(banners)
			printSlide(out, banners, s.Current())
			s.OnChange(func(index int) { printSlide(out, banners, index) })

			manual := cmd.Flags().Changed("goto") || len(keys) > 0
			if cmd.Flags().Changed("goto") && !s.GoTo(gotoPos) {
				return fmt.Errorf("no slide %d, there are %d", gotoPos, s.Len())
			}
			for _, k := range keys {
				if !s.HandleKey(strings.TrimSpace(k)) {
					return fmt.Errorf("unknown key %q, use %s or %s", k, slider.KeyLeft, slider.KeyRight)
				}
			}
			if manual && duration <= 0 {
				return nil
			}

			if interval <= 0 {
				interval = a.cfg.SlideInterval
			}
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			s.Run(ctx, interval)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between slides (default $STOREFRONT_SLIDE_INTERVAL)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	cmd.Flags().IntVar(&gotoPos, "goto", 0, "Show the n-th slide, counting from 1")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Arrow keys to press in order (ArrowLeft, ArrowRight)")
	return cmd
}

func printSlide(w io.Writer, banners []api.Banner, index int) {
	b := banners[index]
	label := b.Alt
	if label == "" {
		label = b.Image
	}
	fmt.Fprintf(w, "slide %d/%d  %s\n", index+1, len(banners), label)
}
