package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/catalog"
	"github.com/wichananm65/pet-shop-storefront/internal/personalize"
)

var errNotLoggedIn = errors.New("not logged in: run `storefront login` first")

func newPersonalizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personalize <product-id>...",
		Short: "Resolve personalized images for products",
		Long: `Runs the personalization flow for each product: check for an existing
image, trigger generation when the product is eligible, then poll until the
image is ready or the attempt limit is reached. Flows run concurrently and a
failure in one never affects the others.`,
		Example: `  storefront personalize 1 2 3`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsLoggedIn() {
				return errNotLoggedIn
			}
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid product id %q", arg)
				}
				ids = append(ids, id)
			}

			ctx := cmd.Context()
			cat := a.catalog()
			products := make([]api.Product, 0, len(ids))
			for _, id := range ids {
				if p := cat.GetProduct(ctx, id); p != nil {
					products = append(products, *p)
				}
			}

			grid := catalog.NewGrid(a.personalizer(), a.session)
			cards := grid.Mount(ctx, products)
			grid.Wait()

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "PRODUCT", "STATE", "ATTEMPTS", "IMAGE")
			for i, p := range products {
				state, attempts := personalize.StateUnavailable, 0
				if f, ok := grid.Flow(p.ID); ok {
					state, attempts = f.State(), f.Attempts()
				}
				t.Row(strconv.Itoa(p.ID), p.Name, string(state), strconv.Itoa(attempts), cards[i].Image.Src())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
	return cmd
}
