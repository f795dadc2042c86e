package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wichananm65/pet-shop-storefront/internal/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Width(12)
)

func newProductsCmd(a *app) *cobra.Command {
	var (
		gender      string
		category    string
		output      string
		perRow      int
		personalize bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products as a grid of cards",
		Long: `Lists products, optionally filtered by gender and category.

When you are signed in, each card starts its own personalization flow and the
grid is printed once every flow has finished.`,
		Example: `  # All products
  storefront products

  # Women's dresses as JSON
  storefront products --gender women --category dress -o json

  # The HTML the web storefront would render
  storefront products -o html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output, outputTable, outputJSON, outputYAML, outputHTML); err != nil {
				return err
			}
			ctx := cmd.Context()
			products := a.catalog().LoadProducts(ctx, gender, category)
			out := cmd.OutOrStdout()

			switch output {
			case outputJSON, outputYAML:
				return writeData(out, output, products)
			case outputHTML:
				_, err := fmt.Fprintln(out, catalog.RenderGrid(products))
				return err
			}

			grid := catalog.NewGrid(a.personalizer(), a.session)
			if personalize {
				grid.Mount(ctx, products)
				grid.Wait()
			}
			_, err := fmt.Fprintln(out, catalog.RenderTerminal(products, grid.Cards(), perRow))
			return err
		},
	}

	cmd.Flags().StringVar(&gender, "gender", "", "Filter by gender (men or women)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (substring, case-insensitive)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml or html")
	cmd.Flags().IntVar(&perRow, "per-row", 3, "Cards per row in table output")
	cmd.Flags().BoolVar(&personalize, "personalize", true, "Resolve personalized images when signed in")
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output, outputTable, outputJSON, outputYAML, outputHTML); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			p := a.catalog().GetProduct(cmd.Context(), id)
			if p == nil {
				return fmt.Errorf("product %d not found", id)
			}

			out := cmd.OutOrStdout()
			switch output {
			case outputJSON, outputYAML:
				return writeData(out, output, p)
			case outputHTML:
				_, err := fmt.Fprintln(out, catalog.RenderCard(*p))
				return err
			}

			rows := []string{
				titleStyle.Render(p.Name),
				field("SKU", p.SKU),
				field("Price", "$"+p.Price),
				field("Category", p.Category),
				field("Gender", p.Gender),
				field("Sizes", strings.Join(p.Sizes, ", ")),
				field("Colors", strings.Join(p.Colors, ", ")),
				field("Image", p.Image),
			}
			if p.Description != "" {
				rows = append(rows, "", p.Description)
			}
			_, err = fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, rows...))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml or html")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output, outputTable, outputJSON, outputYAML); err != nil {
				return err
			}
			cats := a.catalog().Categories(cmd.Context())
			if cats == nil {
				return fmt.Errorf("could not load categories from %s", a.cfg.APIBase)
			}
			out := cmd.OutOrStdout()
			if output != outputTable {
				return writeData(out, output, cats)
			}
			for _, c := range cats {
				if _, err := fmt.Fprintln(out, c); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	return cmd
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label) + value
}
