package catalog

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/view"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#dce0e5")).
			Padding(0, 1).
			Width(34)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	priceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Italic(true)
)

// RenderTerminal lays the products out as boxed cards, perRow to a line.
// cards, when given, supply the image source and badges for each product.
func RenderTerminal(products []api.Product, cards []*view.Card, perRow int) string {
	if len(products) == 0 {
		return mutedStyle.Render("No products found.")
	}
	if perRow <= 0 {
		perRow = 3
	}
	byID := make(map[int]*view.Card, len(cards))
	for _, c := range cards {
		byID[c.ProductID] = c
	}

	boxes := make([]string, 0, len(products))
	for _, p := range products {
		boxes = append(boxes, terminalCard(p, byID[p.ID]))
	}

	rows := make([]string, 0, len(boxes)/perRow+1)
	for i := 0; i < len(boxes); i += perRow {
		end := min(i+perRow, len(boxes))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func terminalCard(p api.Product, card *view.Card) string {
	src := p.Image
	var badges []string
	if card != nil {
		src = card.Image.Src()
		for _, ind := range card.Indicators() {
			badges = append(badges, ind.Label())
		}
	}

	lines := []string{
		categoryStyle.Render(p.Category),
		nameStyle.Render(p.Name),
		priceStyle.Render("$" + p.Price),
		mutedStyle.Render(src),
	}
	if len(badges) > 0 {
		lines = append(lines, badgeStyle.Render(strings.Join(badges, " ")))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
