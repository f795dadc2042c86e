package catalog

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/wichananm65/pet-shop-storefront/internal/api"
)

// PlaceholderImage replaces product images that fail to load.
const PlaceholderImage = "/static/images/placeholder.jpg"

const emptyGridHTML = `<p style="text-align: center; color: #666;">No products found.</p>`

var cardTmpl = template.Must(template.New("card").Parse(`
<div class="product-card" onclick="{{.OnClick}}" id="product-card-{{.ID}}">
    <img src="{{.Image}}"
         alt="{{.Name}}"
         class="product-image"
         id="product-image-{{.ID}}"
         onerror="{{.OnError}}">
    <div class="product-info">
        <div class="product-category">{{.Category}}</div>
        <div class="product-name">{{.Name}}</div>
        <div class="product-price">${{.Price}}</div>
    </div>
</div>`))

type cardView struct {
	api.Product
	OnClick template.JS
	OnError template.JS
}

// RenderCard renders the markup of one product card.
func RenderCard(p api.Product) string {
	v := cardView{
		Product: p,
		OnClick: template.JS("viewProduct(" + strconv.Itoa(p.ID) + ")"),
		OnError: template.JS("this.src='" + PlaceholderImage + "'"),
	}
	var sb strings.Builder
	if err := cardTmpl.Execute(&sb, v); err != nil {
		return ""
	}
	return sb.String()
}

// RenderGrid renders every card, or the empty-state paragraph.
func RenderGrid(products []api.Product) string {
	if len(products) == 0 {
		return emptyGridHTML
	}
	var sb strings.Builder
	for _, p := range products {
		sb.WriteString(RenderCard(p))
	}
	return sb.String()
}
