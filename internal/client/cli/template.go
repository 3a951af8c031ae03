package cli

import (
	"text/template"

	"github.com/iudanet/cartkeeper/internal/models"
)

const cartTemplateText = `
=== Cart ({{ .Status }}) ===
{{- if eq (len .Lines) 0 }}

Cart is empty.

Use 'cartkeeper add <item-id>' to add an item.
{{- else }}
{{ range .Lines }}
- {{ .ItemID }}{{ if .Title }} {{ .Title }}{{ end }}
   Qty:      {{ .Quantity }} x {{ .UnitPrice }} = {{ .Subtotal }}
   In stock: {{ .CachedStock }}
   {{- if .Pending }}
   Status:   pending confirmation
   {{- end }}
{{- end }}

Items: {{ .TotalItems }}
Total: {{ .TotalPrice }}
{{- end }}
`

const syncResultTemplateText = `
=== Synchronization ===

{{- if .NotFound }}
Server has no cart yet, starting with an empty one.
{{- end }}
Cart:         {{ .Flag }}
Added:        {{ .Added }}
Updated:      {{ .Updated }}
Removed:      {{ .Removed }}
{{- if .KeptPending }}
Kept pending: {{ .KeptPending }}
{{- end }}
`

const statusTemplateText = `
=== Authentication Status ===

{{- if not . }}
Status: Not authenticated

Run 'cartkeeper login' to authenticate.
{{- else }}
Status:        Authenticated
Username:      {{ .Username }}
User ID:       {{ .Identity.ID }}
Role:          {{ .Identity.Role }}
{{- if not .ExpiresAt.IsZero }}
Token expires: {{ .ExpiresAt.Format "2006-01-02T15:04:05Z07:00" }}
{{- end }}
{{- if .Expired }}
Token has expired. Please login again.
{{- end }}
{{- end }}
`

const checkoutTemplateText = `
Order placed!
Order ID: {{ .OrderID }}
{{- if .Items }}
Items:    {{ .Items }}
{{- end }}
{{- if .Total }}
Total:    {{ .Total }}
{{- end }}
`

var (
	cartTemplate       = template.Must(template.New("cart").Parse(cartTemplateText))
	syncResultTemplate = template.Must(template.New("sync").Parse(syncResultTemplateText))
	statusTemplate     = template.Must(template.New("status").Parse(statusTemplateText))
	checkoutTemplate   = template.Must(template.New("checkout").Parse(checkoutTemplateText))
)

// cartView строки корзины в порядке добавления
type cartView struct {
	Status     string
	TotalPrice string
	Lines      []lineView
	TotalItems int
}

type lineView struct {
	ItemID      string
	Title       string
	UnitPrice   string
	Subtotal    string
	Quantity    int
	CachedStock int
	Pending     bool
}

func newCartView(snap models.CartSnapshot, enabled bool) cartView {
	status := "read-only"
	if enabled {
		status = "enabled"
	}

	v := cartView{
		Status:     status,
		TotalItems: snap.TotalItems,
		TotalPrice: snap.TotalPrice.StringFixed(2),
	}
	for _, line := range snap.OrderedLines() {
		v.Lines = append(v.Lines, lineView{
			ItemID:      line.ItemID,
			Title:       line.Title,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Subtotal:    line.Subtotal().StringFixed(2),
			Quantity:    line.Quantity,
			CachedStock: line.CachedStock,
			Pending:     line.Pending,
		})
	}
	return v
}
