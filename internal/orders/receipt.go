package orders

import (
	"html/template"
	"strings"
	"time"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
)

type receiptLine struct {
	Name      string
	ImageURL  string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

type receiptData struct {
	ShortID         string
	PlacedAt        string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Lines           []receiptLine
	Total           string
	Status          string
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt #{{.ShortID}}</title>
<style>
  body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; color: #222; }
  .box { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin-bottom: 1rem; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 0.5rem; border-bottom: 1px solid #eee; }
  td.num, th.num { text-align: right; }
  td img { width: 32px; height: 32px; object-fit: cover; border-radius: 4px; vertical-align: middle; margin-right: 0.5rem; }
  .total { font-size: 1.2rem; font-weight: bold; text-align: right; margin-top: 1rem; }
  .footer { color: #888; font-size: 0.85rem; text-align: center; margin-top: 2rem; }
</style>
</head>
<body>
  <h1>Order Receipt</h1>
  <p>Order #{{.ShortID}} &middot; {{.PlacedAt}} &middot; {{.Status}}</p>
  <div class="box">
    <strong>{{.CustomerName}}</strong><br>
    {{.CustomerPhone}}<br>
    {{.CustomerAddress}}
  </div>
  <table>
    <thead>
      <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit</th><th class="num">Subtotal</th></tr>
    </thead>
    <tbody>
      {{range .Lines}}<tr><td>{{if .ImageURL}}<img src="{{.ImageURL}}" alt="">{{end}}{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Subtotal}}</td></tr>
      {{end}}
    </tbody>
  </table>
  <p class="total">Total: {{.Total}}</p>
  <p class="footer">Thank you for shopping with us.</p>
</body>
</html>
`))

// renderReceipt produces the printable receipt for an order. The short id is
// the first 8 characters of the order id, matching what customers are shown.
func renderReceipt(order *models.Order) (string, error) {
	data := receiptData{
		ShortID:         shortOrderID(order.ID.String()),
		PlacedAt:        order.CreatedAt.Format(time.DateTime),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		Lines:           make([]receiptLine, 0, len(order.LineItems)),
		Total:           order.Total.StringFixed(2),
		Status:          order.Status.String(),
	}
	for _, item := range order.LineItems {
		line := receiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		}
		if item.ImageURL != nil {
			line.ImageURL = *item.ImageURL
		}
		data.Lines = append(data.Lines, line)
	}

	var sb strings.Builder
	if err := receiptTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func shortOrderID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
