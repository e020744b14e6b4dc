package mail

import (
	"bytes"
	"fmt"
	htmlTemplate "html/template"
	"net/url"
	"text/template"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	"github.com/Alturino/bakery/cart/pkg/store"
	"github.com/Alturino/bakery/order/pkg/response"
)

const orderCreatedText = `New Order Received

Order ID: {{.ID}}
Customer: {{.Customer.FullName}}
Email: {{.Customer.Email}}
Phone: {{.Customer.Phone}}
{{- with .Customer.Whatsapp}}
Whatsapp: {{.}}
{{- end}}
Address: {{.Address}}
Payment: {{.PaymentMethod}}
Total: {{.Total}}

Items:
{{- range .Items}}
- {{.Quantity}} × {{.Name}} — {{.Price}}
{{- range .Details}}
    {{.Label}}: {{.Value}}
{{- end}}
{{- end}}

View Order in Admin Panel: {{.Link}}
`

const orderCreatedHTML = `<h2>New Order Received</h2>
<p><strong>Order ID:</strong> {{.ID}}</p>
<p><strong>Customer:</strong> {{.Customer.FullName}}</p>
<p><strong>Email:</strong> {{.Customer.Email}}</p>
<p><strong>Phone:</strong> {{.Customer.Phone}}</p>
{{- with .Customer.Whatsapp}}
<p><strong>Whatsapp:</strong> {{.}}</p>
{{- end}}
<p><strong>Address:</strong> {{.Address}}</p>
<p><strong>Payment:</strong> {{.PaymentMethod}}</p>
<p><strong>Total:</strong> {{.Total}}</p>
<p><strong>Items:</strong></p>
<ul>
{{- range .Items}}
<li>{{.Quantity}} × {{.Name}} — {{.Price}}
{{- if .Details}}
<ul>
{{- range .Details}}
<li>{{.Label}}: {{.Value}}</li>
{{- end}}
</ul>
{{- end}}
</li>
{{- end}}
</ul>
<p><a href="{{.Link}}">View Order in Admin Panel</a></p>
`

var (
	orderCreatedTextTemplate = template.Must(template.New("order-created-text").Parse(orderCreatedText))
	orderCreatedHTMLTemplate = htmlTemplate.Must(htmlTemplate.New("order-created-html").Parse(orderCreatedHTML))
)

type orderCreatedItem struct {
	Quantity int32
	Name     string
	Price    string
	Details  []store.Detail
}

type orderCreated struct {
	ID            string
	Customer      response.CustomerInfo
	Address       string
	PaymentMethod string
	Total         string
	Items         []orderCreatedItem
	Link          string
}

// OrderCreated renders the admin notification for a newly placed order. Item
// prices are unit prices; customized items list their selections below the
// item line.
func OrderCreated(order response.Order, adminOrderURL string) (Message, error) {
	link, err := url.JoinPath(adminOrderURL, order.ID.String())
	if err != nil {
		return Message{}, fmt.Errorf("failed joining admin order url=%s with error=%w", adminOrderURL, err)
	}

	view := orderCreated{
		ID:            order.ID.String(),
		Customer:      order.CustomerInfo,
		Address:       address(order.CustomerInfo),
		PaymentMethod: order.PaymentMethod,
		Total:         pricing.FormatPrice(order.Total),
		Items:         make([]orderCreatedItem, 0, len(order.OrderItems)),
		Link:          link,
	}
	for _, item := range order.OrderItems {
		lineItem := item.LineItem()
		rendered := orderCreatedItem{
			Quantity: item.Quantity,
			Name:     item.Name,
			Price:    pricing.FormatPrice(lineItem.EffectivePrice()),
		}
		if item.Customization != nil {
			rendered.Details = item.Customization.Details()
		}
		view.Items = append(view.Items, rendered)
	}

	plain := bytes.Buffer{}
	if err := orderCreatedTextTemplate.Execute(&plain, view); err != nil {
		return Message{}, fmt.Errorf("failed rendering plain text with error=%w", err)
	}
	html := bytes.Buffer{}
	if err := orderCreatedHTMLTemplate.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("failed rendering html with error=%w", err)
	}

	return Message{
		Subject:   fmt.Sprintf("New Order - #%s", order.ID),
		PlainText: plain.String(),
		HTML:      html.String(),
	}, nil
}

func address(info response.CustomerInfo) string {
	address := info.Address
	for _, part := range []string{info.City, info.State, info.PostalCode} {
		if part == "" {
			continue
		}
		if address != "" {
			address += ", "
		}
		address += part
	}
	return address
}
