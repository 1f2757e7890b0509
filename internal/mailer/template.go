// Package mailer sends the order confirmation e-mail.
package mailer

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"labubu_store/internal/models"
)

const confirmationHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Order {{.ConfirmationID}}</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #fdf2f8; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #db2777;">Your Labubu is on its way!</h2>
		<p>Hi {{.Shipping.FullName}},</p>
		<p>Thanks for your order <strong>#{{.ConfirmationID}}</strong>.</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #fce7f3;">
					<th style="padding: 8px; text-align: left;">Item</th>
					<th style="padding: 8px; text-align: left;">Qty</th>
					<th style="padding: 8px; text-align: right;">Price</th>
				</tr>
			</thead>
			<tbody>
				{{- range .Lines}}
				<tr>
					<td style="padding: 8px;">{{.Name}}</td>
					<td style="padding: 8px;">{{.Quantity}}</td>
					<td style="padding: 8px; text-align: right;">{{money .LineTotal}}</td>
				</tr>
				{{- end}}
			</tbody>
			<tfoot>
				<tr><td colspan="2" style="padding: 8px; text-align: right;">Subtotal</td><td style="padding: 8px; text-align: right;">{{money .Subtotal}}</td></tr>
				<tr><td colspan="2" style="padding: 8px; text-align: right;">Shipping ({{.ShippingMethod}})</td><td style="padding: 8px; text-align: right;">{{money .ShippingCost}}</td></tr>
				<tr><td colspan="2" style="padding: 8px; text-align: right; font-weight: bold;">Total</td><td style="padding: 8px; text-align: right; font-weight: bold;">{{money .Total}}</td></tr>
			</tfoot>
		</table>
		<h3 style="color: #db2777;">Shipping to</h3>
		<p>
			{{.Shipping.FullName}}<br>
			{{.Shipping.AddressLine1}}<br>
			{{- with .Shipping.AddressLine2}}{{.}}<br>{{end}}
			{{.Shipping.PostalCode}} {{.Shipping.City}}<br>
			{{.Shipping.Country}}
		</p>
		<p>Paid with card ending in {{.CardLast4}}.</p>
		<p style="color: #6b7280;">Show the attached QR code if you need to contact us about this order.</p>
	</div>
</body>
</html>`

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
}).Parse(confirmationHTML))

func RenderConfirmation(order models.OrderConfirmation) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, order); err != nil {
		return "", errors.Wrapf(err, "render confirmation %s", order.ConfirmationID)
	}
	return buf.String(), nil
}

// QRCode encodes the confirmation id as a 256px PNG.
func QRCode(confirmationID string) ([]byte, error) {
	png, err := qrcode.Encode(confirmationID, qrcode.Medium, 256)
	if err != nil {
		return nil, errors.Wrapf(err, "qr code %s", confirmationID)
	}
	return png, nil
}
