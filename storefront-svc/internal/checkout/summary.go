package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"pizzeria-storefront/storefront-svc/internal/cart"
	"pizzeria-storefront/storefront-svc/internal/domain"
)

// FormatBRL renders an amount the way the storefront shows prices: R$ 1.234,56.
func FormatBRL(amount decimal.Decimal) string {
	formatted := FormatAmount(amount)
	if strings.HasPrefix(formatted, "-") {
		return "-R$ " + formatted[1:]
	}
	return "R$ " + formatted
}

// FormatAmount renders amount with pt-BR separators and no currency sign: 1.234,56.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	return sign + grouped.String() + "," + fracPart
}

// BuildSummary renders the order text sent to the restaurant. It reads only
// the snapshot taken when the submission began.
func BuildSummary(header domain.OrderHeader, snap cart.Snapshot, customer domain.CustomerDetails) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Novo pedido #%s*\n", domain.ShortCode(header.ID))
	b.WriteString("Valores em R$\n\n")
	for _, line := range snap.Lines {
		fmt.Fprintf(&b, "%dx %s - %s\n", line.Quantity, line.Item.Name, FormatAmount(line.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatAmount(snap.TotalPrice))
	fmt.Fprintf(&b, "Pagamento: %s\n\n", customer.PaymentMethod.Label())
	fmt.Fprintf(&b, "Cliente: %s\n", customer.Name)
	fmt.Fprintf(&b, "Telefone: %s\n", customer.Phone)
	fmt.Fprintf(&b, "Endereço: %s\n", customer.Address)
	if customer.Notes != "" {
		fmt.Fprintf(&b, "Observações: %s\n", customer.Notes)
	}

	return b.String()
}

// WhatsAppLink builds the click-to-chat URL that opens text addressed to destination.
func WhatsAppLink(destination, text string) string {
	phone := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, destination)
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + escaped
}

// OrderReferenceLink opens a chat to destination quoting only the order code.
func OrderReferenceLink(orderID, destination string) string {
	return WhatsAppLink(destination, fmt.Sprintf("Pedido #%s", domain.ShortCode(orderID)))
}

// RecordedHandoffLink rebuilds the handoff link of a stored order from its
// persisted header and lines.
func RecordedHandoffLink(order domain.OrderRecord, destination string) string {
	snap := cart.Snapshot{TotalPrice: order.TotalAmount}
	for _, line := range order.Lines {
		snap.Lines = append(snap.Lines, domain.CartLine{
			Item:     domain.MenuItem{ID: line.MenuItemID, Name: line.ItemName, Price: line.UnitPrice},
			Quantity: line.Quantity,
		})
		snap.TotalItems += line.Quantity
	}
	customer := domain.CustomerDetails{
		Name:          order.CustomerName,
		Phone:         order.CustomerPhone,
		Address:       order.CustomerAddress,
		Notes:         order.Notes,
		PaymentMethod: order.PaymentMethod,
	}
	return WhatsAppLink(destination, BuildSummary(order.OrderHeader, snap, customer))
}
