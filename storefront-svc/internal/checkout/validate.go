package checkout

import (
	"unicode/utf8"

	"pizzeria-storefront/storefront-svc/internal/domain"
)

type lengthRule struct {
	field    string
	min, max int
	tooShort string
	tooLong  string
}

var customerRules = []lengthRule{
	{field: "name", min: 2, max: 100, tooShort: "Nome deve ter pelo menos 2 caracteres", tooLong: "Nome deve ter no máximo 100 caracteres"},
	{field: "phone", min: 10, max: 20, tooShort: "Telefone inválido", tooLong: "Telefone inválido"},
	{field: "address", min: 10, max: 500, tooShort: "Endereço deve ser mais detalhado", tooLong: "Endereço deve ter no máximo 500 caracteres"},
	{field: "notes", min: 0, max: 500, tooLong: "Observações devem ter no máximo 500 caracteres"},
}

// ValidateCustomer checks the checkout form. Callers pass details already
// normalized with CustomerDetails.Normalized.
func ValidateCustomer(details domain.CustomerDetails) error {
	values := map[string]string{
		"name":    details.Name,
		"phone":   details.Phone,
		"address": details.Address,
		"notes":   details.Notes,
	}

	fields := map[string]string{}
	for _, rule := range customerRules {
		n := utf8.RuneCountInString(values[rule.field])
		switch {
		case n < rule.min:
			fields[rule.field] = rule.tooShort
		case n > rule.max:
			fields[rule.field] = rule.tooLong
		}
	}

	if !details.PaymentMethod.Valid() {
		fields["payment_method"] = "Forma de pagamento inválida"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
