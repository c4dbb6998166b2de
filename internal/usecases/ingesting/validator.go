package ingesting

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/parser"
)

const minSalespersonLength = 2

// ValidationErrors reúne todas as violações de um registro
type ValidationErrors []domain.FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, fe := range v {
		messages = append(messages, fe.Field+": "+fe.Message)
	}
	return strings.Join(messages, "; ")
}

func (v *ValidationErrors) add(field Field, message string) {
	*v = append(*v, domain.FieldError{Field: string(field), Message: message})
}

// ValidateRecord extrai e valida os campos de um registro do payload.
// O registro é aceito por inteiro ou rejeitado com a lista de campos inválidos.
func ValidateRecord(record map[string]any, loc *time.Location) (*domain.Sale, error) {
	if loc == nil {
		loc = time.UTC
	}

	var errs ValidationErrors

	salesperson := textField(record, FieldSalesperson)
	if utf8.RuneCountInString(salesperson) < minSalespersonLength {
		errs.add(FieldSalesperson, "nome do consultor deve ter pelo menos 2 caracteres")
	}

	administrator := strings.ToUpper(textField(record, FieldAdministrator))
	if administrator == "" {
		errs.add(FieldAdministrator, "administradora é obrigatória")
	}

	group := textField(record, FieldGroup)
	if group == "" {
		errs.add(FieldGroup, "grupo é obrigatório")
	}

	quota := textField(record, FieldQuota)
	if quota == "" {
		errs.add(FieldQuota, "cota é obrigatória")
	}

	rawDate, _ := extract(record, FieldSaleDate)
	saleDate, err := parser.ParseDate(rawDate, loc)
	switch {
	case errors.Is(err, parser.ErrEmptyValue):
		errs.add(FieldSaleDate, "data da venda é obrigatória")
	case err != nil:
		errs.add(FieldSaleDate, "data da venda inválida, use DD/MM/AAAA ou AAAA-MM-DD")
	}

	grossValue := amountField(record, FieldGrossValue, "valor bruto", &errs)
	netValue := amountField(record, FieldNetValue, "valor líquido", &errs)

	var competence parser.Competence
	if raw, ok := extract(record, FieldCompetence); ok && parser.String(raw) != "" {
		competence, err = parser.ParseCompetence(raw)
		if err != nil {
			errs.add(FieldCompetence, "competência inválida, use mês-ano (ex: dezembro-2025 ou 12-2025)")
		}
	} else if !saleDate.IsZero() {
		competence = parser.CompetenceOf(saleDate.In(loc))
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.Sale{
		Salesperson:   salesperson,
		Administrator: administrator,
		Group:         group,
		Quota:         quota,
		GrossValue:    grossValue.Round(2),
		NetValue:      netValue.Round(2),
		SaleDate:      saleDate,
		Competence:    competence.Label(),
	}, nil
}

func textField(record map[string]any, field Field) string {
	raw, _ := extract(record, field)
	return parser.String(raw)
}

// amountField aceita valor ausente ou vazio como zero, mas rejeita texto que não é número
func amountField(record map[string]any, field Field, label string, errs *ValidationErrors) decimal.Decimal {
	raw, _ := extract(record, field)

	value, err := parser.ParseDecimal(raw)
	if errors.Is(err, parser.ErrEmptyValue) {
		return decimal.Zero
	}
	if err != nil {
		errs.add(field, label+" inválido")
		return decimal.Zero
	}
	if value.IsNegative() {
		errs.add(field, label+" não pode ser negativo")
		return decimal.Zero
	}
	return value
}
