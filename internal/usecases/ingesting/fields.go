package ingesting

import "github.com/vfg2006/sales-ranking-api/pkg/parser"

// Field é o nome lógico de um campo da venda, usado também nos relatórios de erro
type Field string

const (
	FieldSalesperson   Field = "salesperson"
	FieldAdministrator Field = "administrator"
	FieldGroup         Field = "group"
	FieldQuota         Field = "quota"
	FieldGrossValue    Field = "gross_value"
	FieldNetValue      Field = "net_value"
	FieldSaleDate      Field = "sale_date"
	FieldCompetence    Field = "competence"
)

// SaleFieldKeys lista, para cada campo, as grafias aceitas no payload em ordem de preferência.
// Chaves que diferem só em caixa, acentos ou separadores também são aceitas pelo parser.Lookup.
var SaleFieldKeys = map[Field][]string{
	FieldSalesperson:   {"consultor", "consultorNome", "consultor_nome", "vendedor", "salesperson"},
	FieldAdministrator: {"administradora", "administrator"},
	FieldGroup:         {"grupo", "group"},
	FieldQuota:         {"cota", "quota"},
	FieldGrossValue:    {"valor_bruto", "valor bruto", "valorBruto", "gross_value"},
	FieldNetValue:      {"valor_liquido", "valor liquido", "valorLiquido", "net_value"},
	FieldSaleDate:      {"data_venda", "dataVenda", "data", "sale_date"},
	FieldCompetence:    {"mes_ano", "mesAno", "competencia", "competence"},
}

func extract(record map[string]any, field Field) (any, bool) {
	return parser.Lookup(record, SaleFieldKeys[field]...)
}
