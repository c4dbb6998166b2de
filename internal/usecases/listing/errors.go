package listing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/sales-ranking-api/internal/domain"
)

var (
	ErrInvalidSale         = errors.New("dados da venda inválidos")
	ErrSaleAlreadyExists   = errors.New("já existe venda para esta administradora, grupo e cota")
	ErrInvalidExportFormat = errors.New("formato de exportação inválido")
	ErrDatabaseOperation   = errors.New("erro ao realizar operação no banco de dados")
)

// ListingError é um erro com contexto adicional para cadastro e exportação de vendas
type ListingError struct {
	Err     error               // Erro base
	Code    string              // Código de erro para API
	Details string              // Detalhes adicionais
	Fields  []domain.FieldError // Campos inválidos, quando houver
}

// Error implementa a interface error
func (e *ListingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *ListingError) Unwrap() error {
	return e.Err
}

// NewListingError cria um novo ListingError
func NewListingError(err error, code string, details string) *ListingError {
	return &ListingError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
