package ingesting

import (
	"errors"
	"fmt"
)

var (
	// Erros de envelope: rejeitam a requisição inteira
	ErrEmptyPayload    = errors.New("nenhum registro recebido")
	ErrMalformedJSON   = errors.New("JSON inválido")
	ErrInvalidEnvelope = errors.New("formato de payload não reconhecido")
	ErrBatchTooLarge   = errors.New("lote acima do limite permitido")

	// Erros sistêmicos
	ErrStorageUnavailable = errors.New("banco de dados indisponível")

	// Erros por item
	ErrItemNotObject = errors.New("item não é um objeto JSON")
	ErrPersistItem   = errors.New("erro ao salvar venda")
)

// IngestionError carrega o código de API de uma falha que rejeita o lote inteiro
type IngestionError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *IngestionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *IngestionError) Unwrap() error {
	return e.Err
}

// NewIngestionError cria um novo IngestionError
func NewIngestionError(err error, code string, details string) *IngestionError {
	return &IngestionError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
