package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autorização
	ErrInvalidToken       = "AUTH_001" // Token ausente ou inválido
	ErrTokenNotConfigured = "AUTH_002" // Segredo não configurado no servidor

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrEmptyPayload        = "VAL_004" // Lote vazio
	ErrBatchTooLarge       = "VAL_005" // Lote acima do limite
	ErrInvalidFilter       = "VAL_006" // Filtro de período inválido
	ErrPayloadTooLarge     = "VAL_007" // Corpo acima do limite de bytes

	// Erros de recurso
	ErrNotFound      = "RES_001" // Registro não encontrado
	ErrAlreadyExists = "RES_002" // Registro duplicado

	// Limite de requisições
	ErrRateLimited = "RATE_001"

	// Erros do servidor
	ErrInternalServer     = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation  = "SRV_002" // Erro de operação de banco de dados
	ErrServiceUnavailable = "SRV_003" // Dependência indisponível
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrTokenNotConfigured:  http.StatusUnauthorized,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrEmptyPayload:        http.StatusBadRequest,
	ErrBatchTooLarge:       http.StatusBadRequest,
	ErrInvalidFilter:       http.StatusBadRequest,
	ErrPayloadTooLarge:     http.StatusRequestEntityTooLarge,
	ErrNotFound:            http.StatusNotFound,
	ErrAlreadyExists:       http.StatusConflict,
	ErrRateLimited:         http.StatusTooManyRequests,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrServiceUnavailable:  http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor devolve o status HTTP de um código de erro
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}
