package ingesting

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// chaves de lote aceitas quando o corpo é um objeto
var batchKeys = []string{"sales", "vendas"}

// DecodeEnvelope normaliza o corpo do webhook em uma lista de itens.
// Aceita um objeto único, um array de objetos ou {"sales": [...]}.
// Números são mantidos como json.Number para não perder casas decimais.
func DecodeEnvelope(body []byte, maxBatchSize int) ([]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, NewIngestionError(ErrEmptyPayload, apiErrors.ErrEmptyPayload, "corpo da requisição vazio")
	}

	decoder := jsonAPI.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, NewIngestionError(ErrMalformedJSON, apiErrors.ErrInvalidFormat, err.Error())
	}

	items, err := unwrapItems(payload)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, NewIngestionError(ErrEmptyPayload, apiErrors.ErrEmptyPayload, "lista de vendas vazia")
	}

	if maxBatchSize > 0 && len(items) > maxBatchSize {
		return nil, NewIngestionError(
			ErrBatchTooLarge,
			apiErrors.ErrBatchTooLarge,
			fmt.Sprintf("recebidos %d registros, máximo de %d por requisição", len(items), maxBatchSize),
		)
	}

	return items, nil
}

func unwrapItems(payload any) ([]any, error) {
	switch value := payload.(type) {
	case []any:
		return value, nil
	case map[string]any:
		for _, key := range batchKeys {
			batch, ok := value[key]
			if !ok {
				continue
			}
			items, ok := batch.([]any)
			if !ok {
				return nil, NewIngestionError(ErrInvalidEnvelope, apiErrors.ErrInvalidFormat, fmt.Sprintf("%q deve ser uma lista", key))
			}
			return items, nil
		}
		if len(value) == 0 {
			return nil, nil
		}
		return []any{value}, nil
	default:
		return nil, NewIngestionError(ErrInvalidEnvelope, apiErrors.ErrInvalidFormat, "esperado objeto, lista ou {\"sales\": [...]}")
	}
}
