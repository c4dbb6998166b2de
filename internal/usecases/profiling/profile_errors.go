package profiling

import (
	"errors"
	"fmt"
)

var (
	// Erros de validação
	ErrSheetNameRequired   = errors.New("nome na planilha é obrigatório")
	ErrDisplayNameRequired = errors.New("nome de exibição é obrigatório")
	ErrInvalidPhoto        = errors.New("foto deve ser uma URL http(s) ou uma imagem em base64")
	ErrPhotoTooLarge       = errors.New("foto acima do tamanho permitido")

	// Erros de recurso
	ErrProfileNotFound = errors.New("perfil não encontrado")
	ErrSheetNameTaken  = errors.New("já existe um perfil com este nome na planilha")
	ErrAvatarNotFound  = errors.New("avatar não encontrado")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
	ErrGenerateID        = errors.New("erro ao gerar id do perfil")
)

// ProfileError é um erro com contexto adicional para perfis
type ProfileError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	ProfileID string // ID do perfil envolvido (quando aplicável)
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *ProfileError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *ProfileError) Unwrap() error {
	return e.Err
}

// NewProfileError cria um novo ProfileError
func NewProfileError(err error, code string, details string) *ProfileError {
	return &ProfileError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewProfileErrorWithID cria um novo ProfileError com o ID do perfil
func NewProfileErrorWithID(err error, code string, profileID string, details string) *ProfileError {
	return &ProfileError{
		Err:       err,
		Code:      code,
		ProfileID: profileID,
		Details:   details,
	}
}
