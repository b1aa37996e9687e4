package photos

import (
	"errors"
	"strings"
)

var (
	// ErrMissing indica que nenhum arquivo foi selecionado.
	ErrMissing = errors.New("photos: nenhum arquivo selecionado")
	// ErrInvalidType indica MIME fora da lista permitida.
	ErrInvalidType = errors.New("photos: tipo de arquivo inválido")
	// ErrTooLarge indica arquivo acima de MaxFileSizeBytes.
	ErrTooLarge = errors.New("photos: arquivo excede o tamanho máximo")
)

var validationMessages = map[error]string{
	ErrMissing:     "Please select a file to upload.",
	ErrInvalidType: "Invalid file type. Please upload JPEG, PNG, or JPG.",
	ErrTooLarge:    "File is too large. Maximum size is 5MB.",
}

// ValidationError agrupa as regras violadas, na ordem em que são avaliadas.
type ValidationError struct {
	Reasons []error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Reasons))
	for _, reason := range e.Reasons {
		parts = append(parts, reason.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap expõe as sentinelas para errors.Is.
func (e *ValidationError) Unwrap() []error {
	return e.Reasons
}

// Message devolve o texto mostrado ao usuário para a primeira regra violada.
func (e *ValidationError) Message() string {
	if len(e.Reasons) == 0 {
		return ""
	}
	return validationMessages[e.Reasons[0]]
}

// ValidateFile aplica a política de presença, tipo e tamanho.
func ValidateFile(file *File) error {
	if file == nil || (file.Name == "" && file.Size == 0) {
		return &ValidationError{Reasons: []error{ErrMissing}}
	}

	var reasons []error
	if !IsAllowedContentType(file.ContentType) {
		reasons = append(reasons, ErrInvalidType)
	}
	if file.Size > MaxFileSizeBytes {
		reasons = append(reasons, ErrTooLarge)
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// IsAllowedContentType compara o MIME exatamente como declarado pelo cliente.
func IsAllowedContentType(contentType string) bool {
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}
