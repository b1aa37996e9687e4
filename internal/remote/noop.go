package remote

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotConfigured sinaliza que nenhum backend remoto foi definido.
var ErrNotConfigured = errors.New("remote: cliente não configurado")

// Noop devolve erro em todas as chamadas.
type Noop struct{}

// Put sempre falha.
func (Noop) Put(ctx context.Context, key string, body []byte, headers http.Header) (*Response, error) {
	return nil, ErrNotConfigured
}

// Get sempre falha.
func (Noop) Get(ctx context.Context, query string, headers http.Header) (*Response, error) {
	return nil, ErrNotConfigured
}
