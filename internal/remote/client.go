package remote

import (
	"context"
	"net/http"
)

// Response é o resultado bruto de uma chamada remota.
type Response struct {
	Status int
	Body   []byte
}

// Client abstrai o SDK gerado do API Gateway.
type Client interface {
	Put(ctx context.Context, key string, body []byte, headers http.Header) (*Response, error)
	Get(ctx context.Context, query string, headers http.Header) (*Response, error)
}
