package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Limites de leitura da resposta. A busca não pagina, então o corpo pode ser grande.
const (
	maxPutResponseBytes    = 1 << 20
	maxSearchResponseBytes = 16 << 20
)

// ErrResponseTooLarge indica corpo acima do limite de leitura.
var ErrResponseTooLarge = errors.New("remote: resposta excede o limite")

// GatewayConfig descreve o endpoint do API Gateway.
type GatewayConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Gateway implementa Client via HTTP com as rotas geradas pelo API Gateway:
// PUT /photos/{object-key} e GET /search?q=.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway cria cliente HTTP pronto para uso.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("remote: base url obrigatória")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, errors.New("remote: base url deve incluir protocolo http/https")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Gateway{baseURL: strings.TrimRight(base, "/"), client: client}, nil
}

// Put envia o corpo para o object key informado. Uma única tentativa.
func (g *Gateway) Put(ctx context.Context, key string, body []byte, headers http.Header) (*Response, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("remote: chave do objeto obrigatória")
	}

	target := fmt.Sprintf("%s/photos/%s", g.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	copyHeaders(req.Header, headers)
	req.ContentLength = int64(len(body))

	return g.do(req, maxPutResponseBytes)
}

// Get executa a busca com o parâmetro q.
func (g *Gateway) Get(ctx context.Context, query string, headers http.Header) (*Response, error) {
	q := url.Values{}
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	copyHeaders(req.Header, headers)
	req.Header.Set("Accept", "application/json")

	return g.do(req, maxSearchResponseBytes)
}

// do lê no máximo limit bytes; um corpo maior vira erro, nunca é truncado.
func (g *Gateway) do(req *http.Request, limit int64) (*Response, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("remote: falha ao ler resposta: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: resposta excede %d bytes", ErrResponseTooLarge, limit)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
