package photos

import (
	"net/http"
	"time"
)

// Política fixa de upload.
const (
	MaxFileSizeBytes   = int64(5 * 1024 * 1024)
	DefaultContentType = "application/octet-stream"
	ObjectKeyPrefix    = "uploads/"
)

// Cabeçalhos enviados ao endpoint remoto.
const (
	HeaderAPIKey       = "x-api-key"
	HeaderContentType  = "Content-Type"
	HeaderCustomLabels = "x-amz-meta-customLabels"
)

// AllowedContentTypes lista os MIME aceitos pelo validador.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/jpg"}

// File representa o arquivo escolhido no formulário.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadRequest é criado por submissão e descartado quando a chamada termina.
type UploadRequest struct {
	ObjectKey    string
	ContentType  string
	CustomLabels string
	APIKey       string
	Body         []byte
}

// Headers monta os cabeçalhos da chamada de upload. O de labels vai sempre, mesmo vazio.
func (r UploadRequest) Headers() http.Header {
	h := http.Header{}
	h.Set(HeaderAPIKey, r.APIKey)
	h.Set(HeaderContentType, r.ContentType)
	h.Set(HeaderCustomLabels, r.CustomLabels)
	return h
}

// SearchQuery carrega o texto digitado na busca.
type SearchQuery struct {
	Text string
}

// SearchResult é um item devolvido pelo endpoint de busca.
type SearchResult struct {
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// State descreve a fase de um handler de formulário.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateInFlight   State = "in_flight"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Clock permite fixar o horário em testes.
type Clock func() time.Time
