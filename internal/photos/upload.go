package photos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ojasva22/frontend-deployment/internal/remote"
)

// UploadError descreve falha do upload: status diferente de 200 ou erro de transporte.
type UploadError struct {
	Status int
	Body   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("photos: upload falhou: %v", e.Err)
	}
	if strings.TrimSpace(e.Body) != "" {
		return fmt.Sprintf("photos: upload falhou: %s", strings.TrimSpace(e.Body))
	}
	return fmt.Sprintf("photos: upload falhou: Status: %d", e.Status)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// UploadForm espelha os campos do formulário de upload.
type UploadForm struct {
	File   *File
	Labels string
}

// UploadOutcome resume uma submissão. ResetForm só é verdadeiro após HTTP 200.
type UploadOutcome struct {
	State     State
	ObjectKey string
	ResetForm bool
	Err       error
}

// Uploader coordena validação e envio de fotos.
type Uploader struct {
	client remote.Client
	apiKey string
	now    Clock
	logger zerolog.Logger
}

// NewUploader injeta cliente remoto e credencial estática.
func NewUploader(client remote.Client, apiKey string, logger zerolog.Logger) *Uploader {
	if client == nil {
		client = remote.Noop{}
	}
	return &Uploader{client: client, apiKey: apiKey, now: time.Now, logger: logger}
}

// WithClock troca o relógio usado para gerar object keys.
func (u *Uploader) WithClock(now Clock) *Uploader {
	if now != nil {
		u.now = now
	}
	return u
}

// BuildUploadRequest monta a requisição para o arquivo já validado.
func BuildUploadRequest(file File, labelsText string, now time.Time) UploadRequest {
	contentType := file.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	return UploadRequest{
		ObjectKey:    fmt.Sprintf("%s%d_%s", ObjectKeyPrefix, now.UnixMilli(), EncodeURIComponent(file.Name)),
		ContentType:  contentType,
		CustomLabels: strings.TrimSpace(labelsText),
		Body:         file.Data,
	}
}

// Submit executa uma única chamada remota.
func (u *Uploader) Submit(ctx context.Context, req UploadRequest) error {
	if req.APIKey == "" {
		req.APIKey = u.apiKey
	}

	resp, err := u.client.Put(ctx, req.ObjectKey, req.Body, req.Headers())
	if err != nil {
		return &UploadError{Err: err}
	}
	if resp == nil {
		return &UploadError{Err: fmt.Errorf("resposta vazia")}
	}
	if resp.Status != http.StatusOK {
		return &UploadError{Status: resp.Status, Body: string(resp.Body)}
	}
	return nil
}

// Handle processa uma submissão do formulário de upload do início ao fim.
func (u *Uploader) Handle(ctx context.Context, form UploadForm, presenter StatusPresenter) UploadOutcome {
	if err := ValidateFile(form.File); err != nil {
		presenter.ShowStatus(validationMessage(err), SeverityError)
		return UploadOutcome{State: StateFailed, Err: err}
	}

	presenter.ShowStatus(MessageUploading, SeverityInfo)

	req := BuildUploadRequest(*form.File, form.Labels, u.now())
	req.APIKey = u.apiKey

	u.logger.Debug().
		Str("object_key", req.ObjectKey).
		Str("content_type", req.ContentType).
		Str("custom_labels", req.CustomLabels).
		Msg("enviando foto")

	if err := u.Submit(ctx, req); err != nil {
		u.logger.Error().Err(err).Str("object_key", req.ObjectKey).Msg("falha no upload da foto")
		presenter.ShowStatus(MessageUploadFailed, SeverityError)
		return UploadOutcome{State: StateFailed, ObjectKey: req.ObjectKey, Err: err}
	}

	presenter.ShowStatus(MessageUploadSuccess+form.File.Name, SeveritySuccess)
	return UploadOutcome{State: StateSucceeded, ObjectKey: req.ObjectKey, ResetForm: true}
}

func validationMessage(err error) string {
	if verr, ok := err.(*ValidationError); ok {
		return verr.Message()
	}
	return err.Error()
}

// EncodeURIComponent escapa tudo exceto A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	return uriComponentReplacer.Replace(escaped)
}

var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
