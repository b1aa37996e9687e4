package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ojasva22/frontend-deployment/internal/guard"
	"github.com/ojasva22/frontend-deployment/internal/history"
	"github.com/ojasva22/frontend-deployment/internal/photos"
	"github.com/ojasva22/frontend-deployment/internal/ui"
)

const (
	fieldPhotoFile    = "photo-file"
	fieldCustomLabels = "custom-labels"
	fieldQuery        = "q"

	// Corpo multipart pode exceder o arquivo (labels, boundaries); acima disso nem lemos.
	maxUploadRequestBytes = 4 * photos.MaxFileSizeBytes
	maxLabelsBytes        = 64 << 10
)

// MessageDuplicateUpload é exibida quando a trava de submissão recusa o upload.
const MessageDuplicateUpload = "An upload for this file is already in progress."

var errBadForm = errors.New("form inválido")

// Index renderiza a página com os dois formulários vazios.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, ui.NewPresenter())
}

// UploadPage trata o submit do formulário de upload e re-renderiza a página.
func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	presenter := ui.NewPresenter()
	outcome := h.runUpload(w, r, presenter)
	if outcome.ResetForm {
		presenter.SetLabels("")
	}
	h.renderPage(w, uploadStatusCode(outcome), presenter)
}

// UploadAPI expõe o mesmo pipeline como JSON.
func (h *Handler) UploadAPI(w http.ResponseWriter, r *http.Request) {
	presenter := ui.NewPresenter()
	outcome := h.runUpload(w, r, presenter)
	page := presenter.Page()

	if outcome.State == photos.StateSucceeded {
		WriteJSON(w, http.StatusOK, map[string]any{
			"object_key": outcome.ObjectKey,
			"status":     page.Status,
		})
		return
	}

	status := uploadStatusCode(outcome)
	var verr *photos.ValidationError
	switch {
	case errors.As(outcome.Err, &verr):
		WriteError(w, status, CodeValidation, page.Status.Message, map[string]any{"reasons": reasonCodes(verr)})
	case errors.Is(outcome.Err, guard.ErrInFlight):
		WriteError(w, status, CodeConflict, page.Status.Message, nil)
	case errors.Is(outcome.Err, errBadForm):
		WriteError(w, status, CodeValidation, page.Status.Message, nil)
	default:
		details := map[string]any{"object_key": outcome.ObjectKey}
		var uerr *photos.UploadError
		if errors.As(outcome.Err, &uerr) && uerr.Status != 0 {
			details["upstream_status"] = uerr.Status
		}
		WriteError(w, status, CodeRemote, page.Status.Message, details)
	}
}

// SearchPage trata o submit do formulário de busca.
func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	presenter := ui.NewPresenter()
	query := r.URL.Query().Get(fieldQuery)
	presenter.SetQuery(query)

	outcome := h.runSearch(r.Context(), query, presenter)
	status := http.StatusOK
	if outcome.State == photos.StateFailed {
		status = http.StatusBadGateway
	}
	h.renderPage(w, status, presenter)
}

// SearchAPI devolve os resultados em JSON, já formatados pelo presenter.
func (h *Handler) SearchAPI(w http.ResponseWriter, r *http.Request) {
	presenter := ui.NewPresenter()
	query := r.URL.Query().Get(fieldQuery)

	outcome := h.runSearch(r.Context(), query, presenter)
	page := presenter.Page()
	if outcome.State == photos.StateFailed {
		WriteError(w, http.StatusBadGateway, CodeRemote, page.SearchText, nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"text":    page.SearchText,
		"results": page.Results,
	})
}

// History lista as últimas submissões registradas.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, CodeValidation, "limit inválido", nil)
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, history.ErrDisabled) {
			WriteError(w, http.StatusNotFound, CodeNotFound, "histórico desabilitado", nil)
			return
		}
		log.Error().Err(err).Msg("falha ao listar histórico")
		WriteError(w, http.StatusInternalServerError, CodeInternal, "não foi possível carregar histórico", nil)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) runUpload(w http.ResponseWriter, r *http.Request, presenter *ui.Presenter) photos.UploadOutcome {
	start := time.Now()

	form, err := readUploadForm(w, r)
	if err != nil {
		var verr *photos.ValidationError
		if errors.As(err, &verr) {
			presenter.ShowStatus(verr.Message(), photos.SeverityError)
		} else {
			presenter.ShowStatus("Invalid upload form.", photos.SeverityError)
		}
		outcome := photos.UploadOutcome{State: photos.StateFailed, Err: err}
		h.finishUpload(r, form, outcome, start)
		return outcome
	}
	presenter.SetLabels(form.Labels)

	if form.File != nil {
		release, err := h.guard.Acquire(r.Context(), remoteHost(r), form.File.Name, strconv.FormatInt(form.File.Size, 10))
		switch {
		case errors.Is(err, guard.ErrInFlight):
			presenter.ShowStatus(MessageDuplicateUpload, photos.SeverityError)
			outcome := photos.UploadOutcome{State: photos.StateFailed, Err: err}
			h.finishUpload(r, form, outcome, start)
			return outcome
		case err != nil:
			log.Warn().Err(err).Msg("trava de submissão indisponível; seguindo sem ela")
		default:
			defer release()
		}
	}

	outcome := h.uploader.Handle(r.Context(), form, presenter)
	h.finishUpload(r, form, outcome, start)
	return outcome
}

func (h *Handler) finishUpload(r *http.Request, form photos.UploadForm, outcome photos.UploadOutcome, start time.Time) {
	h.metrics.observeUpload(uploadMetricLabel(outcome), time.Since(start).Seconds())

	subject := outcome.ObjectKey
	if subject == "" && form.File != nil {
		subject = form.File.Name
	}
	h.record(r.Context(), history.Entry{
		Kind:    history.KindUpload,
		Subject: subject,
		Outcome: string(outcome.State),
		Detail:  errString(outcome.Err),
	})
}

func (h *Handler) runSearch(ctx context.Context, query string, presenter *ui.Presenter) photos.SearchOutcome {
	start := time.Now()
	outcome := h.searcher.Handle(ctx, query, presenter)
	h.metrics.observeSearch(outcome, time.Since(start).Seconds())

	detail := errString(outcome.Err)
	if outcome.Err == nil {
		detail = fmt.Sprintf("%d resultados", len(outcome.Results))
	}
	h.record(ctx, history.Entry{
		Kind:    history.KindSearch,
		Subject: query,
		Outcome: string(outcome.State),
		Detail:  detail,
	})
	return outcome
}

func (h *Handler) record(ctx context.Context, entry history.Entry) {
	if err := h.history.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("kind", entry.Kind).Msg("falha ao registrar histórico")
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, presenter *ui.Presenter) {
	var buf bytes.Buffer
	if err := ui.Render(&buf, presenter.Page()); err != nil {
		log.Error().Err(err).Msg("falha ao renderizar página")
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// readUploadForm lê o multipart parte a parte. O cabeçalho da parte do arquivo é lido antes
// do corpo, então um arquivo acima do limite ainda chega ao validador com nome, tipo e tamanho.
func readUploadForm(w http.ResponseWriter, r *http.Request) (photos.UploadForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)

	var form photos.UploadForm
	mr, err := r.MultipartReader()
	if err != nil {
		return form, fmt.Errorf("%w: %v", errBadForm, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return form, bodyError(form, err)
		}

		switch {
		case part.FormName() == fieldCustomLabels:
			value, err := io.ReadAll(io.LimitReader(part, maxLabelsBytes))
			if err != nil {
				return form, bodyError(form, err)
			}
			form.Labels = string(value)
		case part.FormName() == fieldPhotoFile && part.FileName() != "" && form.File == nil:
			file, err := readFilePart(part)
			form.File = file
			if err != nil {
				return form, bodyError(form, err)
			}
		}
		_ = part.Close()
	}
}

// readFilePart guarda até MaxFileSizeBytes e só conta o restante.
func readFilePart(part *multipart.Part) (*photos.File, error) {
	file := &photos.File{
		Name:        part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, photos.MaxFileSizeBytes+1))
	file.Size = n
	if err != nil {
		return file, err
	}
	if n <= photos.MaxFileSizeBytes {
		file.Data = buf.Bytes()
		return file, nil
	}

	rest, err := io.Copy(io.Discard, part)
	file.Size += rest
	return file, err
}

// bodyError traduz falhas de leitura. Estourar o limite do corpo depois de ver o arquivo
// não é erro: o validador recebe o arquivo já marcado como grande demais.
func bodyError(form photos.UploadForm, err error) error {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return fmt.Errorf("%w: %v", errBadForm, err)
	}
	if form.File != nil && form.File.Size > photos.MaxFileSizeBytes {
		return nil
	}
	return &photos.ValidationError{Reasons: []error{photos.ErrTooLarge}}
}

func uploadStatusCode(outcome photos.UploadOutcome) int {
	var verr *photos.ValidationError
	switch {
	case outcome.State == photos.StateSucceeded:
		return http.StatusOK
	case errors.As(outcome.Err, &verr):
		if errors.Is(verr, photos.ErrTooLarge) && !errors.Is(verr, photos.ErrInvalidType) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case errors.Is(outcome.Err, guard.ErrInFlight):
		return http.StatusConflict
	case errors.Is(outcome.Err, errBadForm):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func uploadMetricLabel(outcome photos.UploadOutcome) string {
	var verr *photos.ValidationError
	switch {
	case outcome.State == photos.StateSucceeded:
		return "succeeded"
	case errors.As(outcome.Err, &verr), errors.Is(outcome.Err, errBadForm):
		return "rejected"
	case errors.Is(outcome.Err, guard.ErrInFlight):
		return "duplicate"
	default:
		return "failed"
	}
}

func reasonCodes(verr *photos.ValidationError) []string {
	codes := make([]string, 0, len(verr.Reasons))
	for _, reason := range verr.Reasons {
		switch {
		case errors.Is(reason, photos.ErrMissing):
			codes = append(codes, "missing")
		case errors.Is(reason, photos.ErrInvalidType):
			codes = append(codes, "invalid_type")
		case errors.Is(reason, photos.ErrTooLarge):
			codes = append(codes, "too_large")
		}
	}
	return codes
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
