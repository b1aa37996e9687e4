package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ojasva22/frontend-deployment/internal/remote"
)

// SearchError descreve falha da busca.
type SearchError struct {
	Status int
	Err    error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("photos: busca falhou: %v", e.Err)
	}
	return fmt.Sprintf("photos: busca falhou: status %d", e.Status)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// SearchOutcome resume uma submissão da busca.
type SearchOutcome struct {
	State   State
	Query   string
	Results []SearchResult
	Err     error
}

// Searcher coordena consultas ao endpoint de busca.
type Searcher struct {
	client remote.Client
	apiKey string
	logger zerolog.Logger
}

// NewSearcher injeta cliente remoto e credencial estática.
func NewSearcher(client remote.Client, apiKey string, logger zerolog.Logger) *Searcher {
	if client == nil {
		client = remote.Noop{}
	}
	return &Searcher{client: client, apiKey: apiKey, logger: logger}
}

// Search consulta o endpoint. Lista vazia ou ausente é sucesso.
func (s *Searcher) Search(ctx context.Context, query SearchQuery) ([]SearchResult, error) {
	headers := http.Header{}
	headers.Set(HeaderAPIKey, s.apiKey)

	resp, err := s.client.Get(ctx, query.Text, headers)
	if err != nil {
		return nil, &SearchError{Err: err}
	}
	if resp == nil {
		return nil, &SearchError{Err: fmt.Errorf("resposta vazia")}
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, &SearchError{Status: resp.Status}
	}

	var payload searchResponse
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			return nil, &SearchError{Status: resp.Status, Err: fmt.Errorf("json inválido: %w", err)}
		}
	}

	results := make([]SearchResult, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.Labels == nil {
			item.Labels = []string{}
		}
		results = append(results, item)
	}
	return results, nil
}

// Handle processa uma submissão do formulário de busca.
func (s *Searcher) Handle(ctx context.Context, text string, presenter ResultsPresenter) SearchOutcome {
	presenter.ShowSearchText(MessageSearching)

	results, err := s.Search(ctx, SearchQuery{Text: text})
	if err != nil {
		s.logger.Error().Err(err).Str("query", text).Msg("falha ao buscar fotos")
		presenter.ShowSearchText(MessageSearchFailed)
		return SearchOutcome{State: StateFailed, Query: text, Err: err}
	}

	presenter.RenderResults(results)
	return SearchOutcome{State: StateSucceeded, Query: text, Results: results}
}
