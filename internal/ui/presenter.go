package ui

import (
	"strings"

	"github.com/ojasva22/frontend-deployment/internal/photos"
)

var severityColors = map[photos.Severity]string{
	photos.SeverityInfo:    "blue",
	photos.SeveritySuccess: "green",
	photos.SeverityError:   "red",
}

// Status é a mensagem atual do formulário de upload.
type Status struct {
	Message  string          `json:"message"`
	Severity photos.Severity `json:"severity"`
}

// Color traduz a severidade para a cor fixa exibida na página.
func (s Status) Color() string {
	return severityColors[s.Severity]
}

// ResultView é um par imagem + bloco de detalhes.
type ResultView struct {
	ImageSrc string `json:"image_src"`
	ImageAlt string `json:"image_alt"`
	Labels   string `json:"labels"`
}

// Page é o estado renderizável de uma requisição.
type Page struct {
	Status     Status       `json:"status"`
	Labels     string       `json:"labels"`
	Query      string       `json:"query"`
	SearchText string       `json:"search_text,omitempty"`
	Results    []ResultView `json:"results"`
}

// Presenter acumula o estado da página durante um único handler.
type Presenter struct {
	page Page
}

// NewPresenter cria presenter vazio.
func NewPresenter() *Presenter {
	return &Presenter{page: Page{Results: []ResultView{}}}
}

// ShowStatus sobrescreve o status anterior.
func (p *Presenter) ShowStatus(message string, severity photos.Severity) {
	p.page.Status = Status{Message: message, Severity: severity}
}

// ShowSearchText troca toda a área de resultados por um texto.
func (p *Presenter) ShowSearchText(text string) {
	p.page.Results = []ResultView{}
	p.page.SearchText = text
}

// RenderResults limpa a área e adiciona um item por resultado, na ordem recebida.
func (p *Presenter) RenderResults(results []photos.SearchResult) {
	p.page.Results = make([]ResultView, 0, len(results))
	p.page.SearchText = ""

	if len(results) == 0 {
		p.page.SearchText = photos.MessageNoResults
		return
	}

	for _, result := range results {
		p.page.Results = append(p.page.Results, ResultView{
			ImageSrc: result.URL,
			ImageAlt: "Photo",
			Labels:   strings.Join(result.Labels, ", "),
		})
	}
}

// SetLabels define o valor do campo de labels.
func (p *Presenter) SetLabels(labels string) {
	p.page.Labels = labels
}

// SetQuery define o valor do campo de busca.
func (p *Presenter) SetQuery(query string) {
	p.page.Query = query
}

// Page devolve uma cópia do estado atual.
func (p *Presenter) Page() Page {
	page := p.page
	page.Results = append([]ResultView(nil), p.page.Results...)
	if page.Results == nil {
		page.Results = []ResultView{}
	}
	return page
}
