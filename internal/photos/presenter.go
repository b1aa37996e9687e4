package photos

// Severity classifica mensagens de status.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// StatusPresenter recebe o status do formulário de upload.
type StatusPresenter interface {
	ShowStatus(message string, severity Severity)
}

// ResultsPresenter recebe o conteúdo da área de resultados da busca.
type ResultsPresenter interface {
	ShowSearchText(text string)
	RenderResults(results []SearchResult)
}

// Mensagens exibidas ao usuário.
const (
	MessageUploading      = "Uploading..."
	MessageUploadSuccess  = "File uploaded successfully: "
	MessageUploadFailed   = "Upload failed. Check console for details."
	MessageSearching      = "Searching..."
	MessageNoResults      = "No results found."
	MessageSearchFailed   = "Error fetching search results. See console for details."
	MessageLabelsTemplate = "Labels: "
)
