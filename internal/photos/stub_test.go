package photos

import (
	"context"
	"net/http"

	"github.com/ojasva22/frontend-deployment/internal/remote"
)

type stubRemote struct {
	putResp *remote.Response
	putErr  error
	getResp *remote.Response
	getErr  error

	putCalls   int
	putKey     string
	putBody    []byte
	putHeaders http.Header
	getCalls   int
	getQuery   string
	getHeaders http.Header
}

func (s *stubRemote) Put(ctx context.Context, key string, body []byte, headers http.Header) (*remote.Response, error) {
	s.putCalls++
	s.putKey = key
	s.putBody = body
	s.putHeaders = headers
	return s.putResp, s.putErr
}

func (s *stubRemote) Get(ctx context.Context, query string, headers http.Header) (*remote.Response, error) {
	s.getCalls++
	s.getQuery = query
	s.getHeaders = headers
	return s.getResp, s.getErr
}

type recordingPresenter struct {
	statuses   []string
	severities []Severity
	texts      []string
	rendered   [][]SearchResult
}

func (p *recordingPresenter) ShowStatus(message string, severity Severity) {
	p.statuses = append(p.statuses, message)
	p.severities = append(p.severities, severity)
}

func (p *recordingPresenter) ShowSearchText(text string) {
	p.texts = append(p.texts, text)
}

func (p *recordingPresenter) RenderResults(results []SearchResult) {
	p.rendered = append(p.rendered, results)
}

func (p *recordingPresenter) lastStatus() string {
	if len(p.statuses) == 0 {
		return ""
	}
	return p.statuses[len(p.statuses)-1]
}
