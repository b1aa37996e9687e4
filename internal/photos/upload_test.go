package photos

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ojasva22/frontend-deployment/internal/remote"
)

func TestBuildUploadRequestForPNG(t *testing.T) {
	file := File{Name: "photo.png", ContentType: "image/png", Size: 1000, Data: make([]byte, 1000)}
	req := BuildUploadRequest(file, "beach, sunset", time.UnixMilli(1700000000000))

	if req.ObjectKey != "uploads/1700000000000_photo.png" {
		t.Fatalf("unexpected key %q", req.ObjectKey)
	}
	headers := req.Headers()
	if headers.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected content type %q", headers.Get("Content-Type"))
	}
	if headers.Get("x-amz-meta-customLabels") != "beach, sunset" {
		t.Fatalf("unexpected labels %q", headers.Get("x-amz-meta-customLabels"))
	}
	if len(req.Body) != 1000 {
		t.Fatalf("unexpected body size %d", len(req.Body))
	}
}

func TestBuildUploadRequestKeyAndHeaders(t *testing.T) {
	keyPattern := regexp.MustCompile(`^uploads/\d+_[A-Za-z0-9\-_.!~*'()%]+$`)

	tests := []struct {
		name       string
		file       File
		labels     string
		wantKey    string
		wantType   string
		wantLabels string
	}{
		{"labels vazias", File{Name: "a.jpg", ContentType: "image/jpeg"}, "", "uploads/42_a.jpg", "image/jpeg", ""},
		{"labels com espaços", File{Name: "a.jpg", ContentType: "image/jpeg"}, "  dog , cat  ", "uploads/42_a.jpg", "image/jpeg", "dog , cat"},
		{"nome com espaço", File{Name: "minha foto.png", ContentType: "image/png"}, "x", "uploads/42_minha%20foto.png", "image/png", "x"},
		{"nome com barra", File{Name: "a/b&c.png", ContentType: "image/png"}, "", "uploads/42_a%2Fb%26c.png", "image/png", ""},
		{"sem content type", File{Name: "raw"}, "", "uploads/42_raw", "application/octet-stream", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := BuildUploadRequest(tc.file, tc.labels, time.UnixMilli(42))
			if req.ObjectKey != tc.wantKey {
				t.Fatalf("expected key %q got %q", tc.wantKey, req.ObjectKey)
			}
			if !keyPattern.MatchString(req.ObjectKey) {
				t.Fatalf("key %q does not match pattern", req.ObjectKey)
			}
			headers := req.Headers()
			if headers.Get("Content-Type") != tc.wantType {
				t.Fatalf("expected content type %q got %q", tc.wantType, headers.Get("Content-Type"))
			}
			values, ok := headers[http.CanonicalHeaderKey(HeaderCustomLabels)]
			if !ok || len(values) != 1 || values[0] != tc.wantLabels {
				t.Fatalf("expected labels header %q got %v (present=%v)", tc.wantLabels, values, ok)
			}
		})
	}
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"photo.png":       "photo.png",
		"a b.png":         "a%20b.png",
		"a+b.png":         "a%2Bb.png",
		"it's (1)!*~.jpg": "it's%20(1)!*~.jpg",
		"ção.png":         "%C3%A7%C3%A3o.png",
		"a?b=c#d":         "a%3Fb%3Dc%23d",
	}
	for in, want := range tests {
		if got := EncodeURIComponent(in); got != want {
			t.Fatalf("EncodeURIComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUploaderSubmit(t *testing.T) {
	transportErr := errors.New("connection refused")

	tests := []struct {
		name       string
		resp       *remote.Response
		err        error
		wantErr    bool
		wantStatus int
		wantBody   string
	}{
		{"200", &remote.Response{Status: http.StatusOK}, nil, false, 0, ""},
		{"201 não é sucesso", &remote.Response{Status: http.StatusCreated}, nil, true, http.StatusCreated, ""},
		{"403 com corpo", &remote.Response{Status: http.StatusForbidden, Body: []byte(`{"message":"Forbidden"}`)}, nil, true, http.StatusForbidden, `{"message":"Forbidden"}`},
		{"erro de transporte", nil, transportErr, true, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubRemote{putResp: tc.resp, putErr: tc.err}
			uploader := NewUploader(stub, "secret", zerolog.Nop())

			err := uploader.Submit(context.Background(), UploadRequest{ObjectKey: "uploads/1_a.png", ContentType: "image/png"})
			if stub.putCalls != 1 {
				t.Fatalf("expected exactly one call got %d", stub.putCalls)
			}
			if stub.putHeaders.Get("x-api-key") != "secret" {
				t.Fatalf("api key not injected: %q", stub.putHeaders.Get("x-api-key"))
			}
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}

			var uerr *UploadError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected *UploadError got %T (%v)", err, err)
			}
			if uerr.Status != tc.wantStatus || uerr.Body != tc.wantBody {
				t.Fatalf("unexpected error fields %+v", uerr)
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Fatalf("expected wrapped transport error")
			}
		})
	}
}

func TestUploaderHandle(t *testing.T) {
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	valid := &File{Name: "photo.png", ContentType: "image/png", Size: 3, Data: []byte("abc")}

	tests := []struct {
		name       string
		form       UploadForm
		resp       *remote.Response
		err        error
		wantState  State
		wantReset  bool
		wantCalls  int
		wantStatus string
		wantSev    Severity
	}{
		{"sucesso limpa formulário", UploadForm{File: valid, Labels: "beach"}, &remote.Response{Status: 200}, nil, StateSucceeded, true, 1, "File uploaded successfully: photo.png", SeveritySuccess},
		{"500 mantém formulário", UploadForm{File: valid, Labels: "beach"}, &remote.Response{Status: 500}, nil, StateFailed, false, 1, MessageUploadFailed, SeverityError},
		{"erro de rede mantém formulário", UploadForm{File: valid}, nil, errors.New("boom"), StateFailed, false, 1, MessageUploadFailed, SeverityError},
		{"validação não chama remoto", UploadForm{File: &File{Name: "a.gif", ContentType: "image/gif", Size: 1}}, nil, nil, StateFailed, false, 0, "Invalid file type. Please upload JPEG, PNG, or JPG.", SeverityError},
		{"sem arquivo", UploadForm{}, nil, nil, StateFailed, false, 0, "Please select a file to upload.", SeverityError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubRemote{putResp: tc.resp, putErr: tc.err}
			uploader := NewUploader(stub, "k", zerolog.Nop()).WithClock(clock)
			presenter := &recordingPresenter{}

			out := uploader.Handle(context.Background(), tc.form, presenter)
			if out.State != tc.wantState || out.ResetForm != tc.wantReset {
				t.Fatalf("unexpected outcome %+v", out)
			}
			if stub.putCalls != tc.wantCalls {
				t.Fatalf("expected %d calls got %d", tc.wantCalls, stub.putCalls)
			}
			if presenter.lastStatus() != tc.wantStatus {
				t.Fatalf("expected status %q got %q", tc.wantStatus, presenter.lastStatus())
			}
			if presenter.severities[len(presenter.severities)-1] != tc.wantSev {
				t.Fatalf("unexpected severity %v", presenter.severities)
			}
			if tc.wantCalls > 0 {
				if presenter.statuses[0] != MessageUploading || presenter.severities[0] != SeverityInfo {
					t.Fatalf("expected Uploading... first, got %v", presenter.statuses)
				}
				if stub.putKey != "uploads/1700000000000_photo.png" || out.ObjectKey != stub.putKey {
					t.Fatalf("unexpected key %q / %q", stub.putKey, out.ObjectKey)
				}
			}
		})
	}
}
