package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig descreve um bucket S3/MinIO.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// ObjectStore grava uploads direto no bucket e delega a busca a outro Client.
type ObjectStore struct {
	client *minio.Client
	bucket string
	search Client
}

// NewObjectStore cria o cliente minio e confirma que o bucket existe.
func NewObjectStore(ctx context.Context, cfg ObjectStoreConfig, search Client) (*ObjectStore, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("remote: bucket %s não existe", cfg.Bucket)
	}

	if search == nil {
		search = Noop{}
	}
	return &ObjectStore{client: client, bucket: cfg.Bucket, search: search}, nil
}

// Put grava o objeto. Content-Type e x-amz-meta-* viram opções do PutObject.
func (s *ObjectStore) Put(ctx context.Context, key string, body []byte, headers http.Header) (*Response, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("remote: chave do objeto obrigatória")
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), putOptions(headers))
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.StatusCode != 0 {
			return &Response{Status: resp.StatusCode, Body: []byte(resp.Message)}, nil
		}
		return nil, err
	}

	return &Response{Status: http.StatusOK}, nil
}

// Get delega ao cliente de busca.
func (s *ObjectStore) Get(ctx context.Context, query string, headers http.Header) (*Response, error) {
	return s.search.Get(ctx, query, headers)
}

// Ping verifica acesso ao bucket.
func (s *ObjectStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func putOptions(headers http.Header) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{
		ContentType:  headers.Get("Content-Type"),
		UserMetadata: map[string]string{},
	}
	const metaPrefix = "X-Amz-Meta-"
	for key, values := range headers {
		canonical := http.CanonicalHeaderKey(key)
		if !strings.HasPrefix(canonical, metaPrefix) || len(values) == 0 {
			continue
		}
		name := strings.TrimPrefix(canonical, metaPrefix)
		opts.UserMetadata[name] = values[0]
	}
	return opts
}

func (cfg ObjectStoreConfig) validate() error {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return errors.New("remote: endpoint do bucket ausente")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return errors.New("remote: bucket ausente")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" {
		return errors.New("remote: access key ausente")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return errors.New("remote: secret key ausente")
	}
	return nil
}

// normaliseEndpoint aceita "minio:9000" ou "http(s)://minio:9000".
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("remote: endpoint vazio")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, errors.New("remote: endpoint inválido")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, errors.New("remote: endpoint não pode conter caminho")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}
