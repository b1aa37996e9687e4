package remote

import (
	"context"
	"fmt"

	"github.com/ojasva22/frontend-deployment/internal/config"
)

// NewFromConfig escolhe o backend conforme REMOTE_PROVIDER.
func NewFromConfig(ctx context.Context, cfg config.RemoteConfig) (Client, error) {
	switch cfg.Provider {
	case "", "noop":
		return Noop{}, nil
	case "gateway":
		gw, err := NewGateway(GatewayConfig{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
		if err != nil {
			return nil, err
		}
		return gw, nil
	case "minio", "s3":
		var search Client = Noop{}
		if cfg.BaseURL != "" {
			gw, err := NewGateway(GatewayConfig{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
			if err != nil {
				return nil, err
			}
			search = gw
		}
		store, err := NewObjectStore(ctx, ObjectStoreConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
		}, search)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("remote: provedor %s não suportado", cfg.Provider)
	}
}
