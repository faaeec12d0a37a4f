package offsite

import (
	"context"
	"fmt"

	"playbook/internal/config"
	"playbook/internal/core"
)

// NewDestinationFromConfig creates a core.Destination implementation based on
// the destination config type.
func NewDestinationFromConfig(ctx context.Context, cfg config.DestinationConfig) (core.Destination, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryDestination(cfg.Name), nil
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem destination requires dir to be set")
		}
		return NewFilesystemDestination(cfg.Name, cfg.Dir)
	case "s3":
		return NewS3Destination(ctx, cfg.Name, S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown destination type: %s", cfg.Type)
	}
}
