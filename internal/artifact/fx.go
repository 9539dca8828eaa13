package artifact

import (
	"context"

	"github.com/smallbiznis/quotedesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewSink selects the archive sink from configuration. The none sink yields
// nil and downloads are not archived.
func NewSink(cfg config.Config, log *zap.Logger) (Sink, error) {
	log = log.Named("artifact")
	switch cfg.Artifact.Sink {
	case config.SinkFilesystem:
		log.Info("archiving downloads to filesystem", zap.String("dir", cfg.Artifact.Dir))
		sink, err := NewFilesystemSink(cfg.Artifact.Dir)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case config.SinkS3:
		log.Info("archiving downloads to s3", zap.String("bucket", cfg.Artifact.S3Bucket))
		sink, err := NewS3Sink(context.Background(), cfg.Artifact)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, nil
	}
}

var Module = fx.Module("artifact",
	fx.Provide(NewSink),
)
