package artifact

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/smallbiznis/quotedesk/internal/config"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Sink uploads objects to a bucket with the s3 transfer manager.
type S3Sink struct {
	bucket   string
	uploader uploader
}

func NewS3Sink(ctx context.Context, cfg config.ArtifactConfig) (*S3Sink, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 sink: bucket: %w", ErrSinkUnavailable)
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3Access != "" && cfg.S3Secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3Access, cfg.S3Secret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &S3Sink{bucket: cfg.S3Bucket, uploader: manager.NewUploader(client)}, nil
}

func (s *S3Sink) Store(ctx context.Context, obj Object) (Stored, error) {
	key := Key(obj)
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(obj.Body),
		ContentType: aws.String(obj.ContentType),
	})
	if err != nil {
		return Stored{}, fmt.Errorf("s3 upload: %w", err)
	}
	return Stored{Key: key, Location: result.Location}, nil
}
