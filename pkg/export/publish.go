package export

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is used when detection yields nothing.
const DefaultContentType = "application/octet-stream"

// ObjectPutter is the subset of the S3 API the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PublishConfig names the destination.
type PublishConfig struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string
}

// Publisher uploads an exported directory to S3.
type Publisher struct {
	client ObjectPutter
	config PublishConfig
	logger *slog.Logger
}

// NewPublisher loads AWS credentials through the default chain.
func NewPublisher(ctx context.Context, cfg PublishConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("publish bucket is required")
	}
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return NewPublisherWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg, logger), nil
}

// NewPublisherWithClient uses an existing client.
func NewPublisherWithClient(client ObjectPutter, cfg PublishConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, config: cfg, logger: logger}
}

// PublishStats summarizes an upload run.
type PublishStats struct {
	Objects int
	Bytes   int64
}

// Publish uploads every regular file under dir. The object key is the
// prefix joined with the slash-separated relative path.
func (p *Publisher) Publish(ctx context.Context, dir string) (*PublishStats, error) {
	stats := &PublishStats{}
	err := filepath.WalkDir(dir, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, fp)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(fp)
		if err != nil {
			return fmt.Errorf("read %s: %w", fp, err)
		}

		key := ObjectKey(p.config.Prefix, filepath.ToSlash(rel))
		contentType := ContentType(rel, data)
		_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.config.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		p.logger.Debug("uploaded object", "bucket", p.config.Bucket, "key", key, "content_type", contentType)
		stats.Objects++
		stats.Bytes += int64(len(data))
		return nil
	})
	if err != nil {
		return stats, err
	}
	p.logger.Info("publish finished", "bucket", p.config.Bucket, "prefix", p.config.Prefix, "objects", stats.Objects)
	return stats, nil
}

// ObjectKey joins prefix and rel without a leading slash.
func ObjectKey(prefix, rel string) string {
	return strings.TrimPrefix(path.Join(strings.Trim(prefix, "/"), rel), "/")
}

// ContentType sniffs data with mimetype. Text formats mimetype cannot tell
// apart by content are mapped from the extension.
func ContentType(name string, data []byte) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	}
	if mt := mimetype.Detect(data); mt != nil {
		return mt.String()
	}
	return DefaultContentType
}
