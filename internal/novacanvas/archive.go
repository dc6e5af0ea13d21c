package novacanvas

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/HatmanStack/canvas-demo/internal/logger"
)

// objectStore is the slice of S3 shared by the archive and the rate limiter.
type objectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
}

type s3Store struct {
	client *s3.Client
	bucket string
}

func newS3Store(ctx context.Context, config ServiceConfig) (*s3Store, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.ArchiveRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &s3Store{
		client: s3.NewFromConfig(awsConfig),
		bucket: config.ArchiveBucket,
	}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *s3Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Archive keeps a best-effort copy of each request body and first generated
// image in the bucket. Failures are logged, never surfaced to the caller.
type Archive struct {
	store objectStore
	now   func() time.Time
}

func NewArchive(store objectStore) *Archive {
	return &Archive{store: store, now: time.Now}
}

func (a *Archive) Store(ctx context.Context, requestBody []byte, imageB64 string) {
	timestamp := a.now().Format("20060102_150405")
	responseKey := fmt.Sprintf("responses/%s_response.json", timestamp)
	if err := a.store.Put(ctx, responseKey, requestBody, "application/json"); err != nil {
		logger.Warnf("failed to archive request body: %s", err)
		return
	}
	if imageB64 == "" {
		return
	}
	imageData, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		logger.Warnf("failed to decode image for archive: %s", err)
		return
	}
	imageKey := fmt.Sprintf("images/%s_image.png", timestamp)
	if err := a.store.Put(ctx, imageKey, imageData, "image/png"); err != nil {
		logger.Warnf("failed to archive image: %s", err)
	}
}
