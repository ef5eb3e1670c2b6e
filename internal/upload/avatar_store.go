// Package upload stores user avatars in S3-compatible object storage and
// returns publicly addressable URLs.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/andklim/contacts-be/internal/config"
)

// AvatarStoreProvider is the upload surface the handlers depend on.
type AvatarStoreProvider interface {
	Upload(ctx context.Context, body io.Reader, contentType, username string) (string, error)
}

// AvatarStore uploads avatar images to a configured bucket.
type AvatarStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewAvatarStore builds the S3 client from configuration. A custom endpoint
// supports MinIO-style deployments.
func NewAvatarStore(cfg *config.Config) (*AvatarStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.S3PublicBaseURL
	if publicBase == "" {
		publicBase = cfg.S3Endpoint
	}

	return &AvatarStore{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload stores an avatar under a per-user key and returns its public URL.
// Each upload gets a fresh key so stale CDN copies never mask an update.
func (s *AvatarStore) Upload(ctx context.Context, body io.Reader, contentType, username string) (string, error) {
	key := fmt.Sprintf("avatars/%s/%s", username, uuid.New())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key), nil
}
