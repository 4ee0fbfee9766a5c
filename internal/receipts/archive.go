package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrArchiveDisabled = errors.New("receipt archive is not configured")

// S3API is the subset of the S3 client the archiver needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type S3Archiver struct {
	client S3API
	bucket string
}

// NewS3Client builds a client from static credentials. A custom endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func NewS3Archiver(client S3API, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

func ObjectKey(visitID uint) string {
	return fmt.Sprintf("receipts/%d.json", visitID)
}

// Archive uploads the receipt as JSON and returns the object key.
func (a *S3Archiver) Archive(ctx context.Context, r Receipt) (string, error) {
	if a == nil || a.client == nil || a.bucket == "" {
		return "", ErrArchiveDisabled
	}

	body, err := json.Marshal(r)
	if err != nil {
		return "", err
	}

	key := ObjectKey(r.VisitID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"archive-id": uuid.NewString(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put receipt %d: %w", r.VisitID, err)
	}

	return key, nil
}
