package service

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaStore accepts an image blob and returns a stable URL reference.
// Records store only that reference string; nothing in the application ever
// reads the blob back.
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// S3MediaStore implements MediaStore on S3 or an S3-compatible endpoint.
type S3MediaStore struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewS3MediaStore creates an S3-backed media store.  For S3-compatible
// services set the endpoint parameter; path-style addressing is used then.
func NewS3MediaStore(accessKeyID, secretAccessKey, region, bucket, endpoint string) (*S3MediaStore, error) {
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("media: bucket and region are required")
	}
	ctx := context.Background()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("media: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3MediaStore{
		client:   client,
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}, nil
}

// Put uploads one object and returns its public URL.
func (s *S3MediaStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: put object: %w", err)
	}
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
