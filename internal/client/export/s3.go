package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNoBucket = errors.New("s3 bucket is not configured")

// S3Config describes an S3-compatible target such as MinIO.
type S3Config struct {
	AccessKey    string `json:"access_key" yaml:"access_key"`
	SecretKey    string `json:"secret_key" yaml:"secret_key"`
	Bucket       string `json:"bucket" yaml:"bucket"`
	Region       string `json:"region" yaml:"region"`
	BaseEndpoint string `json:"base_endpoint" yaml:"base_endpoint"`
}

// PutObjectAPI is the part of *s3.Client the sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	client PutObjectAPI
	bucket string
	key    string
}

// NewS3Sink builds an S3 client from static credentials. BaseEndpoint, when
// set, replaces the AWS endpoint and switches to path-style addressing.
func NewS3Sink(ctx context.Context, cfg S3Config, key string) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SinkWithClient(client, cfg.Bucket, key), nil
}

func NewS3SinkWithClient(client PutObjectAPI, bucket, key string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, key: key}
}

func (s *S3Sink) Put(ctx context.Context, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key), nil
}
