package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"studentrecords/internal/model"
)

// S3Config locates the table object. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	HTTPClient      *http.Client // optional, mostly for tests
}

// S3Store keeps the CSV table as a single object in an S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	key    string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if cfg.Key == "" {
		cfg.Key = "students_data.csv"
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", ErrUnavailable, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return &S3Store{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *S3Store) Load(ctx context.Context) ([]model.Student, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if isNotFound(err) {
		if err := s.Save(ctx, nil); err != nil {
			return nil, err
		}
		return []model.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", ErrUnavailable, s.bucket, s.key, err)
	}
	defer out.Body.Close()

	return ReadCSV(out.Body)
}

func (s *S3Store) Save(ctx context.Context, students []model.Student) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, students); err != nil {
		return fmt.Errorf("%w: encode table: %w", ErrUnavailable, err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("%w: put s3://%s/%s: %w", ErrUnavailable, s.bucket, s.key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
