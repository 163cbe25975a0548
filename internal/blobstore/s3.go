package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// SDK seams, replaceable in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Store implements BlobStore over an S3-compatible backend. Objects are
// written with AES-256 server-side encryption requested; whether the backend
// honored it is reported back to the caller per upload.
type S3Store struct {
	accessKey    string
	secretKey    string
	bucket       string
	region       string
	baseEndpoint string
}

func NewS3Store(accessKey, secretKey, bucket, region, baseEndpoint string) *S3Store {
	return &S3Store{
		accessKey:    accessKey,
		secretKey:    secretKey,
		bucket:       bucket,
		region:       region,
		baseEndpoint: baseEndpoint,
	}
}

// storageKey builds a date-partitioned object key. The key doubles as the
// opaque blob reference stored in document metadata.
func storageKey(ownerID string) string {
	d := time.Now()
	return fmt.Sprintf("users/%s/%d/%d/%d/%v", ownerID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.accessKey,
			s.secretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.baseEndpoint)
	})

	return client, nil
}

// Upload writes the payload under a fresh storage key and returns the key as
// the blob reference.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string, ownerID string) (string, bool, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", false, err
	}

	bucket := s.bucket
	key := storageKey(ownerID)

	out, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:               &bucket,
		Key:                  &key,
		Body:                 bytes.NewReader(data),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", false, fmt.Errorf("put object error: %w", err)
	}

	encrypted := out.ServerSideEncryption != ""

	return key, encrypted, nil
}

// Delete removes the object behind ref. Deleting an already absent object is
// not an error on S3, which suits the best-effort cleanup caller.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := s.bucket

	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &ref,
	}); err != nil {
		return fmt.Errorf("delete object error: %w", err)
	}

	return nil
}
