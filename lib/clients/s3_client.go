package clients

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ClientInterface defines the presigning operations used for document files
type S3ClientInterface interface {
	GenerateUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// S3Client wraps the AWS S3 presign client for the documents bucket
type S3Client struct {
	presignClient *s3.PresignClient
	bucket        string
}

// NewS3Client creates a new S3 client instance
func NewS3Client(isLocal bool, bucket string) S3ClientInterface {
	svc := s3.NewFromConfig(loadAWSConfig(isLocal), func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3Client{
		presignClient: s3.NewPresignClient(svc),
		bucket:        bucket,
	}
}

// GenerateUploadURL creates a presigned URL for uploading a file to S3
func (client *S3Client) GenerateUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presignResult, err := client.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}

	return presignResult.URL, nil
}

// GenerateDownloadURL creates a presigned URL for downloading a file from S3
func (client *S3Client) GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presignResult, err := client.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}

	return presignResult.URL, nil
}
