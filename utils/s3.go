package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Task attachments (photo/audio) live in an S3-compatible bucket (Cloudflare
// R2). The client is built once from R2_* env vars and reused.

var (
	s3Once   sync.Once
	s3Client *s3.Client
	s3Err    error
)

func storageClient() (*s3.Client, error) {
	s3Once.Do(func() {
		accountID := os.Getenv("R2_ACCOUNT_ID")
		accessKey := os.Getenv("R2_ACCESS_KEY_ID")
		secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
		if accountID == "" || accessKey == "" || secretKey == "" {
			s3Err = fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID or R2_SECRET_ACCESS_KEY is not set")
			return
		}

		cfg, err := config.LoadDefaultConfig(context.TODO(),
			config.WithRegion("auto"), // required by the SDK, R2 ignores it
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
			),
		)
		if err != nil {
			s3Err = fmt.Errorf("failed to load R2 config: %w", err)
			return
		}

		endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
		s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	})
	return s3Client, s3Err
}

func storageBucket() (string, error) {
	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		return "", fmt.Errorf("R2_BUCKET_NAME is not set")
	}
	return bucket, nil
}

// UploadToS3 stores an object under objectName, inferring the content type
// from the extension.
func UploadToS3(objectName string, file io.Reader) error {
	bucket, err := storageBucket()
	if err != nil {
		return err
	}
	client, err := storageClient()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// GenerateSignedURL returns a presigned GET URL for the given object.
func GenerateSignedURL(objectName string, expiry time.Duration) (string, error) {
	bucket, err := storageBucket()
	if err != nil {
		return "", err
	}
	client, err := storageClient()
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	presigned, err := presigner.PresignGetObject(context.TODO(),
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(objectName),
		},
		func(po *s3.PresignOptions) {
			po.Expires = expiry
		},
	)
	if err != nil {
		return "", fmt.Errorf("presign failed: %w", err)
	}
	return presigned.URL, nil
}

// DeleteFromS3 removes an object; missing objects are not an error.
func DeleteFromS3(objectName string) error {
	bucket, err := storageBucket()
	if err != nil {
		return err
	}
	client, err := storageClient()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}
