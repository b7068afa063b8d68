package utils

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var storageClient *s3.Client
var storageBucket string

// InitStorage configures the S3-compatible bucket used to archive data
// exports (lead CSVs). Settings come from the loaded Config; this
// package never reads the environment. Returns false when no bucket is
// configured, in which case exports are served inline only.
func InitStorage(endpoint, accessKeyID, accessKeySecret, bucket string) (bool, error) {
	storageBucket = bucket
	if storageBucket == "" {
		return false, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return false, fmt.Errorf("failed to load storage config: %w", err)
	}

	storageClient = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})
	return true, nil
}

// StorageEnabled reports whether archive uploads are configured.
func StorageEnabled() bool {
	return storageClient != nil
}

// ArchiveExport uploads a generated export under the given object key.
func ArchiveExport(ctx context.Context, key, contentType string, data []byte) error {
	if storageClient == nil {
		return fmt.Errorf("storage not configured")
	}

	_, err := storageClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(storageBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload export: %w", err)
	}
	return nil
}
