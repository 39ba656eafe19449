package objstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

// Client uploads failure screenshots to an S3-compatible object store so a
// broken portal run can be inspected after the browser is gone.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// New creates an object store client from static credentials.
func New(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*Client, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if region == "" {
		region = "eu-central-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Screenshot object store initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// Upload stores a PNG screenshot under the given key and returns its URL.
func (c *Client) Upload(ctx context.Context, key string, png []byte) (string, error) {
	start := time.Now()

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		metrics.ScreenshotUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to upload screenshot %s: %w", key, err)
	}

	metrics.ScreenshotUploadsTotal.WithLabelValues("ok").Inc()
	logger.Debug("Screenshot uploaded",
		zap.String("key", key),
		zap.Float64("duration", metrics.MeasureDuration(start)),
	)
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key), nil
}
