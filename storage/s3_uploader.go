package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3UploaderConfig covers AWS S3 and S3-compatible stores. For Cloudflare R2
// set AccountID and leave Endpoint empty.
type S3UploaderConfig struct {
	AccountID       string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
	UsePathStyle    bool
}

type s3Uploader struct {
	s3Client      *s3.Client
	bucketName    string
	publicBaseURL string
}

// endpoint returns the explicit endpoint, the R2 endpoint for AccountID, or ""
// to let the SDK pick the AWS default.
func (c S3UploaderConfig) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}
	return ""
}

func NewS3Uploader(ctx context.Context, cfg S3UploaderConfig) (FileUploader, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, errors.New("invalid object storage configuration: access key, secret key and bucket are required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	endpoint := cfg.endpoint()
	s3Client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &s3Uploader{
		s3Client:      s3Client,
		bucketName:    cfg.BucketName,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	result, err := u.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object (key: %s): %w", key, err)
	}

	etag := ""
	if result.ETag != nil {
		// S3-compatible APIs quote the ETag.
		etag = strings.Trim(*result.ETag, "\"")
	}

	return &UploadResult{
		Key:      key,
		Location: u.GetPublicURL(key),
		ETag:     etag,
	}, nil
}

func (u *s3Uploader) GetPublicURL(key string) string {
	return publicURL(u.publicBaseURL, key)
}

func publicURL(base, key string) string {
	if base == "" || key == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		slog.Warn("invalid public base URL", "url", base, "error", err)
		return ""
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	pathURL, err := url.Parse(strings.TrimPrefix(key, "/"))
	if err != nil {
		slog.Warn("invalid object key", "key", key, "error", err)
		return ""
	}
	return baseURL.ResolveReference(pathURL).String()
}
