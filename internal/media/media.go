// Package media stores user-uploaded images in an S3-compatible bucket.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vibetrip/vibetrip/internal/idgen"
)

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 10 << 20 // 10 MiB

// ErrTooLarge is returned when an upload exceeds MaxUploadSize.
var ErrTooLarge = errors.New("upload exceeds maximum size")

// ErrUnsupportedType is returned for content types outside the image whitelist.
var ErrUnsupportedType = errors.New("unsupported content type")

// extensions maps accepted content types to object key extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Uploader writes image uploads to an S3-compatible bucket.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewUploader creates an uploader for the given bucket. If endpoint is
// non-empty, path-style addressing is enabled (for MinIO and similar).
// baseURL is the public prefix returned in upload URLs; when empty the
// standard S3 URL for the bucket and region is used.
func NewUploader(ctx context.Context, bucket, region, endpoint, baseURL string) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	if baseURL == "" {
		if endpoint != "" {
			baseURL = strings.TrimRight(endpoint, "/") + "/" + bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload stores data under a generated key for userID and returns the public
// URL of the object.
func (u *Uploader) Upload(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	key, err := ObjectKey(userID, contentType, len(data))
	if err != nil {
		return "", err
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	return u.baseURL + "/" + key, nil
}

// ObjectKey validates the upload and returns the object key it will be
// stored under.
func ObjectKey(userID, contentType string, size int) (string, error) {
	if size > MaxUploadSize {
		return "", ErrTooLarge
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return "uploads/" + userID + "/" + idgen.Generate(idgen.PrefixUpload) + ext, nil
}
