package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
)

// s3API is the subset of the S3 client the driver needs
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string `yaml:"endpoint"` // e.g. https://xxx.r2.cloudflarestorage.com
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	BasePath        string `yaml:"base_path"`        // prefix for all objects (e.g. "forms/")
	ForcePathStyle  bool   `yaml:"force_path_style"` // true for MinIO/R2
}

// S3Driver keeps files as objects of one bucket. Folders are zero-byte
// marker objects whose key ends with "/".
type S3Driver struct {
	client   s3API
	bucket   string
	basePath string
}

// NewS3Driver creates a driver for an S3/R2/MinIO compatible bucket
func NewS3Driver(cfg S3Config) *S3Driver {
	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	client := s3.New(s3.Options{}, opts)

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage driver initialized")

	return &S3Driver{
		client:   client,
		bucket:   cfg.Bucket,
		basePath: cfg.BasePath,
	}
}

func (d *S3Driver) key(identifier string) string {
	return d.basePath + strings.TrimPrefix(identifier, "/")
}

func (d *S3Driver) identifier(key string) string {
	return "/" + strings.TrimPrefix(key, d.basePath)
}

func (d *S3Driver) FolderExists(ctx context.Context, identifier string) (bool, error) {
	prefix := d.key(NormalizeFolder(identifier))
	if prefix == d.basePath {
		return true, nil
	}
	out, err := d.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("s3 list failed: %w", err)
	}
	return len(out.Contents) > 0, nil
}

func (d *S3Driver) CreateFolder(ctx context.Context, identifier string) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(NormalizeFolder(identifier))),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("s3 create folder failed: %w", err)
	}
	return nil
}

func (d *S3Driver) FileExists(ctx context.Context, identifier string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(identifier)),
	})
	if err == nil {
		return true, nil
	}
	if isS3NotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("s3 head failed: %w", err)
}

func (d *S3Driver) ReadFile(ctx context.Context, identifier string) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(identifier)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, identifier)
		}
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (d *S3Driver) WriteFile(ctx context.Context, identifier string, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key(identifier)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/yaml"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}

func (d *S3Driver) DeleteFile(ctx context.Context, identifier string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(identifier)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (d *S3Driver) ListFiles(ctx context.Context, folderIdentifier string, recursive bool) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(d.key(NormalizeFolder(folderIdentifier))),
	}
	if !recursive {
		input.Delimiter = aws.String("/")
	}

	var files []string
	for {
		out, err := d.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("s3 list failed: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, d.identifier(key))
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}
	return files, nil
}

func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
