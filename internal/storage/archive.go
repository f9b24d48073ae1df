package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/pantry_api/internal/config"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// objectAPI is the subset of the S3 client the archive needs.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// CatalogArchive stores uploaded price lists in S3 so a background job can
// pick them up later.
type CatalogArchive struct {
	api    objectAPI
	bucket string
}

// NewCatalogArchive builds an archive from config. It returns
// utils.ErrArchiveDisabled when no bucket is configured.
func NewCatalogArchive(ctx context.Context, cfg *config.S3Config) (*CatalogArchive, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, utils.ErrArchiveDisabled
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// S3-compatible stores (MinIO, B2) want path-style URLs.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Msg("catalog archive enabled")
	return newCatalogArchive(client, cfg.Bucket), nil
}

func newCatalogArchive(api objectAPI, bucket string) *CatalogArchive {
	return &CatalogArchive{api: api, bucket: bucket}
}

// ObjectKey returns catalogs/<supplierID>/<uploadID>/<base name of filename>.
func ObjectKey(supplierID, uploadID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return path.Join("catalogs", supplierID, uploadID, name)
}

// Put uploads a price list and returns its object key. A nil archive
// reports utils.ErrArchiveDisabled.
func (a *CatalogArchive) Put(ctx context.Context, supplierID, filename string, body io.Reader, size int64) (string, error) {
	if a == nil {
		return "", utils.ErrArchiveDisabled
	}
	key := ObjectKey(supplierID, uuid.NewString(), filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType(filename)),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := a.api.PutObject(ctx, input); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to archive price list")
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Info().Str("key", key).Int64("size", size).Msg("price list archived")
	return key, nil
}

func contentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".tsv":
		return "text/tab-separated-values"
	case ".pdf":
		return "application/pdf"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
