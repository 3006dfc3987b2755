// Package s3 implements the durable asset store on an S3-compatible bucket
// (AWS S3 or MinIO). Generated audio and lyric text are written under fresh
// random keys; the permanent URL points at the object and the download URL is
// a presigned GET forcing an attachment disposition.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/musemind/musemind-server/internal/core/ports"
)

const downloadURLTTL = 7 * 24 * time.Hour

// Config captures the bucket location and credentials.
type Config struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Store implements ports.AssetStore.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	cfg     Config
}

// New builds the S3 client with static credentials and an optional custom
// endpoint (MinIO).
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
	}, nil
}

// StoreAudio writes the generated audio bytes and returns its URLs.
func (s *Store) StoreAudio(ctx context.Context, data []byte, filename string) (*ports.StoredAsset, error) {
	key := randomKey("tracks", ".mp3")
	return s.put(ctx, key, bytes.NewReader(data), "audio/mpeg", filename)
}

// StoreText writes lyric text and returns its URLs.
func (s *Store) StoreText(ctx context.Context, text, filename string) (*ports.StoredAsset, error) {
	key := randomKey("lyrics", ".txt")
	return s.put(ctx, key, strings.NewReader(text), "text/plain; charset=utf-8", filename)
}

func (s *Store) put(ctx context.Context, key string, body io.Reader, contentType, filename string) (*ports.StoredAsset, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	download, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.cfg.Bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	}, s3.WithPresignExpires(downloadURLTTL))
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}

	return &ports.StoredAsset{
		URL:         s.objectURL(key),
		DownloadURL: download.URL,
	}, nil
}

func (s *Store) objectURL(key string) string {
	if s.cfg.BaseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.BaseEndpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// randomKey builds a date-partitioned object key with a fresh uuid.
func randomKey(prefix, ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", prefix, d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}
