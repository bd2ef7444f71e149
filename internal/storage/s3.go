package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const analysisPrefix = "analyses"

// AnalysisKey is the object key of an exported analysis document.
func AnalysisKey(uuid string) string {
	return fmt.Sprintf("%s/%s.json", analysisPrefix, uuid)
}

// NewS3Client returns nil when AWS_BUCKET is unset, which disables exports.
func NewS3Client(ctx context.Context) *s3.Client {
	if util.GetEnv("AWS_BUCKET") == "" {
		return nil
	}
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client
}

// AnalysisExporter copies finished analyses to S3 and hands out presigned
// download links for them.
type AnalysisExporter struct {
	client         *s3.Client
	bucket         string
	publicEndpoint string
	expires        time.Duration
}

// NewAnalysisExporter returns nil when client is nil.
func NewAnalysisExporter(client *s3.Client, bucket string, publicEndpoint string) *AnalysisExporter {
	if client == nil {
		return nil
	}
	return &AnalysisExporter{
		client:         client,
		bucket:         bucket,
		publicEndpoint: publicEndpoint,
		expires:        15 * time.Minute,
	}
}

// NewAnalysisExporterFromEnv reads AWS_BUCKET and AWS_PUBLIC_ENDPOINT.
func NewAnalysisExporterFromEnv(ctx context.Context) *AnalysisExporter {
	return NewAnalysisExporter(
		NewS3Client(ctx),
		util.GetEnv("AWS_BUCKET"),
		util.GetEnv("AWS_PUBLIC_ENDPOINT"),
	)
}

// PutAnalysis uploads data under AnalysisKey(uuid) and returns the key.
func (e *AnalysisExporter) PutAnalysis(ctx context.Context, uuid string, data []byte) (string, error) {
	key := AnalysisKey(uuid)
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload analysis to S3: %w", err)
	}

	return key, nil
}

// GetAnalysis downloads a previously exported analysis document.
func (e *AnalysisExporter) GetAnalysis(ctx context.Context, uuid string) ([]byte, error) {
	result, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(AnalysisKey(uuid)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis from S3: %w", err)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}

// GenerateDownloadLink presigns a GET for the exported analysis against the
// public endpoint, so the signature matches the Host the client will send.
func (e *AnalysisExporter) GenerateDownloadLink(ctx context.Context, uuid string) (string, error) {
	publicURL, err := url.Parse(e.publicEndpoint)
	if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
		return "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", e.publicEndpoint)
	}
	prefix := strings.TrimSuffix(publicURL.Path, "/")
	publicBaseEndpoint := fmt.Sprintf("%s://%s", publicURL.Scheme, publicURL.Host)

	presignClientS3 := s3.NewFromConfig(
		aws.Config{
			Region:      e.client.Options().Region,
			Credentials: e.client.Options().Credentials,
			HTTPClient:  e.client.Options().HTTPClient,
		},
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(publicBaseEndpoint)
			o.UsePathStyle = true
		},
	)

	presigner := s3.NewPresignClient(presignClientS3)

	out, err := presigner.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(e.bucket),
			Key:    aws.String(AnalysisKey(uuid)),
		},
		s3.WithPresignExpires(e.expires),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	if prefix != "" {
		signedURL, parseErr := url.Parse(out.URL)
		if parseErr != nil {
			return "", fmt.Errorf("failed to parse presigned url: %w", parseErr)
		}
		signedURL.Path = prefix + signedURL.Path
		return signedURL.String(), nil
	}

	return out.URL, nil
}
