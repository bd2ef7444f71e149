package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

// ObjectGetter is the part of *s3.Client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3NarrativeLoader reads narratives stored as objects. Source locations
// have the form s3://bucket/key.
type S3NarrativeLoader struct {
	client ObjectGetter

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3NarrativeLoaderWithClient creates a loader around an existing client.
func NewS3NarrativeLoaderWithClient(client ObjectGetter) *S3NarrativeLoader {
	return &S3NarrativeLoader{
		client: client,
		cache:  make(map[string][]byte),
	}
}

// NewS3NarrativeLoaderParams configures a loader with static credentials.
// Endpoint overrides the AWS endpoint for S3-compatible stores like MinIO.
type NewS3NarrativeLoaderParams struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3NarrativeLoader creates a loader with its own path-style client.
//
// Example:
//
//	l, err := s3.NewS3NarrativeLoader(ctx, s3.NewS3NarrativeLoaderParams{
//		Endpoint:  "http://localhost:9000",
//		Region:    "us-east-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//		SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	src := loader.NewURLSource("maria", "s3://narratives/maria.txt", l)
func NewS3NarrativeLoader(ctx context.Context, params NewS3NarrativeLoaderParams) (*S3NarrativeLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return NewS3NarrativeLoaderWithClient(client), nil
}

// ParseLocation splits s3://bucket/key into bucket and key.
func ParseLocation(location string) (bucket string, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 location: %q", location)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 location needs bucket and key: %q", location)
	}
	return u.Host, key, nil
}

// GetText downloads the object named by the source location. Results are cached.
func (l *S3NarrativeLoader) GetText(ctx context.Context, src loader.Source) ([]byte, error) {
	bucket, key, err := ParseLocation(src.Location)
	if err != nil {
		return nil, err
	}
	cacheKey := loader.CacheKey(src)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", src.Location, err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		byts := buf.Bytes()
		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
