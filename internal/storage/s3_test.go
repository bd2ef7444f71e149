package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineClient() *s3.Client {
	return s3.New(s3.Options{
		Region:       "eu-central-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		UsePathStyle: true,
	})
}

func TestAnalysisKey(t *testing.T) {
	assert.Equal(t, "analyses/1234.json", AnalysisKey("1234"))
}

func TestNewAnalysisExporter_NilClient(t *testing.T) {
	assert.Nil(t, NewAnalysisExporter(nil, "bucket", "https://files.example.org"))
}

func TestGenerateDownloadLink_UsesPublicEndpointAndPrefix(t *testing.T) {
	e := NewAnalysisExporter(offlineClient(), "contingency", "https://files.example.org/storage/")

	link, err := e.GenerateDownloadLink(context.Background(), "abc")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "files.example.org", u.Host)
	assert.Equal(t, "/storage/contingency/analyses/abc.json", u.Path)
	assert.True(t, strings.Contains(u.RawQuery, "X-Amz-Signature="))
}

func TestGenerateDownloadLink_InvalidEndpoint(t *testing.T) {
	e := NewAnalysisExporter(offlineClient(), "contingency", "not a url")

	_, err := e.GenerateDownloadLink(context.Background(), "abc")
	assert.Error(t, err)
}
