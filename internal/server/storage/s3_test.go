package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() S3Options {
	return S3Options{
		User:         "minioadmin",
		Password:     "minioadmin",
		Bucket:       "kodex",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		Expiry:       10 * time.Minute,
	}
}

func stubClients(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestNewS3Presigner_AppliesOptions(t *testing.T) {
	stubClients(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	p, err := NewS3Presigner(context.Background(), testOptions())
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Presigner_LoadError(t *testing.T) {
	stubClients(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Presigner(context.Background(), testOptions())
	assert.EqualError(t, err, "load-fail")
}

func TestS3Presigner_PresignPut(t *testing.T) {
	stubClients(t)
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "kodex", aws.ToString(in.Bucket))
		assert.Equal(t, "qr/o/a.png", aws.ToString(in.Key))
		assert.Equal(t, ImageContentType, aws.ToString(in.ContentType))

		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 10*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://put"}, nil
	}

	p, err := NewS3Presigner(context.Background(), testOptions())
	require.NoError(t, err)

	url, err := p.PresignPut(context.Background(), "qr/o/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://put", url)
}

func TestS3Presigner_PresignErrors(t *testing.T) {
	stubClients(t)
	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put-fail")
	}
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get-fail")
	}

	p, err := NewS3Presigner(context.Background(), testOptions())
	require.NoError(t, err)

	_, err = p.PresignPut(context.Background(), "k")
	assert.ErrorContains(t, err, "put-fail")
	_, err = p.PresignGet(context.Background(), "k")
	assert.ErrorContains(t, err, "get-fail")
}

func TestNewImageKey(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	a := NewImageKey("owner-1")
	b := NewImageKey("owner-1")

	assert.Regexp(t, regexp.MustCompile(`^qr/owner-1/2025/03/09/[0-9a-f-]{36}\.png$`), a)
	assert.NotEqual(t, a, b)
}
