package source

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by the S3 source.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads page files stored under a bucket prefix.
//
// Example usage:
//
//	client := source.NewS3Client(source.S3ClientOptions{Region: "eu-west-1"})
//	src := source.NewS3(client, "my-site", "pages/")
//	keys, err := src.List(ctx)
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 creates a source over bucket/prefix.
func NewS3(client S3API, bucket, prefix string) *S3 {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{
		client: client,
		bucket: bucket,
		prefix: strings.TrimPrefix(prefix, "/"),
	}
}

// List pages through ListObjectsV2 and returns every object key below the
// prefix. Folder placeholder objects are skipped.
func (s *S3) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			rel := strings.TrimPrefix(key, s.prefix)
			if rel == "" {
				continue
			}
			keys = append(keys, Key(rel))
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// Open downloads the object stored under key.
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + relPath(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s%s: %w", s.bucket, s.prefix, relPath(key), err)
	}
	return out.Body, nil
}

func (s *S3) String() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewS3Client builds an S3 client from explicit options. Requests are
// anonymous when no access key is given.
func NewS3Client(opts S3ClientOptions) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.PathStyle,
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			SessionToken:    opts.SessionToken,
			Source:          "pageroute",
		}
		o.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	} else {
		o.Credentials = aws.AnonymousCredentials{}
	}
	return s3.New(o)
}
