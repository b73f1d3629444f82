package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user/index.go", "./user/index.go"},
		{"./user/index.go", "./user/index.go"},
		{"/user/index.go", "./user/index.go"},
		{`user\children\a\index.go`, "./user/children/a/index.go"},
		{"index.go", "./index.go"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFSListAndOpen(t *testing.T) {
	fsys := fstest.MapFS{
		"index.go":                      {Data: []byte("package pages")},
		"user/index.go":                 {Data: []byte("package user")},
		"user/children/detail/index.go": {Data: []byte("package detail")},
		"user/views/card.go":            {Data: []byte("package views")},
	}
	src := NewFS(fsys, "mem")

	keys, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{
		"./index.go",
		"./user/children/detail/index.go",
		"./user/index.go",
		"./user/views/card.go",
	}
	if len(keys) != len(want) {
		t.Fatalf("List() = %q, want %q", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	rc, err := src.Open(context.Background(), "./user/index.go")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "package user" {
		t.Errorf("Open() content = %q", data)
	}

	if _, err := src.Open(context.Background(), "./missing/index.go"); err == nil {
		t.Error("Open(missing) should fail")
	}
	if src.String() != "dir:mem" {
		t.Errorf("String() = %q", src.String())
	}
}

func TestFSListCanceled(t *testing.T) {
	src := NewFS(fstest.MapFS{"a/index.go": {}}, "mem")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List(canceled) err = %v, want context.Canceled", err)
	}
}

// fakeS3 serves ListObjectsV2 in pages of pageSize keys.
type fakeS3 struct {
	objects  map[string]string
	order    []string
	pageSize int
	listed   []string // prefixes requested
	fetched  []string // keys requested
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listed = append(f.listed, aws.ToString(in.Prefix))

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range f.order {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + f.pageSize
	if end > len(f.order) {
		end = len(f.order)
	}

	out := &s3.ListObjectsV2Output{}
	for _, k := range f.order[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(f.order) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(f.order[end])
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.fetched = append(f.fetched, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(body))}, nil
}

func TestS3ListPaginates(t *testing.T) {
	fake := &fakeS3{
		order: []string{
			"pages/",
			"pages/user/index.go",
			"pages/index.go",
			"pages/role/index.go",
		},
		pageSize: 2,
	}
	src := NewS3(fake, "site", "pages")

	keys, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"./index.go", "./role/index.go", "./user/index.go"}
	if len(keys) != len(want) {
		t.Fatalf("List() = %q, want %q", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if len(fake.listed) != 2 {
		t.Errorf("ListObjectsV2 calls = %d, want 2", len(fake.listed))
	}
	if fake.listed[0] != "pages/" {
		t.Errorf("prefix = %q, want pages/", fake.listed[0])
	}
}

func TestS3Open(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"pages/user/index.go": "package user"}}
	src := NewS3(fake, "site", "pages/")

	rc, err := src.Open(context.Background(), "./user/index.go")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "package user" {
		t.Errorf("content = %q", data)
	}
	if fake.fetched[0] != "pages/user/index.go" {
		t.Errorf("fetched key = %q", fake.fetched[0])
	}

	if _, err := src.Open(context.Background(), "./nope/index.go"); err == nil {
		t.Error("Open(missing) should fail")
	}
	if src.String() != "s3://site/pages/" {
		t.Errorf("String() = %q", src.String())
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3ClientOptions{
		Region:      "eu-west-1",
		Endpoint:    "http://localhost:9000",
		PathStyle:   true,
		AccessKeyID: "AKID",
	})
	opts := client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q", opts.Region)
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %q", aws.ToString(opts.BaseEndpoint))
	}
	if !opts.UsePathStyle {
		t.Error("UsePathStyle = false, want true")
	}
	if opts.Credentials == nil {
		t.Error("Credentials not set")
	}
}
