package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/amirphl/reachbee/config"
)

// StoredObject describes an uploaded object
type StoredObject struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// ImageStore persists image bytes and returns a public location
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*StoredObject, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore implements ImageStore over AWS S3
type S3ImageStore struct {
	client  s3API
	bucket  string
	baseURL string
}

// NewS3ImageStore creates a new S3 image store
func NewS3ImageStore(ctx context.Context, cfg *config.StorageConfig) (*S3ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newS3ImageStore(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.PublicBaseURL), nil
}

func newS3ImageStore(client s3API, bucket, baseURL string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put uploads the object and returns its public URL
func (u *S3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (obj *StoredObject, err error) {
	defer func() { observeUpstream("s3", err) }()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),

		// Saved images are immutable
		CacheControl: aws.String("max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return &StoredObject{
		Key:  key,
		URL:  u.baseURL + "/" + key,
		Size: int64(len(data)),
	}, nil
}

// MockImageStore implements ImageStore in memory
type MockImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

// NewMockImageStore creates a new in-memory image store
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{Objects: make(map[string][]byte)}
}

// Put stores the bytes under key
func (m *MockImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (*StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	m.Objects[key] = data
	return &StoredObject{Key: key, URL: "memory://" + key, Size: int64(len(data))}, nil
}
