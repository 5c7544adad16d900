package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultSessionKey is the object key used when none is given.
const DefaultSessionKey = "pagekit/session.json"

// SessionBackend keeps the session snapshot in one object.
type SessionBackend struct {
	client Client
	bucket string
	key    string
}

// NewSessionBackend returns a backend storing the snapshot at bucket/key.
func NewSessionBackend(client Client, bucket, key string) *SessionBackend {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionBackend{client: client, bucket: bucket, key: key}
}

// Load returns the stored snapshot, or nil when the object does not exist yet.
func (b *SessionBackend) Load(ctx context.Context) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		err = classifyS3Error(err, "get")
		if errors.Is(err, ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read session snapshot: %w", err)
	}
	return data, nil
}

// Save replaces the stored snapshot.
func (b *SessionBackend) Save(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(b.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	return classifyS3Error(err, "put")
}

// Ping checks the bucket is reachable.
func (b *SessionBackend) Ping(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3aws.HeadBucketInput{Bucket: aws.String(b.bucket)})
	return classifyS3Error(err, "head bucket")
}
