package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"fiesta/fiesta/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// KnowledgeStore keeps the knowledge-base documents (menus, contracts,
// compliance docs) in a MinIO bucket, one prefix per user.
type KnowledgeStore struct {
	client *minio.Client
	bucket string
}

type Document struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}

func NewKnowledgeStore(cfg config.Config) (*KnowledgeStore, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &KnowledgeStore{client: client, bucket: cfg.MinIOBucket}, nil
}

func userPrefix(userID int) string {
	return fmt.Sprintf("knowledge/%d", userID)
}

func (s *KnowledgeStore) Upload(ctx context.Context, userID int, name, contentType string, r io.Reader, size int64) (string, error) {
	key := path.Join(userPrefix(userID), name)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *KnowledgeStore) Get(ctx context.Context, userID int, name string) (io.ReadCloser, error) {
	key := path.Join(userPrefix(userID), name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *KnowledgeStore) List(ctx context.Context, userID int) ([]Document, error) {
	prefix := userPrefix(userID) + "/"
	var docs []Document
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		docs = append(docs, Document{
			Key:          obj.Key,
			Name:         path.Base(obj.Key),
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	return docs, nil
}

func (s *KnowledgeStore) Delete(ctx context.Context, userID int, name string) error {
	key := path.Join(userPrefix(userID), name)
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
