package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mymai1208/AntiBot/internal/domain"
)

// objectAPI is the subset of *s3.Client the document store uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// DocumentStore keeps the registry document as a single JSON object in S3.
type DocumentStore struct {
	client objectAPI
	bucket string
	key    string
}

func NewDocumentStore(client objectAPI, bucket, key string) *DocumentStore {
	return &DocumentStore{client: client, bucket: bucket, key: key}
}

// Load fetches the document, writing an empty one when the object does not exist.
func (s *DocumentStore) Load(ctx context.Context) (*domain.RegistryDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if !errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3 get object: %w", err)
		}
		doc := &domain.RegistryDocument{Servers: []domain.CommunityConfig{}}
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		slog.Info("created empty registry document", "bucket", s.bucket, "key", s.key)
		return doc, nil
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object: %w", err)
	}
	var doc domain.RegistryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return &doc, nil
}

// Save overwrites the object with the full document.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.RegistryDocument) error {
	out := *doc
	if out.Servers == nil {
		out.Servers = []domain.CommunityConfig{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}
