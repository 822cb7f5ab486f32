package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mymai1208/AntiBot/internal/domain"
)

const (
	documentKeyAttr = "document"
	registryDocName = "registry"
)

// itemAPI is the subset of *dynamodb.Client the document store uses.
type itemAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// registryItem is the registry document stored as one item.
// PK: document ("registry").
type registryItem struct {
	Document string                   `dynamodbav:"document"`
	Servers  []domain.CommunityConfig `dynamodbav:"servers"`
}

// DocumentStore keeps the registry document as a single DynamoDB item that is
// replaced on every save.
type DocumentStore struct {
	client    itemAPI
	tableName string
}

func NewDocumentStore(client itemAPI, tableName string) *DocumentStore {
	return &DocumentStore{client: client, tableName: tableName}
}

func (s *DocumentStore) Load(ctx context.Context) (*domain.RegistryDocument, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            strKey(documentKeyAttr, registryDocName),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get registry item: %w", err)
	}
	if out.Item == nil {
		doc := &domain.RegistryDocument{Servers: []domain.CommunityConfig{}}
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		slog.Info("created empty registry document", "table", s.tableName)
		return doc, nil
	}
	return fromItem(out.Item)
}

func (s *DocumentStore) Save(ctx context.Context, doc *domain.RegistryDocument) error {
	item, err := toItem(doc)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put registry item: %w", err)
	}
	return nil
}

func toItem(doc *domain.RegistryDocument) (map[string]types.AttributeValue, error) {
	servers := doc.Servers
	if servers == nil {
		servers = []domain.CommunityConfig{}
	}
	item, err := attributevalue.MarshalMap(registryItem{Document: registryDocName, Servers: servers})
	if err != nil {
		return nil, fmt.Errorf("marshal registry: %w", err)
	}
	return item, nil
}

func fromItem(item map[string]types.AttributeValue) (*domain.RegistryDocument, error) {
	var ri registryItem
	if err := attributevalue.UnmarshalMap(item, &ri); err != nil {
		return nil, fmt.Errorf("unmarshal registry: %w", err)
	}
	return &domain.RegistryDocument{Servers: ri.Servers}, nil
}
