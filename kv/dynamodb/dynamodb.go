// Package dynamodb provides a key/value service on a single DynamoDB table.
//
// Each store key is one item: the key in a string partition key attribute and
// the value in a string attribute. Reads are strongly consistent so a write is
// visible to the next read. Items are limited to 400 KB, which bounds the size
// of a stored collection.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrInvalidConfig is returned for unusable table settings.
var ErrInvalidConfig = errors.New("eventease: invalid dynamodb config")

// API is the subset of the DynamoDB client used by KV.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// TableAPI is the subset of the DynamoDB client used by EnsureTable.
type TableAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Config holds table settings.
type Config struct {
	// Table is the DynamoDB table name.
	Table string

	// KeyAttr is the string partition key attribute. Default: "pk".
	KeyAttr string

	// ValueAttr is the attribute holding the stored value. Default: "value".
	ValueAttr string

	// Region overrides the region from the shared AWS configuration.
	Region string

	// Endpoint overrides the service endpoint, e.g. DynamoDB Local.
	Endpoint string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Table:     "eventease_kv",
		KeyAttr:   "pk",
		ValueAttr: "value",
	}
}

func (c *Config) validate() error {
	if c.Table == "" {
		return fmt.Errorf("%w: table is required", ErrInvalidConfig)
	}
	if c.KeyAttr == "" {
		c.KeyAttr = "pk"
	}
	if c.ValueAttr == "" {
		c.ValueAttr = "value"
	}
	if c.KeyAttr == c.ValueAttr {
		return fmt.Errorf("%w: key and value attributes must differ", ErrInvalidConfig)
	}
	return nil
}

// KV implements store.KV on a DynamoDB table.
type KV struct {
	client API
	config Config
}

// New creates a KV over client.
func New(client API, config Config) (*KV, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: nil client", ErrInvalidConfig)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &KV{client: client, config: config}, nil
}

// OpenFromEnv builds a client from the default AWS configuration chain
// (environment, shared config, instance role).
func OpenFromEnv(ctx context.Context, config Config) (*KV, *dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})
	kv, err := New(client, config)
	if err != nil {
		return nil, nil, err
	}
	return kv, client, nil
}

// Config returns the effective configuration.
func (k *KV) Config() Config {
	return k.config
}

func (k *KV) keyOf(key string) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.Marshal(key)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{k.config.KeyAttr: av}, nil
}

// Get returns the value stored under key. A missing item, or an item without
// the value attribute, is absent.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	pk, err := k.keyOf(key)
	if err != nil {
		return "", false, fmt.Errorf("dynamodb marshal key %q: %w", key, err)
	}

	result, err := k.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(k.config.Table),
		Key:            pk,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb get %q: %w", key, err)
	}
	if result.Item == nil {
		return "", false, nil
	}
	raw, ok := result.Item[k.config.ValueAttr]
	if !ok {
		return "", false, nil
	}

	var value string
	if err := attributevalue.Unmarshal(raw, &value); err != nil {
		return "", false, fmt.Errorf("dynamodb decode %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the item for key.
func (k *KV) Set(ctx context.Context, key, value string) error {
	item, err := k.keyOf(key)
	if err != nil {
		return fmt.Errorf("dynamodb marshal key %q: %w", key, err)
	}
	av, err := attributevalue.Marshal(value)
	if err != nil {
		return fmt.Errorf("dynamodb marshal value %q: %w", key, err)
	}
	item[k.config.ValueAttr] = av

	if _, err := k.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(k.config.Table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb put %q: %w", key, err)
	}
	return nil
}

// EnsureTable creates the table described by config if it does not exist and
// waits for it to become active.
func EnsureTable(ctx context.Context, client TableAPI, config Config, timeout time.Duration) error {
	if err := config.validate(); err != nil {
		return err
	}

	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(config.Table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(config.KeyAttr), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(config.KeyAttr), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return fmt.Errorf("create table %s: %w", config.Table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(config.Table),
	}, timeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", config.Table, err)
	}
	return nil
}
