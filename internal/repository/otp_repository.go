package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

// OTPRepository persists one-time codes in DynamoDB, keyed by email with a
// native TTL so expired entries disappear on their own. A PutItem overwrites
// any prior entry for the same email, which gives last-write-wins semantics
// under concurrent requests.
type OTPRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewOTPRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *OTPRepository {
	return &OTPRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type otpItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Email     string `dynamodbav:"email"`
	CodeHash  string `dynamodbav:"code_hash"`
	CreatedAt int64  `dynamodbav:"created_at"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
	TTL       int64  `dynamodbav:"TTL"`
}

func otpKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("OTP#%s", email)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

func (r *OTPRepository) Put(ctx context.Context, entry *models.OTPEntry) error {
	item, err := attributevalue.MarshalMap(otpItem{
		PK:        fmt.Sprintf("OTP#%s", entry.Email),
		SK:        "METADATA",
		Email:     entry.Email,
		CodeHash:  entry.CodeHash,
		CreatedAt: entry.CreatedAt.UnixNano(),
		ExpiresAt: entry.ExpiresAt.UnixNano(),
		TTL:       entry.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal OTP entry: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to store OTP entry")
		return fmt.Errorf("failed to store OTP entry: %w", err)
	}

	return nil
}

func (r *OTPRepository) Get(ctx context.Context, email string) (*models.OTPEntry, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       otpKey(email),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get OTP entry")
		return nil, fmt.Errorf("failed to get OTP entry: %w", err)
	}

	if result.Item == nil {
		return nil, models.ErrNotFound
	}

	var item otpItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		r.logger.WithError(err).Error("Failed to unmarshal OTP entry")
		return nil, fmt.Errorf("failed to unmarshal OTP entry: %w", err)
	}

	return &models.OTPEntry{
		Email:     item.Email,
		CodeHash:  item.CodeHash,
		CreatedAt: time.Unix(0, item.CreatedAt),
		ExpiresAt: time.Unix(0, item.ExpiresAt),
	}, nil
}

func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       otpKey(email),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete OTP entry")
		return fmt.Errorf("failed to delete OTP entry: %w", err)
	}

	return nil
}
