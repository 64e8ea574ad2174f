package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

// DefaultContactTable is used when no table name is configured.
const DefaultContactTable = "contact_messages"

type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ContactDynamoRepository stores contact messages in a DynamoDB table keyed by id.
type ContactDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

// NewContactDynamoRepository creates a repository over the given table.
func NewContactDynamoRepository(ddb dynamoAPI, tableName string) *ContactDynamoRepository {
	if tableName == "" {
		tableName = DefaultContactTable
	}
	return &ContactDynamoRepository{ddb: ddb, tableName: tableName}
}

// Create writes a message, refusing to overwrite an existing id.
func (r *ContactDynamoRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = nowUTC()
	}

	item, err := attributevalue.MarshalMap(msg)
	if err != nil {
		return fmt.Errorf("marshal contact message: %w", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("create contact message: %w", appErrors.ErrDuplicate)
		}
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// List scans the table and returns messages newest first.
func (r *ContactDynamoRepository) List(ctx context.Context, filter models.ContactFilter) ([]models.ContactMessage, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if filter.UnreadOnly {
		input.FilterExpression = aws.String("#read = :unread")
		input.ExpressionAttributeNames = map[string]string{"#read": "read"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":unread": &types.AttributeValueMemberBOOL{Value: false},
		}
	}

	messages := []models.ContactMessage{}
	for {
		out, err := r.ddb.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan contact messages: %w", err)
		}
		var page []models.ContactMessage
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal contact messages: %w", err)
		}
		messages = append(messages, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})

	limit, _ := pageWindow(1, filter.Limit)
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// MarkRead flags a message as read; a missing id yields sql.ErrNoRows.
func (r *ContactDynamoRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      contactKey(id),
		UpdateExpression:         aws.String("SET #read = :read"),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id", "#read": "read"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("mark contact message read: %w", err)
	}
	return nil
}

// Delete removes a message; a missing id yields sql.ErrNoRows.
func (r *ContactDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      contactKey(id),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		if isConditionFailed(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}

func contactKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
