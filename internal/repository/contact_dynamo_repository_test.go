package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type fakeDynamo struct {
	items      map[string]map[string]types.AttributeValue
	lastPut    *dynamodb.PutItemInput
	scanInputs []*dynamodb.ScanInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemID(key map[string]types.AttributeValue) string {
	if s, ok := key["id"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	id := itemID(in.Item)
	if _, ok := f.items[id]; ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanInputs = append(f.scanInputs, in)
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	id := itemID(in.Key)
	item, ok := f.items[id]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	item["read"] = in.ExpressionAttributeValues[":read"]
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	id := itemID(in.Key)
	if _, ok := f.items[id]; !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestContactDynamoCreateIsConditional(t *testing.T) {
	ddb := newFakeDynamo()
	repo := NewContactDynamoRepository(ddb, "")

	msg := &models.ContactMessage{ID: "m1", Name: "Ana", Email: "ana@example.com", Subject: "Hi", Body: "Hello"}
	require.NoError(t, repo.Create(context.Background(), msg))
	assert.Equal(t, DefaultContactTable, *ddb.lastPut.TableName)
	assert.Equal(t, "attribute_not_exists(#id)", *ddb.lastPut.ConditionExpression)

	var stored models.ContactMessage
	require.NoError(t, attributevalue.UnmarshalMap(ddb.items["m1"], &stored))
	assert.Equal(t, "ana@example.com", stored.Email)

	err := repo.Create(context.Background(), &models.ContactMessage{ID: "m1"})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
}

func TestContactDynamoListNewestFirst(t *testing.T) {
	ddb := newFakeDynamo()
	repo := NewContactDynamoRepository(ddb, "inbox")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}[id]
		require.NoError(t, repo.Create(context.Background(), &models.ContactMessage{ID: id, Subject: string(rune('a' + i)), CreatedAt: base.Add(offset)}))
	}

	messages, err := repo.List(context.Background(), models.ContactFilter{UnreadOnly: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "new", messages[0].ID)
	assert.Equal(t, "mid", messages[1].ID)
	assert.Equal(t, "#read = :unread", *ddb.scanInputs[0].FilterExpression)
}

func TestContactDynamoMarkReadAndDeleteMissing(t *testing.T) {
	ddb := newFakeDynamo()
	repo := NewContactDynamoRepository(ddb, "inbox")
	require.NoError(t, repo.Create(context.Background(), &models.ContactMessage{ID: "m1"}))

	require.NoError(t, repo.MarkRead(context.Background(), "m1"))
	var stored models.ContactMessage
	require.NoError(t, attributevalue.UnmarshalMap(ddb.items["m1"], &stored))
	assert.True(t, stored.Read)

	assert.Equal(t, sql.ErrNoRows, repo.MarkRead(context.Background(), "missing"))
	assert.Equal(t, sql.ErrNoRows, repo.Delete(context.Background(), "missing"))
	require.NoError(t, repo.Delete(context.Background(), "m1"))
}
