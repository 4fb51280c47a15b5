package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"tasklist-backend/application/ports"
	"tasklist-backend/domain"
	"tasklist-backend/pkg/common"
	apperrors "tasklist-backend/pkg/errors"
)

// TaskRepository implements ports.TaskRepository on the task-items table,
// keyed by (userId, itemId).
type TaskRepository struct {
	client    *dynamodb.Client
	tableName string
	pageSize  int32
	logger    *zap.Logger
}

// NewTaskRepository creates a task repository. A non-positive pageSize falls
// back to the default.
func NewTaskRepository(client *dynamodb.Client, tableName string, pageSize int, logger *zap.Logger) ports.TaskRepository {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	return &TaskRepository{
		client:    client,
		tableName: tableName,
		pageSize:  int32(pageSize),
		logger:    logger,
	}
}

// Create writes a task with a condition that no item with the same key
// exists yet. A collision surfaces as a Conflict error, never a silent
// overwrite.
func (r *TaskRepository) Create(ctx context.Context, task *domain.TaskItem) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return fmt.Errorf("marshaling task item: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("userId"))).
		Build()
	if err != nil {
		return fmt.Errorf("building create condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return apperrors.NewConflictError(
				fmt.Sprintf("task item %s already exists", task.ItemID)).WithCause(err)
		}
		return fmt.Errorf("putting task item: %w", err)
	}

	return nil
}

// Get fetches a task by its composite key, returning (nil, nil) when absent.
func (r *TaskRepository) Get(ctx context.Context, userID, itemID string) (*domain.TaskItem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       taskKey(userID, itemID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting task item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var task domain.TaskItem
	if err := attributevalue.UnmarshalMap(out.Item, &task); err != nil {
		return nil, fmt.Errorf("unmarshaling task item: %w", err)
	}
	return &task, nil
}

// Update sets the given non-key attributes in place and returns the new full
// record. The item must already exist; updating an absent key is a NotFound
// error rather than a partial-record creation.
func (r *TaskRepository) Update(ctx context.Context, userID, itemID string, attrs map[string]interface{}) (*domain.TaskItem, error) {
	for _, key := range domain.TaskItemKeyAttributes {
		delete(attrs, key)
	}
	if len(attrs) == 0 {
		return nil, apperrors.NewValidationError("no updatable attributes supplied")
	}

	update := expression.UpdateBuilder{}
	for name, value := range attrs {
		update = update.Set(expression.Name(name), expression.Value(value))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("userId"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       taskKey(userID, itemID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, apperrors.NewNotFoundError("Task Item", itemID).WithCause(err)
		}
		return nil, fmt.Errorf("updating task item: %w", err)
	}

	var task domain.TaskItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &task); err != nil {
		return nil, fmt.Errorf("unmarshaling updated task item: %w", err)
	}
	return &task, nil
}

// List returns one page of the user's tasks. The query is always scoped to
// the caller's partition; the optional filter is applied client-side as
// pages arrive.
func (r *TaskRepository) List(ctx context.Context, userID, startItemID string, filter *domain.Filter) ([]domain.TaskItem, string, error) {
	keyCond := expression.Key("userId").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, "", fmt.Errorf("building list key condition: %w", err)
	}

	fetch := func(ctx context.Context, startKey map[string]types.AttributeValue) (*page, error) {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     aws.Int32(r.pageSize),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("querying task items: %w", err)
		}
		return &page{Items: out.Items, LastEvaluatedKey: out.LastEvaluatedKey}, nil
	}

	opts := collectOptions{
		MaxItems: int(r.pageSize),
		Filter:   filter,
	}
	if startItemID != "" {
		opts.StartKey = taskKey(userID, startItemID)
	}

	rawItems, lastKey, err := collectPages(ctx, fetch, opts)
	if err != nil {
		return nil, "", err
	}

	tasks := make([]domain.TaskItem, 0, len(rawItems))
	for _, raw := range rawItems {
		var task domain.TaskItem
		if err := attributevalue.UnmarshalMap(raw, &task); err != nil {
			return nil, "", fmt.Errorf("unmarshaling task item: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, stringKeyValue(lastKey, "itemId"), nil
}

// Delete fetches first to confirm existence. When the item is absent it
// reports NotFound without issuing the delete call.
func (r *TaskRepository) Delete(ctx context.Context, userID, itemID string) error {
	existing, err := r.Get(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFoundError("Task Item", itemID)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       taskKey(userID, itemID),
	})
	if err != nil {
		return fmt.Errorf("deleting task item: %w", err)
	}

	r.logger.Debug("deleted task item",
		zap.String("userId", userID),
		zap.String("itemId", itemID),
	)
	return nil
}

func taskKey(userID, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"itemId": &types.AttributeValueMemberS{Value: itemID},
	}
}
