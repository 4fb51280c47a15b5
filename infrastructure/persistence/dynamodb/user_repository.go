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

// UserRepository implements ports.UserRepository on the users table, keyed
// by userId.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	pageSize  int32
	logger    *zap.Logger
}

// NewUserRepository creates a user repository. A non-positive pageSize falls
// back to the default.
func NewUserRepository(client *dynamodb.Client, tableName string, pageSize int, logger *zap.Logger) ports.UserRepository {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	return &UserRepository{
		client:    client,
		tableName: tableName,
		pageSize:  int32(pageSize),
		logger:    logger,
	}
}

// Create writes a user with a condition that the key is not taken yet.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
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
				fmt.Sprintf("user %s already exists", user.UserID)).WithCause(err)
		}
		return fmt.Errorf("putting user: %w", err)
	}

	return nil
}

// Get fetches a user, returning (nil, nil) when absent.
func (r *UserRepository) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       userKey(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshaling user: %w", err)
	}
	return &user, nil
}

// Update sets the given non-key attributes and returns the new full record.
// The user must already exist.
func (r *UserRepository) Update(ctx context.Context, userID string, attrs map[string]interface{}) (*domain.User, error) {
	for _, key := range domain.UserKeyAttributes {
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
		Key:                       userKey(userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, apperrors.NewNotFoundError("User", userID).WithCause(err)
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &user); err != nil {
		return nil, fmt.Errorf("unmarshaling updated user: %w", err)
	}
	return &user, nil
}

// List scans the users table page by page, applying the filter client-side
// and accumulating up to one page of survivors.
func (r *UserRepository) List(ctx context.Context, startUserID string, filter *domain.Filter) ([]domain.User, string, error) {
	fetch := func(ctx context.Context, startKey map[string]types.AttributeValue) (*page, error) {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			Limit:             aws.Int32(r.pageSize),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning users: %w", err)
		}
		return &page{Items: out.Items, LastEvaluatedKey: out.LastEvaluatedKey}, nil
	}

	opts := collectOptions{
		MaxItems: int(r.pageSize),
		Filter:   filter,
	}
	if startUserID != "" {
		opts.StartKey = userKey(startUserID)
	}

	rawItems, lastKey, err := collectPages(ctx, fetch, opts)
	if err != nil {
		return nil, "", err
	}

	users := make([]domain.User, 0, len(rawItems))
	for _, raw := range rawItems {
		var user domain.User
		if err := attributevalue.UnmarshalMap(raw, &user); err != nil {
			return nil, "", fmt.Errorf("unmarshaling user: %w", err)
		}
		users = append(users, user)
	}

	return users, stringKeyValue(lastKey, "userId"), nil
}

// Delete fetches first to confirm existence; absence is NotFound and the
// delete call is skipped.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	existing, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFoundError("User", userID)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       userKey(userID),
	})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	r.logger.Debug("deleted user", zap.String("userId", userID))
	return nil
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}
