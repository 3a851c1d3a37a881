package services

import (
	"context"
	"errors"
	"fmt"

	"campuslink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserProfileService struct {
	Dynamo DynamoAPI
}

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetUserProfileByEmail looks a profile up through the email GSI.
func (ups *UserProfileService) GetUserProfileByEmail(ctx context.Context, emailID string) (*models.UserProfile, error) {
	keyCondition := "emailId = :emailId"
	expressionValues := map[string]types.AttributeValue{
		":emailId": &types.AttributeValueMemberS{Value: emailID},
	}

	items, err := ups.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.EmailIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by email: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no profile for email %s", models.ErrNotFound, emailID)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpdateUserProfile updates an existing user profile
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","

		expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: v}
		expressionAttributeNames[attributeName] = k
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}

// DeleteUserProfile removes a user profile from DynamoDB
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}
