package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"campuslink_server/models"
	"campuslink_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// BuddyService pairs two independent requests that share a criteria
// string. A submission either claims an existing searching request (both
// sides become matched) or is stored as searching for later polling.
type BuddyService struct {
	Dynamo DynamoAPI
}

// SubmitRequest tries to pair the caller with an existing searching
// request for the same criteria. The claim is a conditional update on the
// candidate's status, so two simultaneous submissions can never both take
// the same candidate; the loser just moves on to the next one.
func (bs *BuddyService) SubmitRequest(ctx context.Context, userID, criteria string) (*models.BuddyMatchResult, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}
	criteria = strings.TrimSpace(criteria)
	if criteria == "" {
		return nil, fmt.Errorf("%w: criteria is required", models.ErrValidation)
	}

	now := time.Now()
	candidates, err := bs.findSearchingRequests(ctx, criteria)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if candidate.UserID == userID || candidate.Expired(now) {
			continue
		}
		claimed, err := bs.claimRequest(ctx, candidate.RequestID, userID, now)
		if errors.Is(err, ErrConditionFailed) {
			log.Printf("⚠️ Request %s already claimed, trying next candidate", candidate.RequestID)
			continue
		}
		if err != nil {
			return nil, err
		}

		// The caller's own record is created already matched so both
		// sides of the pair resolve to each other.
		own := models.BuddyRequest{
			RequestID:   uuid.New().String(),
			UserID:      userID,
			Criteria:    criteria,
			Status:      models.BuddyStatusMatched,
			MatchedWith: claimed.UserID,
			CreatedAt:   now.Format(time.RFC3339),
			MatchedAt:   now.Format(time.RFC3339),
			ExpiresAt:   now.Add(models.BuddyRequestTTL).Unix(),
		}
		if err := bs.Dynamo.PutItem(ctx, models.BuddyRequestsTable, own); err != nil {
			return nil, err
		}

		log.Printf("🎉 Buddy match: %s ↔ %s (%s)", userID, claimed.UserID, criteria)
		return &models.BuddyMatchResult{
			Status:    models.BuddyStatusMatched,
			RequestID: own.RequestID,
			Match:     bs.partnerProfile(ctx, claimed.UserID, criteria),
		}, nil
	}

	// No claimable counterpart; store a fresh searching request for the
	// client to poll against.
	request := models.BuddyRequest{
		RequestID: uuid.New().String(),
		UserID:    userID,
		Criteria:  criteria,
		Status:    models.BuddyStatusSearching,
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(models.BuddyRequestTTL).Unix(),
	}
	if err := bs.Dynamo.PutItem(ctx, models.BuddyRequestsTable, request); err != nil {
		return nil, err
	}

	return &models.BuddyMatchResult{
		Status:    models.BuddyStatusSearching,
		RequestID: request.RequestID,
	}, nil
}

// PollStatus is a pure read of the request's current status. Clients call
// it on a fixed interval until matched or they navigate away.
func (bs *BuddyService) PollStatus(ctx context.Context, userID, requestID string) (*models.BuddyMatchResult, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	item, err := bs.Dynamo.GetItem(ctx, models.BuddyRequestsTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, requestID)
	}
	if err != nil {
		return nil, err
	}

	var request models.BuddyRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buddy request: %w", err)
	}
	if request.UserID != userID {
		return nil, fmt.Errorf("%w: request %s belongs to another user", models.ErrForbidden, requestID)
	}

	if !request.IsMatched() {
		return &models.BuddyMatchResult{Status: models.BuddyStatusSearching, RequestID: requestID}, nil
	}
	return &models.BuddyMatchResult{
		Status:    models.BuddyStatusMatched,
		RequestID: requestID,
		Match:     bs.partnerProfile(ctx, request.MatchedWith, request.Criteria),
	}, nil
}

func (bs *BuddyService) findSearchingRequests(ctx context.Context, criteria string) ([]models.BuddyRequest, error) {
	keyCondition := "criteria = :criteria AND #status = :searching"
	expressionValues := map[string]types.AttributeValue{
		":criteria":  &types.AttributeValueMemberS{Value: criteria},
		":searching": &types.AttributeValueMemberS{Value: models.BuddyStatusSearching},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}

	items, err := bs.Dynamo.QueryItemsWithIndex(ctx, models.BuddyRequestsTable, models.BuddyCriteriaIndex, keyCondition, expressionValues, expressionNames, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to look up searching requests: %w", err)
	}

	var requests []models.BuddyRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buddy requests: %w", err)
	}
	return requests, nil
}

// claimRequest flips the candidate searching -> matched, conditional on it
// still being searching. Returns the claimed request as stored.
func (bs *BuddyService) claimRequest(ctx context.Context, requestID, partnerID string, now time.Time) (*models.BuddyRequest, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	updateExpression := "SET #status = :matched, matchedWith = :partner, matchedAt = :now"
	conditionExpression := "#status = :searching"
	expressionValues := map[string]types.AttributeValue{
		":matched":   &types.AttributeValueMemberS{Value: models.BuddyStatusMatched},
		":searching": &types.AttributeValueMemberS{Value: models.BuddyStatusSearching},
		":partner":   &types.AttributeValueMemberS{Value: partnerID},
		":now":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}

	attrs, err := bs.Dynamo.UpdateItemWithCondition(ctx, models.BuddyRequestsTable, updateExpression, conditionExpression, key, expressionValues, expressionNames)
	if err != nil {
		return nil, err
	}

	var claimed models.BuddyRequest
	if err := attributevalue.UnmarshalMap(attrs, &claimed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claimed request: %w", err)
	}
	return &claimed, nil
}

// partnerProfile resolves the matched user's public fields. A missing
// profile degrades to the bare id rather than failing the match.
func (bs *BuddyService) partnerProfile(ctx context.Context, partnerID, criteria string) *models.BuddyPartner {
	partner := &models.BuddyPartner{ID: partnerID, Criteria: criteria}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: partnerID},
	}
	item, err := bs.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		log.Printf("⚠️ No profile found for matched user %s: %v", partnerID, err)
		return partner
	}
	partner.Name = utils.ExtractString(item, "name")
	return partner
}
