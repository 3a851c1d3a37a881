package models

import "time"

// ✅ Buddy request statuses
const (
	BuddyStatusSearching = "searching"
	BuddyStatusMatched   = "matched"
)

// BuddyRequestTTL bounds how long an abandoned request stays claimable.
// Records carry expiresAt for the table's TTL attribute and candidate
// lookups skip anything already past it.
const BuddyRequestTTL = 15 * time.Minute

type BuddyRequest struct {
	RequestID   string `dynamodbav:"requestId" json:"requestId"`
	UserID      string `dynamodbav:"userId" json:"userId"`
	Criteria    string `dynamodbav:"criteria" json:"criteria"`
	Status      string `dynamodbav:"status" json:"status"`
	MatchedWith string `dynamodbav:"matchedWith,omitempty" json:"matchedWith,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
	MatchedAt   string `dynamodbav:"matchedAt,omitempty" json:"matchedAt,omitempty"`
	ExpiresAt   int64  `dynamodbav:"expiresAt" json:"expiresAt"`
}

// IsMatched reports whether the request has been paired. A request is
// matched exactly when matchedWith is set.
func (r BuddyRequest) IsMatched() bool {
	return r.MatchedWith != ""
}

// Expired reports whether the request is past its claimable window.
func (r BuddyRequest) Expired(now time.Time) bool {
	return r.ExpiresAt != 0 && r.ExpiresAt < now.Unix()
}

// BuddyPartner is the public slice of the matched user's profile.
type BuddyPartner struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Criteria string `json:"criteria,omitempty"`
}

// BuddyMatchResult is the response body for submit and poll calls.
type BuddyMatchResult struct {
	Status    string        `json:"status"`
	RequestID string        `json:"requestId,omitempty"`
	Match     *BuddyPartner `json:"match,omitempty"`
}

// BuddyRequestsTable is the DynamoDB table name for buddy match requests
const BuddyRequestsTable = "BuddyRequests"

// BuddyCriteriaIndex is the GSI used to look up searching requests by criteria
const BuddyCriteriaIndex = "criteria-status-index"
