package models

// UserProfile defines the structure for student profiles
type UserProfile struct {
	UserID    string `dynamodbav:"userId,omitempty" json:"userId"`
	Name      string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	EmailID   string `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	Campus    string `dynamodbav:"campus,omitempty" json:"campus,omitempty"`
	AvatarKey string `dynamodbav:"avatarKey,omitempty" json:"avatarKey,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// EmailIndex is the GSI used to look up profiles by email
const EmailIndex = "emailId-index"
