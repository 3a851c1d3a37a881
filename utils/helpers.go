package utils

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// Initials derives up-to-two-letter initials from a display name,
// e.g. "Maya Patel" -> "MP".
func Initials(name string) string {
	fields := strings.Fields(name)
	initials := ""
	for _, f := range fields {
		initials += strings.ToUpper(f[:1])
		if len(initials) == 2 {
			break
		}
	}
	return initials
}
