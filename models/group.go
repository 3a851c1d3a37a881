package models

// StudyGroup is a locally-created study group. Groups live in the
// snapshot store, not in DynamoDB.
type StudyGroup struct {
	GroupID     string `json:"groupId"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Schedule    string `json:"schedule"`
	MemberCount int    `json:"memberCount"`
	CreatedBy   string `json:"createdBy,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type GroupMember struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

type GroupMessage struct {
	MessageID string `json:"messageId"`
	GroupID   string `json:"groupId"`
	SenderID  string `json:"senderId,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// GroupSnapshot bundles the three pieces of group state that are always
// read and written together. Readers must treat it as atomic.
type GroupSnapshot struct {
	Groups   []StudyGroup              `json:"groups"`
	Messages map[string][]GroupMessage `json:"messagesByGroup"`
	Members  map[string][]GroupMember  `json:"membersByGroup"`
}
