package domain

import "time"

// Exchange is one completed turn of a conversation
type Exchange struct {
	UserMessage     string           `json:"user"`
	AdvisorReply    string           `json:"assistant"`
	Recommendations []Recommendation `json:"recommendations"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Session owns the profile and history of a single conversation.
// History is append-only and unbounded for the lifetime of the session.
type Session struct {
	ID        string      `json:"id"`
	Profile   UserProfile `json:"profile"`
	History   []Exchange  `json:"history"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewSession creates an empty session
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Profile:   UserProfile{},
		History:   []Exchange{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records a completed exchange
func (s *Session) Append(exchange Exchange) {
	s.History = append(s.History, exchange)
	s.UpdatedAt = exchange.CreatedAt
}

// Reset clears profile and history; there is no partial reset
func (s *Session) Reset(now time.Time) {
	s.Profile = UserProfile{}
	s.History = []Exchange{}
	s.UpdatedAt = now
}
