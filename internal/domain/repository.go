package domain

import "context"

// SessionRepository stores conversation sessions
type SessionRepository interface {
	// Get returns ErrSessionNotFound for unknown or expired ids
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// ConversationRequest is everything the engine needs for one reply
type ConversationRequest struct {
	SystemPrompt string
	History      []Exchange
	Message      string
}

// ConversationEngine produces the advisor reply for a user message
type ConversationEngine interface {
	Reply(ctx context.Context, req ConversationRequest) (string, error)
}

// ProfileAnalyzer extracts profile facts from a free-text user message
type ProfileAnalyzer interface {
	AnalyzeProfile(ctx context.Context, message string) (map[string]string, error)
}

// SpeechSynthesizer converts reply text to audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
