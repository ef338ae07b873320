package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skiconcierge/backend/internal/domain"
	"go.uber.org/zap"
)

// AudioMimeType is the content type of synthesized replies
const AudioMimeType = "audio/mpeg"

// ConciergeServiceConfig holds configuration for the concierge service
type ConciergeServiceConfig struct {
	// AnalyzeProfile runs the profile analyzer on every user message
	AnalyzeProfile bool
	// FallbackToCatalog uses the catalog matcher when a reply names no skis
	FallbackToCatalog bool
	// Now overrides the clock in tests
	Now func() time.Time
}

// TurnRequest is one user turn
type TurnRequest struct {
	Message string
	// Profile holds fields the user selected explicitly; they win over analysis
	Profile map[string]string
	Speak   bool
}

// TurnResult is what the UI renders for a turn
type TurnResult struct {
	SessionID       string
	Reply           string
	Recommendations []domain.Recommendation
	Profile         domain.UserProfile
	Audio           []byte
	AudioMimeType   string
	// Fallback is set when the engine failed and FallbackReply was substituted
	Fallback bool
}

// ConciergeService runs conversation turns against a session store
type ConciergeService struct {
	sessions          domain.SessionRepository
	engine            domain.ConversationEngine
	analyzer          domain.ProfileAnalyzer
	speech            domain.SpeechSynthesizer
	matcher           *MatchingService
	analyzeProfile    bool
	fallbackToCatalog bool
	now               func() time.Time
	locks             *sessionLocks
}

// NewConciergeService creates a concierge service with dependencies.
// analyzer and speech may be nil to disable those steps.
func NewConciergeService(
	sessions domain.SessionRepository,
	engine domain.ConversationEngine,
	analyzer domain.ProfileAnalyzer,
	speech domain.SpeechSynthesizer,
	matcher *MatchingService,
	config ConciergeServiceConfig,
) *ConciergeService {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &ConciergeService{
		sessions:          sessions,
		engine:            engine,
		analyzer:          analyzer,
		speech:            speech,
		matcher:           matcher,
		analyzeProfile:    config.AnalyzeProfile && analyzer != nil,
		fallbackToCatalog: config.FallbackToCatalog && matcher != nil,
		now:               now,
		locks:             newSessionLocks(),
	}
}

// CreateSession starts an empty conversation
func (s *ConciergeService) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(uuid.NewString(), s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	zap.L().Info("session created", zap.String("session_id", session.ID))
	return session, nil
}

// GetSession returns the profile and history of a conversation
func (s *ConciergeService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.sessions.Get(ctx, id)
}

// UpdateProfile merges explicitly selected profile fields
func (s *ConciergeService) UpdateProfile(ctx context.Context, id string, fields map[string]string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	release := s.locks.acquire(id)
	defer release()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Profile = session.Profile.Clone()
	session.Profile.Merge(fields)
	session.UpdatedAt = s.now()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ResetSession clears profile and history
func (s *ConciergeService) ResetSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	release := s.locks.acquire(id)
	defer release()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Reset(s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	zap.L().Info("session reset", zap.String("session_id", id))
	return session, nil
}

// DeleteSession ends a conversation
func (s *ConciergeService) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}

	release := s.locks.acquire(id)
	defer release()

	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

// ProcessTurn runs one conversation turn.
// Flow: merge profile -> engine reply -> extract -> catalog fallback -> links -> history.
// An engine failure is not returned as an error: the fallback reply is
// returned with no recommendations and the session is left untouched.
func (s *ConciergeService) ProcessTurn(ctx context.Context, id string, req TurnRequest) (*TurnResult, error) {
	message := strings.TrimSpace(req.Message)
	if id == "" || message == "" {
		return nil, domain.ErrInvalidRequest
	}

	release := s.locks.acquire(id)
	defer release()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := session.Profile.Clone()
	if s.analyzeProfile {
		s.mergeAnalysis(ctx, id, message, profile)
	}
	profile.Merge(req.Profile)

	reply, err := s.engine.Reply(ctx, domain.ConversationRequest{
		SystemPrompt: BuildSystemPrompt(profile),
		History:      session.History,
		Message:      message,
	})
	if err != nil {
		zap.L().Warn("conversation engine failed, using fallback reply",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return &TurnResult{
			SessionID:       id,
			Reply:           FallbackReply,
			Recommendations: []domain.Recommendation{},
			Profile:         session.Profile.Clone(),
			Fallback:        true,
		}, nil
	}

	recommendations := ExtractRecommendations(reply)
	source := "reply"
	if len(recommendations) == 0 && s.fallbackToCatalog && profile.CanMatch() {
		recommendations = s.matcher.Match(profile.SkillLevel(), profile.TerrainPreference())
		source = "catalog"
	}
	recommendations = WithRetailerLinks(recommendations)

	session.Profile = profile
	session.Append(domain.Exchange{
		UserMessage:     message,
		AdvisorReply:    reply,
		Recommendations: recommendations,
		CreatedAt:       s.now(),
	})

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}

	zap.L().Info("turn processed",
		zap.String("session_id", id),
		zap.Int("history", len(session.History)),
		zap.Int("recommendations", len(recommendations)),
		zap.String("source", source),
	)

	result := &TurnResult{
		SessionID:       id,
		Reply:           reply,
		Recommendations: recommendations,
		Profile:         profile.Clone(),
	}

	if req.Speak {
		result.Audio = s.synthesize(ctx, id, reply)
		if len(result.Audio) > 0 {
			result.AudioMimeType = AudioMimeType
		}
	}

	return result, nil
}

// ExtractWithLinks runs the extractor over advisor text and attaches links
func (s *ConciergeService) ExtractWithLinks(text string) []domain.Recommendation {
	return WithRetailerLinks(ExtractRecommendations(text))
}

// RecommendFromCatalog runs the catalog matcher and attaches links
func (s *ConciergeService) RecommendFromCatalog(skillLevel, terrainPreference string) []domain.Recommendation {
	if s.matcher == nil {
		return []domain.Recommendation{}
	}
	return WithRetailerLinks(s.matcher.Match(skillLevel, terrainPreference))
}

// mergeAnalysis folds analyzer facts into profile; failures are logged only
func (s *ConciergeService) mergeAnalysis(ctx context.Context, id, message string, profile domain.UserProfile) {
	facts, err := s.analyzer.AnalyzeProfile(ctx, message)
	if err != nil {
		zap.L().Warn("profile analysis failed",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return
	}
	profile.Merge(NormalizeAnalysis(facts))
}

// synthesize returns reply audio, or nil when speech is off, the text is too
// short, or synthesis fails
func (s *ConciergeService) synthesize(ctx context.Context, id, reply string) []byte {
	if s.speech == nil {
		return nil
	}

	text := CleanTextForSpeech(reply)
	if text == "" {
		return nil
	}

	audio, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		zap.L().Warn("speech synthesis failed",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return nil
	}
	return audio
}
