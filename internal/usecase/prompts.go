package usecase

import (
	"strings"

	"github.com/skiconcierge/backend/internal/domain"
)

// FallbackReply is shown in place of the advisor reply when the engine fails
const FallbackReply = "I'd be happy to help you find the perfect skis! Could you tell me more about your skiing experience, preferred terrain, and budget?"

const advisorPrompt = `You are an expert ski consultant with 20+ years of experience fitting skis to skiers.
Provide helpful advice in a friendly, conversational tone. Ask follow-up questions when you need
more information about the skier.

When recommending skis, use this format, one ski per line:
SKI: [Brand Model] - [Description with key features]

Always recommend 2-3 specific ski models maximum.
Keep responses under 120 words but be informative.`

// ProfileAnalysisPrompt asks the engine for a JSON object of profile facts
const ProfileAnalysisPrompt = `You are an expert ski concierge. Analyze the user's message and extract key information about their skiing needs.

Extract the following keys:
- skill_level: beginner, intermediate, advanced, or expert
- terrain_preference: all-mountain, powder, carving, park, backcountry
- budget_range: any mentioned price range
- physical_stats: height, weight if mentioned
- skiing_frequency: how often they ski
- current_skis: what they currently use
- specific_needs: any particular requirements or concerns
- questions_to_ask: what additional information would be helpful

Return only a JSON object with these keys. If information isn't provided, use "unknown".`

var conversationStarters = []string{
	"I'm a beginner looking for my first skis",
	"I ski powder in Colorado 20+ days a year",
	"I need carving skis under $600",
	"What's the difference between all-mountain and powder skis?",
	"I'm intermediate and want to progress to advanced terrain",
	"I ski mostly groomed runs on the East Coast",
}

// ConversationStarters returns example opening messages
func ConversationStarters() []string {
	return append([]string(nil), conversationStarters...)
}

// BuildSystemPrompt appends the accumulated profile to the advisor persona
func BuildSystemPrompt(profile domain.UserProfile) string {
	summary := ProfileSummary(profile)
	if summary == "" {
		return advisorPrompt
	}

	var b strings.Builder
	b.WriteString(advisorPrompt)
	b.WriteString("\n\nSkier profile so far:\n")
	b.WriteString(summary)
	return b.String()
}
