package models

// WorldwideLocation is the sentinel meaning "no location filter". A profile
// with this location searches without a location restriction, but the value
// itself is still shown to the user.
const WorldwideLocation = "Worldwide"

// ConversationState is the step a user is currently at within the guided flow.
type ConversationState string

const (
	StateAwaitingName         ConversationState = "AWAITING_NAME"
	StateAwaitingCV           ConversationState = "AWAITING_CV"
	StateAwaitingConfirmation ConversationState = "AWAITING_CONFIRMATION"
	StateAwaitingLocation     ConversationState = "AWAITING_LOCATION"
	StateIdle                 ConversationState = "IDLE"
)

// UserProfile holds everything the bot knows about one chat participant.
// Owned by the user store; the orchestrator always reads and writes through it.
type UserProfile struct {
	ID              int64
	DisplayName     string
	ResumeText      string
	SuggestedTitles []string
	// PreferredTitles is reserved for future curation of the suggestions.
	// The current flow never mutates it.
	PreferredTitles []string
	Location        string
}
