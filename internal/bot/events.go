package bot

import (
	"context"

	"go-smartapply-bot/internal/models"
)

// Event is one inbound unit of user interaction.
type Event interface{ isEvent() }

// Command is a slash command, e.g. /start.
type Command struct {
	Name string
	Arg  string
	// FromName is the sender's first name as reported by the chat platform.
	FromName string
}

// Text is a free-text message that is not a command.
type Text struct {
	Body string
}

// DocumentUpload is a file attached to a message.
type DocumentUpload struct {
	FileID   string
	FileName string
	MimeType string
}

func (Command) isEvent() {}

func (Text) isEvent() {}

func (DocumentUpload) isEvent() {}

// OutMessage is one outbound chat message with its rendering options.
type OutMessage struct {
	Text string
	// ParseMode is empty for plain text, or "Markdown"/"MarkdownV2".
	ParseMode      string
	DisablePreview bool
	// Keyboard rows of quick-reply button labels; nil for no keyboard.
	Keyboard [][]string
	OneTime  bool
}

// Transport is the narrow view of the chat platform the orchestrator needs.
type Transport interface {
	Send(chatID int64, msg OutMessage) error
	// FileURL resolves an uploaded file id to a downloadable URL.
	FileURL(fileID string) (string, error)
	Download(ctx context.Context, url, dest string) error
	// Typing shows a "typing..." indicator; best effort.
	Typing(chatID int64)
}

// DocumentParser converts a raw file buffer plus declared MIME type into text.
type DocumentParser interface {
	Parse(data []byte, mimeType string) (string, error)
}

// JobSearcher runs one job search query. Empty results and failures look the
// same to the orchestrator.
type JobSearcher interface {
	Search(ctx context.Context, q models.JobSearchQuery) []models.JobListing
}
