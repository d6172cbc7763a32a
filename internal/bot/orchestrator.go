package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-smartapply-bot/internal/ai"
	"go-smartapply-bot/internal/extractor"
	"go-smartapply-bot/internal/models"
	"go-smartapply-bot/internal/store"
)

const (
	promptCVMessage       = "📄 Please upload your CV (PDF or DOCX):"
	promptNameMessage     = "📝 Please enter your full name:"
	promptLocationMessage = `📍 Please enter your preferred job location (e.g., "New York, NY" or "Remote"):`
	startFirstMessage     = "Please start with /start first"
	unrecognizedMessage   = "I'm not sure what you mean. Please use the commands or buttons to interact with me."
)

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	Store     store.UserStore
	Parser    DocumentParser
	Suggester ai.TitleSuggester
	Searcher  JobSearcher
	Transport Transport
	Logger    *zap.Logger
	// TempDir receives downloaded CV files.
	TempDir string
}

// Orchestrator owns one conversation state machine per chat and decides which
// external call to make next for every inbound event.
type Orchestrator struct {
	store     store.UserStore
	parser    DocumentParser
	suggester ai.TitleSuggester
	searcher  JobSearcher
	transport Transport
	logger    *zap.Logger
	tempDir   string

	mu     sync.Mutex
	states map[int64]models.ConversationState
	locks  map[int64]*sync.Mutex
}

func New(d Deps) *Orchestrator {
	return &Orchestrator{
		store:     d.Store,
		parser:    d.Parser,
		suggester: d.Suggester,
		searcher:  d.Searcher,
		transport: d.Transport,
		logger:    d.Logger,
		tempDir:   d.TempDir,
		states:    make(map[int64]models.ConversationState),
		locks:     make(map[int64]*sync.Mutex),
	}
}

// HandleEvent processes one inbound event to completion. Events for the same
// chat are serialized; different chats proceed concurrently.
func (o *Orchestrator) HandleEvent(ctx context.Context, chatID int64, ev Event) {
	lock := o.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	log := o.logger.With(
		zap.Int64("chat_id", chatID),
		zap.String("event_id", uuid.NewString()),
	)

	before := o.state(chatID)

	switch e := ev.(type) {
	case Command:
		o.handleCommand(ctx, chatID, e, log)
	case Text:
		o.handleText(ctx, chatID, e, log)
	case DocumentUpload:
		o.handleDocument(ctx, chatID, e, log)
	}

	log.Debug("event handled",
		zap.String("state_before", string(before)),
		zap.String("state_after", string(o.state(chatID))),
	)
}

func (o *Orchestrator) handleCommand(ctx context.Context, chatID int64, cmd Command, log *zap.Logger) {
	log = log.With(zap.String("command", cmd.Name))

	switch cmd.Name {
	case "start":
		o.handleStart(chatID, cmd, log)
	case "upload_new_cv":
		o.handleUploadNewCV(chatID, log)
	case "suggest_new_job_titles":
		o.handleSuggestNewTitles(ctx, chatID, log)
	case "search_for_jobs":
		o.handleSearchForJobs(ctx, chatID, log)
	case "update_location":
		o.setState(chatID, models.StateAwaitingLocation)
		o.send(chatID, OutMessage{Text: promptLocationMessage}, log)
	case "help":
		o.send(chatID, OutMessage{Text: "Here's what you can do:\n\n" + commandList()}, log)
	default:
		log.Debug("unknown command ignored")
	}
}

func (o *Orchestrator) handleStart(chatID int64, cmd Command, log *zap.Logger) {
	name := strings.TrimSpace(cmd.FromName)

	o.store.Upsert(chatID, store.Partial{DisplayName: store.String(name)})
	o.setState(chatID, models.StateAwaitingCV)

	greeting := name
	if greeting == "" {
		greeting = "there"
	}
	o.send(chatID, OutMessage{Text: welcomeMessage(greeting)}, log)
}

func (o *Orchestrator) handleUploadNewCV(chatID int64, log *zap.Logger) {
	if _, ok := o.store.Get(chatID); !ok {
		o.setState(chatID, models.StateAwaitingName)
		o.send(chatID, OutMessage{Text: startFirstMessage}, log)
		return
	}

	o.setState(chatID, models.StateAwaitingCV)
	o.send(chatID, OutMessage{Text: promptCVMessage}, log)
}

func (o *Orchestrator) handleDocument(ctx context.Context, chatID int64, doc DocumentUpload, log *zap.Logger) {
	if !allowedDocument(doc) {
		o.send(chatID, OutMessage{Text: "❌ Please upload a PDF or DOCX file."}, log)
		return
	}

	o.transport.Typing(chatID)

	data, err := o.fetchDocument(ctx, chatID, doc)
	if err != nil {
		log.Error("fetching uploaded CV failed", zap.Error(err))
		o.send(chatID, OutMessage{Text: "❌ Error processing your CV. Please try again."}, log)
		o.setState(chatID, models.StateIdle)
		return
	}

	if !isPDF(doc) {
		// The extractor handles Word XML, but the upload flow only wires
		// the PDF path for now.
		o.send(chatID, OutMessage{Text: "❌ DOCX support is coming soon. Please upload a PDF file for now."}, log)
		return
	}

	cvText, err := o.parser.Parse(data, extractor.MimePDF)
	if err != nil {
		log.Error("CV text extraction failed", zap.Error(err))
		o.send(chatID, OutMessage{Text: "❌ Error processing your CV. Please try again."}, log)
		o.setState(chatID, models.StateIdle)
		return
	}

	user := o.store.Upsert(chatID, store.Partial{ResumeText: store.String(cvText)})

	if user.DisplayName == "" {
		o.setState(chatID, models.StateAwaitingName)
		o.send(chatID, OutMessage{Text: promptNameMessage}, log)
		return
	}

	o.analyzeAndSuggest(ctx, chatID, log)
}

// fetchDocument downloads the uploaded file into the temp dir and reads it.
func (o *Orchestrator) fetchDocument(ctx context.Context, chatID int64, doc DocumentUpload) ([]byte, error) {
	fileURL, err := o.transport.FileURL(doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file url: %w", err)
	}

	if err := os.MkdirAll(o.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	name := doc.FileName
	if name == "" {
		name = "cv"
	}
	dest := filepath.Join(o.tempDir, fmt.Sprintf("%d_%s", chatID, filepath.Base(name)))

	if err := o.transport.Download(ctx, fileURL, dest); err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("reading downloaded file: %w", err)
	}
	return data, nil
}

func (o *Orchestrator) handleText(ctx context.Context, chatID int64, txt Text, log *zap.Logger) {
	body := strings.TrimSpace(txt.Body)
	if body == "" {
		return
	}
	// Commands are routed to their own handlers; never intercept them here.
	if strings.HasPrefix(body, "/") {
		return
	}

	switch o.state(chatID) {
	case models.StateAwaitingName:
		user := o.store.Upsert(chatID, store.Partial{DisplayName: store.String(body)})
		if user.ResumeText != "" {
			o.analyzeAndSuggest(ctx, chatID, log)
			return
		}
		o.setState(chatID, models.StateAwaitingCV)
		o.send(chatID, OutMessage{Text: promptCVMessage}, log)

	case models.StateAwaitingConfirmation:
		o.handleConfirmation(ctx, chatID, body, log)

	case models.StateAwaitingLocation:
		user := o.store.Upsert(chatID, store.Partial{Location: store.String(body)})
		o.setState(chatID, models.StateIdle)
		o.send(chatID, OutMessage{
			Text: fmt.Sprintf("📍 Location updated to: %s\n\nUse /search_for_jobs to find jobs in this location.", user.Location),
		}, log)

	case models.StateAwaitingCV:
		log.Debug("free text ignored while awaiting CV")

	default:
		o.send(chatID, OutMessage{Text: unrecognizedMessage}, log)
	}
}

func (o *Orchestrator) handleConfirmation(ctx context.Context, chatID int64, body string, log *zap.Logger) {
	lower := strings.ToLower(body)

	switch {
	case strings.Contains(lower, "search") || body == searchJobsButton:
		o.fanOutSearch(ctx, chatID, log)

	case strings.Contains(lower, "analyze") || body == analyzeAgainButton:
		o.setState(chatID, models.StateAwaitingCV)
		o.send(chatID, OutMessage{Text: "Please upload your CV again."}, log)

	default:
		o.send(chatID, OutMessage{
			Text: fmt.Sprintf("Tap %s or %s to continue.", searchJobsButton, analyzeAgainButton),
		}, log)
	}
}

func (o *Orchestrator) handleSuggestNewTitles(ctx context.Context, chatID int64, log *zap.Logger) {
	user, ok := o.store.Get(chatID)
	if !ok || user.ResumeText == "" {
		o.send(chatID, OutMessage{Text: "Please upload a CV first using /upload_new_cv"}, log)
		return
	}

	o.send(chatID, OutMessage{Text: "🤖 Analyzing your CV for new job title suggestions..."}, log)

	titles, err := o.suggester.SuggestTitles(ctx, user.ResumeText)
	if err != nil {
		log.Error("title suggestion failed", zap.Error(err))
		o.send(chatID, OutMessage{Text: "❌ Error generating new job titles. Please try again."}, log)
		return
	}

	o.store.Upsert(chatID, store.Partial{SuggestedTitles: store.Strings(titles)})

	o.send(chatID, OutMessage{
		Text: fmt.Sprintf("💼 Here are your new job title suggestions:\n\n%s\n\nUse /search_for_jobs to find jobs with these titles.", numberedList(titles)),
	}, log)
}

func (o *Orchestrator) handleSearchForJobs(ctx context.Context, chatID int64, log *zap.Logger) {
	user, ok := o.store.Get(chatID)
	if !ok {
		o.setState(chatID, models.StateAwaitingName)
		o.send(chatID, OutMessage{Text: startFirstMessage}, log)
		return
	}

	if len(user.SuggestedTitles) == 0 {
		o.send(chatID, OutMessage{Text: "Please get job title suggestions first using /suggest_new_job_titles"}, log)
		return
	}

	o.fanOutSearch(ctx, chatID, log)
}

// analyzeAndSuggest runs the Title Suggester over the stored CV text and asks
// the user what to do next. Any failure resets the conversation to idle.
func (o *Orchestrator) analyzeAndSuggest(ctx context.Context, chatID int64, log *zap.Logger) {
	user, ok := o.store.Get(chatID)
	if !ok || user.ResumeText == "" {
		log.Error("analyze requested without CV text")
		o.send(chatID, OutMessage{Text: "❌ Error analyzing your CV. Please try again."}, log)
		o.setState(chatID, models.StateIdle)
		return
	}

	o.transport.Typing(chatID)

	titles, err := o.suggester.SuggestTitles(ctx, user.ResumeText)
	if err != nil {
		log.Error("CV analysis failed", zap.Error(err))
		o.send(chatID, OutMessage{Text: "❌ Error analyzing your CV. Please try again."}, log)
		o.setState(chatID, models.StateIdle)
		return
	}

	o.store.Upsert(chatID, store.Partial{SuggestedTitles: store.Strings(titles)})

	o.send(chatID, OutMessage{
		Text:     fmt.Sprintf("💼 Here are some job title suggestions based on your CV:\n\n%s\n\nWhat would you like to do next?", numberedList(titles)),
		Keyboard: [][]string{{searchJobsButton}, {analyzeAgainButton}},
		OneTime:  true,
	}, log)

	o.setState(chatID, models.StateAwaitingConfirmation)
}

// fanOutSearch queries the job API once per suggested title (first three) and
// reports each title's outcome independently. Always ends idle.
func (o *Orchestrator) fanOutSearch(ctx context.Context, chatID int64, log *zap.Logger) {
	user, ok := o.store.Get(chatID)
	if !ok || len(user.SuggestedTitles) == 0 {
		o.send(chatID, OutMessage{Text: "Please get job title suggestions first using /suggest_new_job_titles"}, log)
		return
	}

	defer o.setState(chatID, models.StateIdle)

	o.send(chatID, OutMessage{Text: "🔍 Searching for jobs..."}, log)

	titles := user.SuggestedTitles
	if len(titles) > maxSearchTitles {
		titles = titles[:maxSearchTitles]
	}

	for _, title := range titles {
		query := models.JobSearchQuery{
			Query:      title,
			NumPages:   1,
			DatePosted: models.PostedToday,
			JobType:    "FULLTIME",
		}
		if user.Location != models.WorldwideLocation {
			query.Location = user.Location
		}

		listings := o.searcher.Search(ctx, query)
		if len(listings) == 0 {
			o.send(chatID, OutMessage{
				Text:      fmt.Sprintf(`No jobs found for "%s" in %s. Try different search criteria.`, EscapeMarkdown(title), EscapeMarkdown(user.Location)),
				ParseMode: "Markdown",
			}, log)
			continue
		}

		err := o.transport.Send(chatID, OutMessage{
			Text:           formatJobsMessage(title, user.Location, listings),
			ParseMode:      "MarkdownV2",
			DisablePreview: true,
		})
		if err != nil {
			log.Error("sending job results failed", zap.String("title", title), zap.Error(err))
			o.send(chatID, OutMessage{
				Text: fmt.Sprintf("❌ Failed to search for jobs with title %q. Please try again later.", title),
			}, log)
		}
	}
}

func allowedDocument(doc DocumentUpload) bool {
	switch doc.MimeType {
	case extractor.MimePDF, extractor.MimeDocx, extractor.MimeDoc:
		return true
	}
	name := strings.ToLower(doc.FileName)
	return strings.HasSuffix(name, ".pdf") || strings.HasSuffix(name, ".docx")
}

func isPDF(doc DocumentUpload) bool {
	return doc.MimeType == extractor.MimePDF || strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf")
}

func (o *Orchestrator) state(chatID int64) models.ConversationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.states[chatID]; ok {
		return s
	}
	return models.StateIdle
}

func (o *Orchestrator) setState(chatID int64, s models.ConversationState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states[chatID] = s
}

func (o *Orchestrator) chatLock(chatID int64) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[chatID] = lock
	}
	return lock
}

// send delivers an outbound message, logging delivery failures.
func (o *Orchestrator) send(chatID int64, msg OutMessage, log *zap.Logger) {
	if err := o.transport.Send(chatID, msg); err != nil {
		log.Warn("sending message failed", zap.Error(err))
	}
}
