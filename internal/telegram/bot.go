package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"go-smartapply-bot/internal/bot"
)

// Bot adapts the Telegram Bot API to the orchestrator's Transport interface
// and feeds inbound updates into it.
type Bot struct {
	api    *tgbotapi.BotAPI
	token  string
	logger *zap.Logger
}

var _ bot.Transport = (*Bot)(nil)

func NewBot(token string, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &Bot{
		api:    api,
		token:  token,
		logger: logger,
	}, nil
}

// SetCommands registers the command menu shown in the chat client.
func (b *Bot) SetCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start a new session"},
		tgbotapi.BotCommand{Command: "upload_new_cv", Description: "Upload your CV for analysis"},
		tgbotapi.BotCommand{Command: "suggest_new_job_titles", Description: "Get AI-powered job title suggestions"},
		tgbotapi.BotCommand{Command: "search_for_jobs", Description: "Search for jobs based on your CV"},
		tgbotapi.BotCommand{Command: "update_location", Description: "Update your preferred job location"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help information"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Run consumes updates until the context is cancelled. Each message is
// dispatched on its own goroutine; per-chat ordering is the orchestrator's job.
func (b *Bot) Run(ctx context.Context, handle func(ctx context.Context, chatID int64, ev bot.Event)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("🤖 telegram bot polling for messages", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil {
				continue
			}
			ev := eventFrom(msg)
			if ev == nil {
				continue
			}
			go handle(ctx, msg.Chat.ID, ev)
		}
	}
}

// eventFrom maps a raw Telegram message onto the orchestrator's event union.
func eventFrom(msg *tgbotapi.Message) bot.Event {
	switch {
	case msg.Document != nil:
		return bot.DocumentUpload{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
		}
	case msg.IsCommand():
		from := ""
		if msg.From != nil {
			from = msg.From.FirstName
		}
		return bot.Command{
			Name:     msg.Command(),
			Arg:      msg.CommandArguments(),
			FromName: from,
		}
	case msg.Text != "":
		return bot.Text{Body: msg.Text}
	}
	return nil
}

func (b *Bot) Send(chatID int64, m bot.OutMessage) error {
	msg := tgbotapi.NewMessage(chatID, m.Text)
	msg.ParseMode = m.ParseMode
	msg.DisableWebPagePreview = m.DisablePreview

	if len(m.Keyboard) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Keyboard))
		for _, labels := range m.Keyboard {
			row := make([]tgbotapi.KeyboardButton, 0, len(labels))
			for _, label := range labels {
				row = append(row, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, row)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = m.OneTime
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	}

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) FileURL(fileID string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	return file.Link(b.token), nil
}

func (b *Bot) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write destination file: %w", err)
	}
	return nil
}

func (b *Bot) Typing(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("chat action failed", zap.Error(err))
	}
}
