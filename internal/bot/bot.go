package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/phrasebot/internal/i18n"
	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/internal/session"
	"github.com/example/phrasebot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramAPI is the part of tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler turns a user message into a reply; implemented by session.Engine
type Handler interface {
	Handle(ctx context.Context, in session.Inbound) session.Reply
}

// Bot represents the Telegram bot application
type Bot struct {
	api     telegramAPI
	handler Handler
	config  *Config
	log     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New connects to the Telegram API with the given token
func New(token string, handler Handler, config *Config, log *logger.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is empty")
	}
	if config == nil {
		config = DefaultConfig()
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = config.Debug

	log.Info("authorized on account", "username", api.Self.UserName)
	return newBot(api, handler, config, log), nil
}

func newBot(api telegramAPI, handler Handler, config *Config, log *logger.Logger) *Bot {
	return &Bot{
		api:     api,
		handler: handler,
		config:  config,
		log:     log.With("component", "bot"),
	}
}

// Start launches the single update worker and returns
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done != nil {
		return errors.New("bot is already running")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.PollTimeout
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})

	go b.run(ctx, updates, b.done)

	b.log.Info("bot started", "poll_timeout", b.config.PollTimeout)
	return nil
}

// run handles updates one at a time, each to completion
func (b *Bot) run(ctx context.Context, updates tgbotapi.UpdatesChannel, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// A transition in progress is finished even if stop was requested meanwhile
			b.handleUpdate(context.WithoutCancel(ctx), update)
		}
	}
}

// Stop signals the worker and waits for it until ctx ends or StopTimeout passes.
// A worker still busy after that is abandoned.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()

	if done == nil {
		return nil
	}

	b.api.StopReceivingUpdates()
	cancel()

	if _, ok := ctx.Deadline(); !ok && b.config.StopTimeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, b.config.StopTimeout)
		defer stop()
	}

	select {
	case <-done:
		b.log.Info("bot stopped")
		return nil
	case <-ctx.Done():
		b.log.Warn("update worker did not stop in time, abandoning it")
		return fmt.Errorf("update worker still running: %w", ctx.Err())
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	text := message.Text
	if message.IsCommand() {
		text = "/" + message.Command()
	}
	name := message.From.UserName
	if name == "" {
		name = message.From.FirstName
	}

	reply := b.handler.Handle(ctx, session.Inbound{
		ChatID:   message.Chat.ID,
		UserID:   message.From.ID,
		UserName: name,
		Text:     text,
	})

	if err := b.send(message.Chat.ID, reply.Text, reply.Keyboard); err != nil {
		b.log.Error("failed to send reply", "chat_id", message.Chat.ID, "state", reply.State.String(), "error", err)
	}
}

// SendReminder tells a user how many words are due for review
func (b *Bot) SendReminder(ctx context.Context, chatID int64, lang models.Language, due int) error {
	labels := i18n.LabelsFor(lang)
	keyboard := [][]string{{labels.Next}, {labels.MainMenu}}
	if err := b.send(chatID, i18n.MessagesFor(lang).Reminder(due), keyboard); err != nil {
		return fmt.Errorf("failed to send reminder to %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) send(chatID int64, text string, keyboard [][]string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = createKeyboard(keyboard)
	}
	_, err := b.api.Send(msg)
	return err
}
