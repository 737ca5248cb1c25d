package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/phrasebot/internal/i18n"
	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/internal/session"
	"github.com/example/phrasebot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	updates  chan tgbotapi.Update
	stopOnce sync.Once

	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 10)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.stopOnce.Do(func() { close(f.updates) })
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

type fakeHandler struct {
	mu      sync.Mutex
	inbound []session.Inbound
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeHandler) Handle(ctx context.Context, in session.Inbound) session.Reply {
	f.mu.Lock()
	f.inbound = append(f.inbound, in)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return session.Reply{Text: "echo: " + in.Text, Keyboard: [][]string{{"a", "b"}, {"menu"}}, State: session.Idle}
}

func (f *fakeHandler) received() []session.Inbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]session.Inbound(nil), f.inbound...)
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "user"},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}}
}

func TestBotRepliesWithKeyboard(t *testing.T) {
	api := newFakeAPI()
	handler := &fakeHandler{}
	b := newBot(api, handler, DefaultConfig(), logger.Nop())

	require.NoError(t, b.Start(context.Background()))
	api.updates <- textUpdate(7, "hello")

	require.Eventually(t, func() bool { return len(api.messages()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, b.Stop(context.Background()))

	msg := api.messages()[0]
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, "echo: hello", msg.Text)

	markup, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.Keyboard, 2)
	assert.Equal(t, "a", markup.Keyboard[0][0].Text)
	assert.Equal(t, "menu", markup.Keyboard[1][0].Text)
	assert.True(t, markup.ResizeKeyboard)
}

func TestBotNormalizesCommands(t *testing.T) {
	api := newFakeAPI()
	handler := &fakeHandler{}
	b := newBot(api, handler, DefaultConfig(), logger.Nop())

	update := textUpdate(7, "/start@phrase_bot")
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 17}}

	b.handleUpdate(context.Background(), update)
	b.handleUpdate(context.Background(), tgbotapi.Update{})

	got := handler.received()
	require.Len(t, got, 1)
	assert.Equal(t, "/start", got[0].Text)
	assert.Equal(t, int64(7), got[0].UserID)
	assert.Equal(t, "user", got[0].UserName)
}

func TestBotProcessesUpdatesInOrder(t *testing.T) {
	api := newFakeAPI()
	handler := &fakeHandler{}
	b := newBot(api, handler, DefaultConfig(), logger.Nop())

	require.NoError(t, b.Start(context.Background()))
	for _, text := range []string{"1", "2", "3"} {
		api.updates <- textUpdate(7, text)
	}
	require.Eventually(t, func() bool { return len(api.messages()) == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, b.Stop(context.Background()))

	var texts []string
	for _, in := range handler.received() {
		texts = append(texts, in.Text)
	}
	assert.Equal(t, []string{"1", "2", "3"}, texts)
}

func TestBotStopIsBounded(t *testing.T) {
	api := newFakeAPI()
	handler := &fakeHandler{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	b := newBot(api, handler, DefaultConfig(), logger.Nop())

	require.NoError(t, b.Start(context.Background()))
	api.updates <- textUpdate(7, "slow")
	<-handler.entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := b.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(handler.block)
	assert.NoError(t, b.Stop(context.Background()))
}

func TestBotStartTwice(t *testing.T) {
	b := newBot(newFakeAPI(), &fakeHandler{}, DefaultConfig(), logger.Nop())

	require.NoError(t, b.Start(context.Background()))
	assert.Error(t, b.Start(context.Background()))
	assert.NoError(t, b.Stop(context.Background()))
}

func TestSendReminder(t *testing.T) {
	api := newFakeAPI()
	b := newBot(api, &fakeHandler{}, DefaultConfig(), logger.Nop())

	require.NoError(t, b.SendReminder(context.Background(), 9, models.LangEN, 4))

	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(9), msgs[0].ChatID)
	assert.Equal(t, i18n.MessagesFor(models.LangEN).Reminder(4), msgs[0].Text)
}

func TestNewRejectsEmptyToken(t *testing.T) {
	_, err := New("", &fakeHandler{}, nil, logger.Nop())
	assert.Error(t, err)
}
