package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/phrasebot/internal/cards"
	"github.com/example/phrasebot/internal/i18n"
	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/pkg/models"
)

// Profiles is the user profile store; implemented by database.UserRepository
type Profiles interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string, ui, target models.Language) (*models.User, bool, error)
	SetLesson(ctx context.Context, telegramID, lessonID int64) (*models.User, error)
	SetLanguage(ctx context.Context, telegramID int64, ui, target *models.Language) (*models.User, error)
	TouchActivity(ctx context.Context, telegramID int64) error
}

// Lessons reads lessons; implemented by database.LessonRepository
type Lessons interface {
	Lessons(ctx context.Context) ([]models.Lesson, error)
	PhrasesInLesson(ctx context.Context, lessonID int64) ([]models.Phrase, error)
}

// Progress writes learning progress; implemented by progress.Tracker
type Progress interface {
	AddPhrase(ctx context.Context, userID, phraseID int64) (*models.UserWord, error)
	AddPhrases(ctx context.Context, userID int64, phraseIDs []int64) (int, error)
	RecordAnswer(ctx context.Context, userID, phraseID int64, correct bool) (*models.UserWord, error)
	RemovePhrase(ctx context.Context, userID, phraseID int64) (bool, error)
}

// Cards builds cards; implemented by cards.Selector
type Cards interface {
	Next(ctx context.Context, user *models.User) (*cards.Card, error)
	PickNew(ctx context.Context, userID int64) (*models.Phrase, error)
}

// Stats reads the welcome screen numbers; implemented by database.StatisticsRepository
type Stats interface {
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

// Deps are the collaborators of the engine
type Deps struct {
	Profiles Profiles
	Lessons  Lessons
	Progress Progress
	Cards    Cards
	Stats    Stats
}

// Options tune the engine
type Options struct {
	// CardTTL is how long a pending card stays answerable; zero disables the check
	CardTTL               time.Duration
	DefaultUILanguage     models.Language
	DefaultTargetLanguage models.Language
}

// Inbound is a message received from a user
type Inbound struct {
	ChatID   int64
	UserID   int64
	UserName string
	Text     string
}

// Reply is what the bot sends back
type Reply struct {
	Text     string
	Keyboard [][]string
	State    State
}

// Engine drives the learning conversation of every user
type Engine struct {
	deps  Deps
	opts  Options
	store *Store
	log   *logger.Logger
	now   func() time.Time
}

// NewEngine creates an engine keeping sessions in store
func NewEngine(deps Deps, opts Options, store *Store, log *logger.Logger) *Engine {
	if !opts.DefaultUILanguage.Valid() {
		opts.DefaultUILanguage = models.LangRU
	}
	if !opts.DefaultTargetLanguage.IsTarget() {
		opts.DefaultTargetLanguage = models.LangEN
	}
	return &Engine{
		deps:  deps,
		opts:  opts,
		store: store,
		log:   log.With("component", "session"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one inbound message to completion and returns the reply
func (e *Engine) Handle(ctx context.Context, in Inbound) Reply {
	log := e.log.With("user_id", in.UserID, "chat_id", in.ChatID)

	// Every message runs the first-contact bootstrap, so a missing user is recreated
	user, created, err := e.deps.Profiles.GetOrCreate(ctx, in.UserID, in.UserName, e.opts.DefaultUILanguage, e.opts.DefaultTargetLanguage)
	if err != nil {
		log.Error("failed to load user", "error", err)
		return e.failure(e.opts.DefaultUILanguage, e.store.Get(in.UserID).State)
	}
	if created {
		log.Info("new user registered", "ui_language", user.UILanguage, "target_language", user.TargetLanguage)
	}
	if err := e.deps.Profiles.TouchActivity(ctx, in.UserID); err != nil {
		log.Warn("failed to update activity", "error", err)
	}

	sess := e.store.Get(in.UserID)
	text := strings.TrimSpace(in.Text)

	if isCommand(text, "start") || isCommand(text, "menu") {
		return e.mainMenu(ctx, user, sess, log)
	}

	if action := i18n.ActionOf(text); action != i18n.ActionNone {
		return e.handleAction(ctx, user, sess, action, log)
	}

	switch sess.State {
	case AwaitingLessonChoice:
		return e.chooseLesson(ctx, user, sess, text, log)
	case AwaitingTargetLanguageChoice:
		return e.chooseLanguage(ctx, user, sess, text, true, log)
	case AwaitingUILanguageChoice:
		return e.chooseLanguage(ctx, user, sess, text, false, log)
	case AwaitingAnswer:
		return e.answer(ctx, user, sess, text, log)
	default:
		return Reply{
			Text:     i18n.MessagesFor(user.UILanguage).MenuHint(),
			Keyboard: mainKeyboard(user.UILanguage),
			State:    sess.State,
		}
	}
}

func (e *Engine) handleAction(ctx context.Context, user *models.User, sess Session, action i18n.Action, log *logger.Logger) Reply {
	switch action {
	case i18n.ActionNext:
		return e.startCard(ctx, user, sess, "", log)
	case i18n.ActionAddWord:
		return e.addWord(ctx, user, sess, log)
	case i18n.ActionDeleteWord:
		return e.deleteWord(ctx, user, sess, log)
	case i18n.ActionSelectLesson:
		return e.promptLesson(ctx, user, sess, log)
	case i18n.ActionSelectTarget:
		return e.promptLanguage(user, sess, true)
	case i18n.ActionSelectUI:
		return e.promptLanguage(user, sess, false)
	default:
		return e.mainMenu(ctx, user, sess, log)
	}
}

// mainMenu discards the session and shows the welcome screen
func (e *Engine) mainMenu(ctx context.Context, user *models.User, sess Session, log *logger.Logger) Reply {
	e.store.Reset(user.TelegramID)

	stats, err := e.deps.Stats.UserStats(ctx, user.ID)
	if err != nil {
		// сессия уже сброшена, остаёмся в главном меню без статистики
		log.Error("failed to load stats", "error", err)
		return e.failure(user.UILanguage, Idle)
	}

	return Reply{
		Text:     i18n.MessagesFor(user.UILanguage).Welcome(*stats, user.TargetLanguage),
		Keyboard: mainKeyboard(user.UILanguage),
		State:    Idle,
	}
}

// startCard presents a fresh card, replacing any pending one
func (e *Engine) startCard(ctx context.Context, user *models.User, sess Session, notice string, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	card, err := e.deps.Cards.Next(ctx, user)
	if errors.Is(err, models.ErrEmptyPool) {
		sess.leave(Idle)
		e.save(user, sess)
		return Reply{Text: withNotice(notice, msgs.EmptyPool()), Keyboard: mainKeyboard(user.UILanguage), State: Idle}
	}
	if err != nil {
		log.Error("failed to build card", "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	sess.State = AwaitingAnswer
	sess.Card = card
	e.save(user, sess)

	log.Debug("card presented", "card_id", card.ID, "phrase_id", card.PhraseID, "options", len(card.Options))
	return Reply{
		Text:     withNotice(notice, msgs.CardPrompt(card.Translation)),
		Keyboard: cardKeyboard(user.UILanguage, card),
		State:    AwaitingAnswer,
	}
}

// answer resolves the pending card against the reply
func (e *Engine) answer(ctx context.Context, user *models.User, sess Session, text string, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)
	card := sess.Card

	if e.stale(card, user) {
		log.Info("rebuilding card", "reason", models.ErrStaleSession)
		return e.startCard(ctx, user, sess, msgs.SessionStale(), log)
	}

	correct := text == card.TargetWord
	if _, err := e.deps.Progress.RecordAnswer(ctx, user.ID, card.PhraseID, correct); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Error("failed to record answer", "card_id", card.ID, "error", err)
			return e.failure(user.UILanguage, sess.State)
		}
		// карточка из общего пула: прогресс не записываем
		log.Debug("answered phrase is not in vocabulary", "card_id", card.ID, "phrase_id", card.PhraseID, "in_vocabulary", card.InVocabulary)
	}

	sess.leave(Idle)
	sess.LastPhraseID = card.PhraseID
	sess.LastWord = card.TargetWord
	e.save(user, sess)

	log.Debug("card answered", "card_id", card.ID, "correct", correct)
	if correct {
		return Reply{
			Text:     msgs.Correct(card.TargetWord, card.Translation),
			Keyboard: feedbackKeyboard(user.UILanguage, true),
			State:    Idle,
		}
	}
	return Reply{
		Text:     msgs.Wrong(card.TargetWord, card.Translation),
		Keyboard: feedbackKeyboard(user.UILanguage, false),
		State:    Idle,
	}
}

func (e *Engine) stale(card *cards.Card, user *models.User) bool {
	if !card.Valid() || card.UserID != user.ID {
		return true
	}
	return e.opts.CardTTL > 0 && e.now().Sub(card.CreatedAt) > e.opts.CardTTL
}

// addWord puts a random new phrase into the vocabulary without touching the pending card
func (e *Engine) addWord(ctx context.Context, user *models.User, sess Session, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	phrase, err := e.deps.Cards.PickNew(ctx, user.ID)
	if errors.Is(err, models.ErrAllWordsAdded) {
		return Reply{Text: msgs.AllWordsAdded(), Keyboard: e.keyboardFor(ctx, user, sess), State: sess.State}
	}
	if err != nil {
		log.Error("failed to pick a new phrase", "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	if _, err := e.deps.Progress.AddPhrase(ctx, user.ID, phrase.ID); err != nil {
		log.Error("failed to add phrase", "phrase_id", phrase.ID, "error", err)
		return e.failure(user.UILanguage, sess.State)
	}
	e.save(user, sess)

	return Reply{
		Text:     msgs.WordAdded(phrase.Text(user.TargetLanguage), phrase.Text(user.UILanguage)),
		Keyboard: e.keyboardFor(ctx, user, sess),
		State:    sess.State,
	}
}

// deleteWord removes the phrase of the pending card, or of the card just answered
func (e *Engine) deleteWord(ctx context.Context, user *models.User, sess Session, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	phraseID, word := sess.LastPhraseID, sess.LastWord
	if sess.Card != nil {
		phraseID, word = sess.Card.PhraseID, sess.Card.TargetWord
	}
	if phraseID == 0 {
		return Reply{Text: msgs.WordNotFound(), Keyboard: e.keyboardFor(ctx, user, sess), State: sess.State}
	}

	removed, err := e.deps.Progress.RemovePhrase(ctx, user.ID, phraseID)
	if err != nil {
		log.Error("failed to remove phrase", "phrase_id", phraseID, "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	sess.leave(Idle)
	sess.LastPhraseID, sess.LastWord = 0, ""
	e.save(user, sess)

	if !removed {
		return Reply{Text: msgs.WordNotFound(), Keyboard: mainKeyboard(user.UILanguage), State: Idle}
	}
	return Reply{Text: msgs.WordDeleted(word), Keyboard: mainKeyboard(user.UILanguage), State: Idle}
}

func (e *Engine) promptLesson(ctx context.Context, user *models.User, sess Session, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	lessons, err := e.deps.Lessons.Lessons(ctx)
	if err != nil {
		log.Error("failed to list lessons", "error", err)
		return e.failure(user.UILanguage, sess.State)
	}
	if len(lessons) == 0 {
		return Reply{Text: msgs.NoLessons(), Keyboard: e.keyboardFor(ctx, user, sess), State: sess.State}
	}

	sess.leave(AwaitingLessonChoice)
	e.save(user, sess)
	return Reply{Text: msgs.ChooseLesson(), Keyboard: lessonKeyboard(user, lessons), State: AwaitingLessonChoice}
}

// chooseLesson selects a lesson and bulk-adds its phrases to the vocabulary
func (e *Engine) chooseLesson(ctx context.Context, user *models.User, sess Session, text string, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	lessons, err := e.deps.Lessons.Lessons(ctx)
	if err != nil {
		log.Error("failed to list lessons", "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	lesson := matchLesson(lessons, text)
	if lesson == nil {
		return Reply{Text: msgs.InvalidChoice(), Keyboard: lessonKeyboard(user, lessons), State: sess.State}
	}

	// Слова добавляются до смены урока, чтобы сбой не оставил урок сменённым наполовину
	phrases, err := e.deps.Lessons.PhrasesInLesson(ctx, lesson.ID)
	if errors.Is(err, models.ErrNotFound) {
		return Reply{Text: msgs.InvalidChoice(), Keyboard: lessonKeyboard(user, lessons), State: sess.State}
	}
	if err != nil {
		log.Error("failed to load lesson phrases", "lesson_id", lesson.ID, "error", err)
		return e.failure(user.UILanguage, sess.State)
	}
	ids := make([]int64, len(phrases))
	for i, p := range phrases {
		ids[i] = p.ID
	}
	added, err := e.deps.Progress.AddPhrases(ctx, user.ID, ids)
	if err != nil {
		log.Error("failed to add lesson phrases", "lesson_id", lesson.ID, "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	updated, err := e.deps.Profiles.SetLesson(ctx, user.TelegramID, lesson.ID)
	if errors.Is(err, models.ErrNotFound) {
		return Reply{Text: msgs.InvalidChoice(), Keyboard: lessonKeyboard(user, lessons), State: sess.State}
	}
	if err != nil {
		log.Error("failed to set lesson", "lesson_id", lesson.ID, "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	sess.leave(Idle)
	e.save(updated, sess)

	log.Info("lesson selected", "lesson_id", lesson.ID, "added", added)
	return Reply{
		Text:     msgs.LessonSelected(lesson.Title, added),
		Keyboard: mainKeyboard(updated.UILanguage),
		State:    Idle,
	}
}

func (e *Engine) promptLanguage(user *models.User, sess Session, target bool) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	state, langs, prompt := AwaitingUILanguageChoice, models.UILanguages, msgs.ChooseUI()
	if target {
		state, langs, prompt = AwaitingTargetLanguageChoice, models.TargetLanguages, msgs.ChooseTarget()
	}

	sess.leave(state)
	e.save(user, sess)
	return Reply{Text: prompt, Keyboard: languageKeyboard(user.UILanguage, langs), State: state}
}

func (e *Engine) chooseLanguage(ctx context.Context, user *models.User, sess Session, text string, target bool, log *logger.Logger) Reply {
	msgs := i18n.MessagesFor(user.UILanguage)

	langs := models.UILanguages
	if target {
		langs = models.TargetLanguages
	}

	lang, ok := models.ParseLanguage(text)
	if !ok || (target && !lang.IsTarget()) {
		return Reply{Text: msgs.InvalidChoice(), Keyboard: languageKeyboard(user.UILanguage, langs), State: sess.State}
	}

	var (
		updated *models.User
		err     error
	)
	if target {
		updated, err = e.deps.Profiles.SetLanguage(ctx, user.TelegramID, nil, &lang)
	} else {
		updated, err = e.deps.Profiles.SetLanguage(ctx, user.TelegramID, &lang, nil)
	}
	if err != nil {
		log.Error("failed to set language", "language", lang, "target", target, "error", err)
		return e.failure(user.UILanguage, sess.State)
	}

	sess.leave(Idle)
	e.save(updated, sess)
	return Reply{
		Text:     i18n.MessagesFor(updated.UILanguage).LanguageSet(lang),
		Keyboard: mainKeyboard(updated.UILanguage),
		State:    Idle,
	}
}

// keyboardFor rebuilds the keyboard of the current state
func (e *Engine) keyboardFor(ctx context.Context, user *models.User, sess Session) [][]string {
	switch sess.State {
	case AwaitingAnswer:
		if sess.Card != nil {
			return cardKeyboard(user.UILanguage, sess.Card)
		}
	case AwaitingLessonChoice:
		if lessons, err := e.deps.Lessons.Lessons(ctx); err == nil {
			return lessonKeyboard(user, lessons)
		}
	case AwaitingTargetLanguageChoice:
		return languageKeyboard(user.UILanguage, models.TargetLanguages)
	case AwaitingUILanguageChoice:
		return languageKeyboard(user.UILanguage, models.UILanguages)
	}
	return mainKeyboard(user.UILanguage)
}

// failure reports a generic error and keeps the state the user was in
func (e *Engine) failure(lang models.Language, state State) Reply {
	return Reply{
		Text:     i18n.MessagesFor(lang).Failure(),
		Keyboard: mainKeyboard(lang),
		State:    state,
	}
}

func (e *Engine) save(user *models.User, sess Session) {
	sess.UpdatedAt = e.now()
	e.store.Put(user.TelegramID, sess)
}

func isCommand(text, name string) bool {
	cmd := "/" + name
	return text == cmd || strings.HasPrefix(text, cmd+"@") || strings.HasPrefix(text, cmd+" ")
}

func withNotice(notice, text string) string {
	if notice == "" {
		return text
	}
	return notice + "\n\n" + text
}
