package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
	"github.com/viktosha/grammar-tutor-bot/internal/service"
)

type SessionService interface {
	Current(userID int64) *entities.Session
	SelectTopic(userID, chatID int64, topicID string) (*entities.Session, error)
	SwitchActivity(userID int64, kind entities.ActivityKind) (*entities.Session, error)
	SubmitAnswer(userID int64, a entities.Answer) (bool, error)
	SubmitSentence(userID int64) (bool, error)
	PickWord(userID int64, wordIndex int) error
	UnpickWord(userID int64, wordIndex int) error
	Advance(ctx context.Context, userID int64) (*service.ActivityResult, error)
	Restart(userID int64) error
	CompleteLesson(ctx context.Context, userID int64) error
	ReturnToCatalog(userID int64)
	ToggleLanguage(userID int64) (bool, error)
}

type ProgressService interface {
	Get(ctx context.Context, userID int64) (*entities.UserProgress, error)
	Summary(ctx context.Context, userID int64, topics []*entities.Topic) (*service.ProgressSummary, error)
}

type TopicService interface {
	GetAll() []*entities.Topic
}

type Handler struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	topics   TopicService
	sessions SessionService
	progress ProgressService

	// Display language of users without an active session. The engine
	// never reads this; it is purely a rendering concern.
	mu    sync.Mutex
	langs map[int64]bool
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	topics TopicService,
	sessions SessionService,
	progress ProgressService,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		topics:   topics,
		sessions: sessions,
		progress: progress,
		langs:    make(map[int64]bool),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.send(newHTMLMessage(chatID, welcomeText()))
			h.sendCatalog(ctx, userID, chatID)

		case "topics":
			h.sendCatalog(ctx, userID, chatID)

		case "progress":
			h.sendSummary(ctx, userID, chatID)

		case "help":
			h.send(newHTMLMessage(chatID, helpText()))

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	// Plain text is not part of the interaction model; point at the catalog.
	h.send(newHTMLMessage(chatID, msgUnknownCommand))
}

// language returns the display language for a user: the session's flag
// while a session is active, the remembered preference otherwise.
func (h *Handler) language(userID int64) bool {
	if s := h.sessions.Current(userID); s != nil {
		return s.Ukrainian
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	uk, ok := h.langs[userID]
	if !ok {
		return true // Ukrainian by default
	}
	return uk
}

func (h *Handler) rememberLanguage(userID int64, uk bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.langs[userID] = uk
}

func (h *Handler) sendCatalog(ctx context.Context, userID, chatID int64) {
	text, kb, err := h.renderCatalogView(ctx, userID)
	if err != nil {
		h.logger.Error("failed to render catalog", zap.Int64("user_id", userID), zap.Error(err))
		h.send(newHTMLMessage(chatID, msgProgressUnavailable))
		return
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}

func (h *Handler) sendSummary(ctx context.Context, userID, chatID int64) {
	text, kb, err := h.renderSummaryView(ctx, userID)
	if err != nil {
		h.logger.Error("failed to render summary", zap.Int64("user_id", userID), zap.Error(err))
		h.send(newHTMLMessage(chatID, msgProgressUnavailable))
		return
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}

func (h *Handler) renderCatalogView(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	topics := h.topics.GetAll()
	summary, err := h.progress.Summary(ctx, userID, topics)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	text, kb := renderCatalog(topics, summary, h.language(userID))
	return text, kb, nil
}

func (h *Handler) renderSummaryView(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	topics := h.topics.GetAll()
	summary, err := h.progress.Summary(ctx, userID, topics)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	text, kb := renderSummary(topics, summary, h.language(userID))
	return text, kb, nil
}

// renderSessionView renders the view matching the session's activity and
// runner state.
func (h *Handler) renderSessionView(ctx context.Context, s *entities.Session, result *service.ActivityResult) (string, tgbotapi.InlineKeyboardMarkup, error) {
	p, err := h.progress.Get(ctx, s.UserID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	topicProgress := p.Topic(s.Topic.ID)

	if s.Activity == entities.ActivityLesson || s.Runner == nil {
		text, kb := renderLesson(s, topicProgress)
		return text, kb, nil
	}

	if result != nil && result.Done {
		text, kb := renderFinished(s, topicProgress, result)
		return text, kb, nil
	}

	text, kb := renderActivity(s, topicProgress)
	return text, kb, nil
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
