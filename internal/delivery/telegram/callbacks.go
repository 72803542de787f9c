package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
	"github.com/viktosha/grammar-tutor-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var (
		text  string
		kb    tgbotapi.InlineKeyboardMarkup
		alert string
		err   error
	)

	switch data.Action {
	case actionTopic:
		text, kb, err = h.onSelectTopic(ctx, userID, chatID, data)
	case actionMode:
		text, kb, alert, err = h.onSwitchActivity(ctx, userID, data)
	case actionLesson:
		text, kb, err = h.onLessonDone(ctx, userID)
	case actionAnswer:
		text, kb, err = h.onAnswer(ctx, userID, data)
	case actionWord:
		text, kb, err = h.onWord(ctx, userID, data)
	case actionCheck:
		text, kb, alert, err = h.onCheck(ctx, userID)
	case actionNext:
		text, kb, err = h.onAdvance(ctx, userID)
	case actionRestart:
		text, kb, err = h.onRestart(ctx, userID)
	case actionBack, actionCatalog:
		h.sessions.ReturnToCatalog(userID)
		text, kb, err = h.renderCatalogView(ctx, userID)
	case actionLang:
		text, kb, err = h.onToggleLanguage(ctx, userID)
	case actionProgress:
		text, kb, err = h.renderSummaryView(ctx, userID)
	default:
		h.logger.Debug("unknown callback action", zap.String("data", cb.Data))
		h.answerCallback(cb, "")
		return
	}

	if err != nil {
		h.logger.Error("callback failed",
			zap.Int64("user_id", userID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		failure := msgInternalError
		if data.Action == actionTopic {
			failure = msgTopicUnavailable
		}
		h.answerCallback(cb, failure)
		return
	}
	if alert != "" {
		h.answerCallback(cb, alert)
		return
	}

	edit := newHTMLEdit(chatID, cb.Message.MessageID, text)
	edit.ReplyMarkup = &kb
	h.send(edit)

	h.answerCallback(cb, "")
}

func (h *Handler) onSelectTopic(ctx context.Context, userID, chatID int64, data callbackData) (string, tgbotapi.InlineKeyboardMarkup, error) {
	if len(data.Params) != 1 {
		return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
	}

	// Read the preference first: storing the new session would shadow the
	// catalog-level language choice of a user without a previous session.
	uk := h.language(userID)

	session, err := h.sessions.SelectTopic(userID, chatID, data.Params[0])
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	session.Ukrainian = uk

	return h.renderSessionView(ctx, session, nil)
}

func (h *Handler) onSwitchActivity(ctx context.Context, userID int64, data callbackData) (string, tgbotapi.InlineKeyboardMarkup, string, error) {
	if len(data.Params) != 1 {
		return "", tgbotapi.InlineKeyboardMarkup{}, "", errInvalidCallback(data)
	}

	session, err := h.sessions.SwitchActivity(userID, entities.ActivityKind(data.Params[0]))
	if errors.Is(err, entities.ErrNoExercises) {
		return "", tgbotapi.InlineKeyboardMarkup{}, msgNoExercises, nil
	}
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, "", err
	}

	text, kb, err := h.renderSessionView(ctx, session, nil)
	return text, kb, "", err
}

func (h *Handler) onLessonDone(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	if err := h.sessions.CompleteLesson(ctx, userID); err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return h.renderSessionView(ctx, h.sessions.Current(userID), nil)
}

// onAnswer handles an option tap for quiz and practice items. The
// callback carries the option index; practice answers are resolved to
// the option text before submission, since practice correctness is
// defined by exact string equality.
func (h *Handler) onAnswer(ctx context.Context, userID int64, data callbackData) (string, tgbotapi.InlineKeyboardMarkup, error) {
	if len(data.Params) != 1 {
		return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
	}
	optionIndex, err := strconv.Atoi(data.Params[0])
	if err != nil || optionIndex < 0 {
		return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
	}

	session := h.sessions.Current(userID)
	if session == nil || session.Runner == nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, service.ErrNoActiveSession
	}

	var answer entities.Answer
	switch session.Activity {
	case entities.ActivityQuiz:
		answer = entities.AnswerOption(optionIndex)
	case entities.ActivityPractice:
		options := session.Topic.Practice[session.Runner.Index()].Options
		if optionIndex >= len(options) {
			return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
		}
		answer = entities.AnswerText(options[optionIndex])
	default:
		return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
	}

	if _, err := h.sessions.SubmitAnswer(userID, answer); err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	return h.renderSessionView(ctx, session, nil)
}

func (h *Handler) onWord(ctx context.Context, userID int64, data callbackData) (string, tgbotapi.InlineKeyboardMarkup, error) {
	if len(data.Params) != 2 {
		return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
	}
	wordIndex, err := strconv.Atoi(data.Params[1])
	if err != nil || wordIndex < 0 {
		return "", tgbotapi.InlineKeyboardMarkup{}, errInvalidCallback(data)
	}

	switch data.Params[0] {
	case wordPick:
		err = h.sessions.PickWord(userID, wordIndex)
	case wordDrop:
		err = h.sessions.UnpickWord(userID, wordIndex)
	default:
		err = errInvalidCallback(data)
	}
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	return h.renderSessionView(ctx, h.sessions.Current(userID), nil)
}

func (h *Handler) onCheck(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, string, error) {
	_, err := h.sessions.SubmitSentence(userID)
	if errors.Is(err, entities.ErrSentenceIncomplete) {
		return "", tgbotapi.InlineKeyboardMarkup{}, msgSentenceIncomplete, nil
	}
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, "", err
	}

	text, kb, err := h.renderSessionView(ctx, h.sessions.Current(userID), nil)
	return text, kb, "", err
}

func (h *Handler) onAdvance(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	result, err := h.sessions.Advance(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return h.renderSessionView(ctx, h.sessions.Current(userID), result)
}

func (h *Handler) onRestart(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	if err := h.sessions.Restart(userID); err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return h.renderSessionView(ctx, h.sessions.Current(userID), nil)
}

func (h *Handler) onToggleLanguage(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	uk, err := h.sessions.ToggleLanguage(userID)
	if errors.Is(err, service.ErrNoActiveSession) {
		// No session: the toggle applies to the catalog view only.
		uk = !h.language(userID)
		h.rememberLanguage(userID, uk)
		return h.renderCatalogView(ctx, userID)
	}
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	h.rememberLanguage(userID, uk)

	return h.renderSessionView(ctx, h.sessions.Current(userID), nil)
}

func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	answer := tgbotapi.NewCallback(cb.ID, text)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("callback answer error", zap.Error(err))
	}
}

func errInvalidCallback(data callbackData) error {
	return errors.New("invalid callback data: " + data.Raw)
}
