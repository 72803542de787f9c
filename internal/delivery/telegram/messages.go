// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// Error messages, shown regardless of the language toggle.
const (
	msgTopicUnavailable    = "Не вдалося відкрити тему. Спробуйте пізніше. / Failed to open the topic. Try again later."
	msgProgressUnavailable = "Не вдалося отримати прогрес. Спробуйте пізніше. / Failed to get progress. Try again later."
	msgNoExercises         = "Для цієї активності поки немає вправ. / No exercises for this activity yet."
	msgSentenceIncomplete  = "Спочатку розставте всі слова. / Place all the words first."
	msgInternalError       = "Щось пішло не так. Спробуйте пізніше. / Something went wrong. Try again later."
	msgUnknownCommand      = "Невідома команда. / Unknown command.\n\n/topics — теми / topics\n/progress — прогрес / progress\n/help — допомога / help"
)

// loc picks one of the two pre-supplied strings per the language toggle.
func loc(uk bool, en, ukr string) string {
	if uk {
		return ukr
	}
	return en
}

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return html.EscapeString(s)
}

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newHTMLEdit creates an edit with HTML parse mode.
func newHTMLEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}

// welcomeText builds the /start greeting.
func welcomeText() string {
	var sb strings.Builder

	sb.WriteString("<b>Вивчення англійської граматики з Viktosha</b>\n")
	sb.WriteString("<b>English Grammar Learning with Viktosha</b>\n\n")
	sb.WriteString("Обирайте свій улюблений спосіб навчання: урок, тест, практика або конструктор речень.\n")
	sb.WriteString("Choose your favourite way to learn: lesson, quiz, practice or sentence builder.\n\n")
	sb.WriteString("/topics — список тем / topic list\n")
	sb.WriteString("/progress — ваш прогрес / your progress\n")
	sb.WriteString("/help — допомога / help")

	return sb.String()
}

func helpText() string {
	var sb strings.Builder

	sb.WriteString("<b>Команди / Commands</b>\n\n")
	sb.WriteString("/topics — всі теми граматики / all grammar topics\n")
	sb.WriteString("/progress — бали та завершені теми / points and completed topics\n")
	sb.WriteString("/start — почати спочатку / start over\n\n")
	sb.WriteString("Кожна тема має чотири активності: урок, тест, практику та конструктор речень. ")
	sb.WriteString("Бали нараховуються лише за покращення найкращого результату.\n")
	sb.WriteString("Each topic has four activities: lesson, quiz, practice and sentence builder. ")
	sb.WriteString("Points are awarded only for improving your best score.")

	return sb.String()
}

// levelTitle returns the user's level name for a completed-topic count.
func levelTitle(completed int, uk bool) string {
	switch {
	case completed == 0:
		return loc(uk, "Beginner", "Новачок")
	case completed < 5:
		return loc(uk, "Learner", "Учень")
	case completed < 10:
		return loc(uk, "Master", "Майстер")
	case completed < 16:
		return loc(uk, "Pro", "Професіонал")
	default:
		return loc(uk, "🌟 Expert", "🌟 Експерт")
	}
}

// levelEmoji marks a topic's difficulty level in the catalog.
func levelEmoji(level entities.Level) string {
	switch level {
	case entities.LevelBeginner:
		return "🟢"
	case entities.LevelIntermediate:
		return "🟡"
	case entities.LevelAdvanced:
		return "🔴"
	default:
		return "⚪"
	}
}

// scoreReaction returns the reaction line for a finished activity.
func scoreReaction(percentage int, uk bool) string {
	switch {
	case percentage >= 80:
		return loc(uk, "🌟 Excellent! You mastered this topic!", "🌟 Відмінно! Ви чудово знаєте цю тему!")
	case percentage >= 60:
		return loc(uk, "👏 Good job! Keep practicing!", "👏 Добре! Продовжуйте практикуватись!")
	default:
		return loc(uk, "💪 Don't give up! Try again!", "💪 Не здавайтесь! Спробуйте ще раз!")
	}
}

// buildProgressBar renders a textual progress bar of the given width.
func buildProgressBar(percentage, width int) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	filled := percentage * width / 100
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		percentage,
	)
}
