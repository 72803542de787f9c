package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
	"github.com/viktosha/grammar-tutor-bot/internal/service"
)

// renderCatalog renders the topic catalog with per-topic completion.
func renderCatalog(topics []*entities.Topic, summary *service.ProgressSummary, uk bool) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder

	sb.WriteString("<b>" + esc(loc(uk, "📖 All Grammar Topics", "📖 Всі теми граматики")) + "</b>\n\n")
	sb.WriteString(esc(fmt.Sprintf(
		"🏆 %s: %d",
		loc(uk, "Total Points", "Загальні бали"),
		summary.TotalPoints,
	)))
	sb.WriteString("\n")
	sb.WriteString(esc(fmt.Sprintf(
		"🎓 %s: %d/%d",
		loc(uk, "Topics Completed", "Завершено тем"),
		summary.CompletedTopics,
		summary.TotalTopics,
	)))

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(topics)+1)
	for _, t := range topics {
		label := fmt.Sprintf("%s %s — %d%%", levelEmoji(t.Level), t.LocalTitle(uk), summary.Completion[t.ID])
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildTopicCallback(t.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(loc(uk, "📊 Progress", "📊 Прогрес"), buildProgressCallback()),
		tgbotapi.NewInlineKeyboardButtonData(loc(uk, "🌐 Українська", "🌐 English"), buildLangCallback()),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderSummary renders the aggregate progress view.
func renderSummary(topics []*entities.Topic, summary *service.ProgressSummary, uk bool) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder

	sb.WriteString("<b>" + esc(loc(uk, "📊 Your Progress", "📊 Ваш прогрес")) + "</b>\n\n")
	sb.WriteString(esc(fmt.Sprintf("🏆 %s: %d", loc(uk, "Total Points", "Загальні бали"), summary.TotalPoints)))
	sb.WriteString("\n")
	sb.WriteString(esc(fmt.Sprintf(
		"🎓 %s: %d/%d",
		loc(uk, "Topics Completed", "Завершено тем"),
		summary.CompletedTopics,
		summary.TotalTopics,
	)))
	sb.WriteString("\n")
	sb.WriteString(esc(fmt.Sprintf("🧠 %s: %s", loc(uk, "Your Level", "Ваш рівень"), levelTitle(summary.CompletedTopics, uk))))
	sb.WriteString("\n\n")

	for _, t := range topics {
		pct := summary.Completion[t.ID]
		sb.WriteString(esc(fmt.Sprintf("%s %s\n%s\n", levelEmoji(t.Level), t.LocalTitle(uk), buildProgressBar(pct, 14))))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(loc(uk, "📖 Topics", "📖 Теми"), buildCatalogCallback()),
		),
	)

	return sb.String(), kb
}

// topicHeader renders the shared header of every activity view.
func topicHeader(s *entities.Session, completion int) string {
	return fmt.Sprintf(
		"<b>%s</b>\n%s\n\n%s %s\n\n",
		esc(s.Topic.LocalTitle(s.Ukrainian)),
		esc(s.Topic.LocalDescription(s.Ukrainian)),
		esc(loc(s.Ukrainian, "Topic Progress:", "Прогрес теми:")),
		esc(buildProgressBar(completion, 14)),
	)
}

// activityTabsRow renders the four activity tabs, marking the active one.
func activityTabsRow(current entities.ActivityKind, uk bool) []tgbotapi.InlineKeyboardButton {
	tabs := []struct {
		kind  entities.ActivityKind
		label string
	}{
		{entities.ActivityLesson, loc(uk, "📘 Lesson", "📘 Урок")},
		{entities.ActivityQuiz, loc(uk, "🧠 Quiz", "🧠 Тест")},
		{entities.ActivityPractice, loc(uk, "🎯 Practice", "🎯 Практика")},
		{entities.ActivityBuilder, loc(uk, "⚡ Builder", "⚡ Конструктор")},
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, len(tabs))
	for _, tab := range tabs {
		label := tab.label
		if tab.kind == current {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildModeCallback(string(tab.kind))))
	}
	return row
}

// navRow renders the back and language buttons.
func navRow(uk bool) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(loc(uk, "⬅️ Back", "⬅️ Назад"), buildBackCallback()),
		tgbotapi.NewInlineKeyboardButtonData(loc(uk, "🌐 UA", "🌐 EN"), buildLangCallback()),
	)
}

// renderLesson renders the explanation and examples of a topic.
func renderLesson(s *entities.Session, progress entities.TopicProgress) (string, tgbotapi.InlineKeyboardMarkup) {
	uk := s.Ukrainian

	var sb strings.Builder
	sb.WriteString(topicHeader(s, progress.Completion()))
	sb.WriteString("<b>" + esc(loc(uk, "💡 Explanation", "💡 Пояснення")) + "</b>\n")
	sb.WriteString(esc(s.Topic.LocalExplanation(uk)))
	sb.WriteString("\n\n<b>" + esc(loc(uk, "📖 Examples", "📖 Приклади")) + "</b>\n")

	for _, ex := range s.Topic.Examples {
		sb.WriteString("✅ " + esc(ex.Correct) + "\n")
		if ex.Incorrect != "" {
			sb.WriteString("❌ <s>" + esc(ex.Incorrect) + "</s>\n")
		}
		if ex.Translation != "" {
			sb.WriteString("<i>" + esc(ex.Translation) + "</i>\n")
		}
		sb.WriteString("\n")
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if !progress.LessonDone {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				loc(uk, "✅ Mark Lesson as Complete", "✅ Позначити урок як завершений"),
				buildLessonDoneCallback(),
			),
		))
	}
	rows = append(rows, activityTabsRow(entities.ActivityLesson, uk), navRow(uk))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderActivity renders the current state of the session's exercise runner.
func renderActivity(s *entities.Session, progress entities.TopicProgress) (string, tgbotapi.InlineKeyboardMarkup) {
	switch s.Runner.State() {
	case entities.RunnerFinished:
		return renderFinished(s, progress, nil)
	case entities.RunnerFeedback:
		return renderFeedback(s, progress)
	default:
		return renderQuestion(s, progress)
	}
}

// renderQuestion renders the active item of the running activity.
func renderQuestion(s *entities.Session, progress entities.TopicProgress) (string, tgbotapi.InlineKeyboardMarkup) {
	uk := s.Ukrainian
	r := s.Runner

	var sb strings.Builder
	sb.WriteString(topicHeader(s, progress.Completion()))
	sb.WriteString(esc(fmt.Sprintf(
		"%s %d/%d · %s %d\n\n",
		loc(uk, "Question", "Питання"),
		r.Index()+1, r.Total(),
		loc(uk, "Score:", "Правильних:"),
		r.Tally(),
	)))

	var rows [][]tgbotapi.InlineKeyboardButton

	switch s.Activity {
	case entities.ActivityQuiz:
		q := s.Topic.QuizQuestions[r.Index()]
		sb.WriteString("<b>" + esc(q.LocalQuestion(uk)) + "</b>")
		for i, opt := range q.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt, buildAnswerCallback(i)),
			))
		}

	case entities.ActivityPractice:
		ex := s.Topic.Practice[r.Index()]
		sb.WriteString("<b>" + esc(ex.Sentence) + "</b>\n")
		sb.WriteString("<i>" + esc(ex.SentenceUK) + "</i>\n\n")
		sb.WriteString(esc(loc(uk, "Choose the correct answer:", "Виберіть правильну відповідь:")))
		for i, opt := range ex.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt, buildAnswerCallback(i)),
			))
		}

	case entities.ActivityBuilder:
		ex := s.Topic.Sentences[r.Index()]
		bank := r.Bank()

		sb.WriteString("<b>" + esc(ex.LocalPrompt(uk)) + "</b>\n\n")
		sb.WriteString(esc(loc(uk, "Your sentence:", "Ваше речення:")) + "\n")
		if sentence := bank.Sentence(); sentence != "" {
			sb.WriteString(esc(sentence) + "\n")
		} else {
			sb.WriteString("<i>" + esc(loc(uk,
				"Tap the words below to build the sentence",
				"Натисніть на слова нижче, щоб скласти речення",
			)) + "</i>\n")
		}

		// Placed words on top (tap to remove), available words below.
		for _, row := range wordButtonRows(bank.Selected(), bank, buildDropWordCallback) {
			rows = append(rows, row)
		}
		for _, row := range wordButtonRows(bank.Available(), bank, buildPickWordCallback) {
			rows = append(rows, row)
		}
		if bank.Complete() {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(loc(uk, "✔️ Check", "✔️ Перевірити"), buildCheckCallback()),
			))
		}
	}

	rows = append(rows, activityTabsRow(s.Activity, uk), navRow(uk))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// wordButtonRows lays word buttons out in rows of up to four.
func wordButtonRows(indices []int, bank *entities.WordBank, callback func(int) string) [][]tgbotapi.InlineKeyboardButton {
	const perRow = 4

	var rows [][]tgbotapi.InlineKeyboardButton
	row := make([]tgbotapi.InlineKeyboardButton, 0, perRow)
	for _, i := range indices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(bank.Word(i), callback(i)))
		if len(row) == perRow {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, perRow)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// renderFeedback renders the result of the submitted answer.
func renderFeedback(s *entities.Session, progress entities.TopicProgress) (string, tgbotapi.InlineKeyboardMarkup) {
	uk := s.Ukrainian
	r := s.Runner

	var sb strings.Builder
	sb.WriteString(topicHeader(s, progress.Completion()))

	if r.LastCorrect() {
		sb.WriteString(esc(loc(uk, "✅ Correct!", "✅ Правильно!")) + "\n\n")
	} else {
		sb.WriteString(esc(loc(uk, "❌ Incorrect.", "❌ Неправильно.")) + "\n\n")
	}

	switch s.Activity {
	case entities.ActivityQuiz:
		q := s.Topic.QuizQuestions[r.Index()]
		if !r.LastCorrect() {
			sb.WriteString(esc(fmt.Sprintf(
				"%s %s\n",
				loc(uk, "Correct answer:", "Правильна відповідь:"),
				q.Options[q.CorrectAnswer],
			)))
		}
		if explanation := q.LocalExplanation(uk); explanation != "" {
			sb.WriteString("<i>" + esc(explanation) + "</i>\n")
		}

	case entities.ActivityPractice:
		ex := s.Topic.Practice[r.Index()]
		if !r.LastCorrect() {
			sb.WriteString(esc(fmt.Sprintf(
				"%s %s\n",
				loc(uk, "Correct answer:", "Правильна відповідь:"),
				ex.CorrectAnswer,
			)))
		}

	case entities.ActivityBuilder:
		ex := s.Topic.Sentences[r.Index()]
		if !r.LastCorrect() {
			sb.WriteString(esc(loc(uk, "Correct sentence:", "Правильне речення:")) + "\n")
			sb.WriteString("<b>" + esc(ex.CorrectSentence()) + "</b>\n")
		}
	}

	nextLabel := loc(uk, "➡️ Next", "➡️ Далі")
	if r.Index() == r.Total()-1 {
		nextLabel = loc(uk, "🏁 Finish", "🏁 Завершити")
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(nextLabel, buildNextCallback()),
		),
		navRow(uk),
	)

	return sb.String(), kb
}

// renderFinished renders the completion screen of an activity run.
// result is non-nil right after the run that produced the score.
func renderFinished(s *entities.Session, progress entities.TopicProgress, result *service.ActivityResult) (string, tgbotapi.InlineKeyboardMarkup) {
	uk := s.Ukrainian
	r := s.Runner

	var sb strings.Builder
	sb.WriteString(topicHeader(s, progress.Completion()))
	sb.WriteString("<b>" + esc(loc(uk, "🏁 Completed!", "🏁 Завершено!")) + "</b>\n\n")
	sb.WriteString(esc(fmt.Sprintf(
		"%s %d/%d (%d%%)\n",
		loc(uk, "Correct Answers:", "Правильних відповідей:"),
		r.Tally(), r.Total(), r.Score(),
	)))
	sb.WriteString(esc(scoreReaction(r.Score(), uk)) + "\n")

	if result != nil && result.Improved {
		sb.WriteString("\n" + esc(fmt.Sprintf(
			"🏆 %s +%d",
			loc(uk, "New best! Points earned:", "Новий рекорд! Зароблено балів:"),
			result.Points,
		)) + "\n")
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(loc(uk, "🔄 Try Again", "🔄 Спробувати знову"), buildRestartCallback()),
		),
		activityTabsRow(s.Activity, uk),
		navRow(uk),
	)

	return sb.String(), kb
}
