package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionTopic    = "topic"
	actionMode     = "mode"
	actionAnswer   = "ans"
	actionWord     = "word"
	actionCheck    = "check"
	actionNext     = "next"
	actionRestart  = "again"
	actionLesson   = "lesson"
	actionBack     = "back"
	actionLang     = "lang"
	actionProgress = "progress"
	actionCatalog  = "catalog"
)

// Word sub-actions.
const (
	wordPick = "pick"
	wordDrop = "drop"
)

// Lesson sub-actions.
const (
	lessonDone = "done"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildTopicCallback builds callback data for selecting a topic.
func buildTopicCallback(topicID string) string {
	return callbackData{
		Action: actionTopic,
		Params: []string{topicID},
	}.encode()
}

// buildModeCallback builds callback data for switching the activity tab.
func buildModeCallback(kind string) string {
	return callbackData{
		Action: actionMode,
		Params: []string{kind},
	}.encode()
}

// buildAnswerCallback builds callback data for answering the current item.
// The index points into the item's option list for quiz and practice alike.
func buildAnswerCallback(optionIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(optionIndex)},
	}.encode()
}

// buildPickWordCallback builds callback data for picking an available word.
func buildPickWordCallback(wordIndex int) string {
	return callbackData{
		Action: actionWord,
		Params: []string{wordPick, strconv.Itoa(wordIndex)},
	}.encode()
}

// buildDropWordCallback builds callback data for removing a placed word.
func buildDropWordCallback(wordIndex int) string {
	return callbackData{
		Action: actionWord,
		Params: []string{wordDrop, strconv.Itoa(wordIndex)},
	}.encode()
}

// buildCheckCallback builds callback data for checking the built sentence.
func buildCheckCallback() string {
	return actionCheck
}

// buildNextCallback builds callback data for advancing past feedback.
func buildNextCallback() string {
	return actionNext
}

// buildRestartCallback builds callback data for restarting a finished run.
func buildRestartCallback() string {
	return actionRestart
}

// buildLessonDoneCallback builds callback data for marking the lesson complete.
func buildLessonDoneCallback() string {
	return callbackData{
		Action: actionLesson,
		Params: []string{lessonDone},
	}.encode()
}

// buildBackCallback builds callback data for returning to the catalog.
func buildBackCallback() string {
	return actionBack
}

// buildLangCallback builds callback data for toggling the display language.
func buildLangCallback() string {
	return actionLang
}

// buildProgressCallback builds callback data for opening the progress view.
func buildProgressCallback() string {
	return actionProgress
}

// buildCatalogCallback builds callback data for opening the topic catalog.
func buildCatalogCallback() string {
	return actionCatalog
}
