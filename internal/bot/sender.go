package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quizbot/internal/quiz"
)

// pollSender adapts the Telegram API to the dispatcher's collaborator
// interface: one call, one outbound quiz poll.
type pollSender struct {
	api *tgbotapi.BotAPI
}

func (s pollSender) SendQuizPoll(ctx context.Context, dest int64, question string, options []string, correctIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := tgbotapi.NewPoll(dest, question, options...)
	p.Type = "quiz"
	p.CorrectOptionID = int64(correctIndex)
	p.IsAnonymous = true
	_, err := s.api.Send(p)
	return err
}

// pollSource adapts a received Telegram poll to the codec's capability
// interface. Only quiz-type polls carry a usable correct option; anything
// else renders as "Not provided".
type pollSource struct {
	poll *tgbotapi.Poll
}

func (p pollSource) QuestionText() string { return p.poll.Question }

func (p pollSource) QuestionOptions() []quiz.OptionSource {
	out := make([]quiz.OptionSource, len(p.poll.Options))
	for i, o := range p.poll.Options {
		out[i] = quiz.OptionFrom(o.Text)
	}
	return out
}

func (p pollSource) CorrectOption() (int, bool) {
	if p.poll.Type != "quiz" {
		return 0, false
	}
	return p.poll.CorrectOptionID, true
}
