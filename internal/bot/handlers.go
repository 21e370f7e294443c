package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"quizbot/internal/doctext"
	"quizbot/internal/quiz"
)

// handleFile runs the full document pipeline: download, text extraction,
// question extraction, then dispatch as quiz polls.
func (b *Bot) handleFile(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	if b.sessions.State(userID) != StateWaitingForFile {
		b.reply(msg, "Press '"+btnCreateQuiz+"' first, then send me the file.")
		return
	}

	if ok, wait := b.sessions.AllowFile(userID, b.cfg.FileInterval); !ok {
		b.reply(msg, fmt.Sprintf("⏳ Please wait %d seconds before sending another file.", int(wait.Seconds())+1))
		return
	}

	name := msg.Document.FileName
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".pdf" && ext != ".txt" {
		b.reply(msg, "❌ Unsupported file type. Please send a PDF or text file.")
		return
	}

	b.sessions.SetState(userID, StateExtracting)
	defer b.sessions.SetState(userID, StateIdle)

	status, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⏳ Processing your file..."))
	if err == nil {
		defer func() {
			if _, err := b.api.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, status.MessageID)); err != nil {
				b.log.WithError(err).Debug("delete status message")
			}
		}()
	}

	path, err := b.downloadDocument(msg.Document, ext)
	if err != nil {
		b.log.WithError(err).WithField("user", userID).Error("download document")
		b.reply(msg, "❌ Could not download the file. Please try again.")
		return
	}
	defer os.Remove(path)

	text, err := doctext.ExtractFile(path)
	if err != nil {
		b.log.WithError(err).WithField("file", name).Error("extract text")
		b.reply(msg, "❌ Could not read the file contents.")
		return
	}

	res := quiz.Extract(text)
	b.sessions.SetResult(userID, res)

	if len(res.Questions) == 0 {
		b.reply(msg,
			"❌ No questions found in the file.\n"+
				"Make sure it follows the expected format (see /help).\n"+
				skipSummary(res.Skipped))
		return
	}

	sent, failed, failedLabels := b.disp.Send(ctx, msg.Chat.ID, res.Questions)
	b.log.WithFields(map[string]any{
		"user": userID, "sent": sent, "failed": failed,
	}).Info("file processed")

	summary := fmt.Sprintf("✅ Created %d quiz polls from your file.", sent)
	if failed > 0 {
		summary += fmt.Sprintf("\n⚠️ %d questions could not be sent: %s.", failed, strings.Join(failedLabels, ", "))
	}
	if len(res.Skipped) > 0 {
		summary += "\n" + skipSummary(res.Skipped)
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, summary)
	out.ReplyMarkup = processingKeyboard()
	b.send(out)
}

func (b *Bot) downloadDocument(doc *tgbotapi.Document, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch file: status %s", resp.Status)
	}

	if err := os.MkdirAll(b.cfg.TempDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(b.cfg.TempDir, uuid.NewString()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// skipSummary lists at most five skipped questions to keep replies short.
func skipSummary(skipped []quiz.SkipRecord) string {
	if len(skipped) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "ℹ️ Skipped %d questions:", len(skipped))
	for i, s := range skipped {
		if i == 5 {
			fmt.Fprintf(&sb, "\n- ... and %d more", len(skipped)-i)
			break
		}
		fmt.Fprintf(&sb, "\n- %s: %s", s.Label, s.Detail)
	}
	return sb.String()
}

// handleForwardedPoll collects forwarded quizzes for later export.
func (b *Bot) handleForwardedPoll(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if b.sessions.State(userID) != StateCollectingForwards {
		b.sessions.BeginCollecting(userID)
	}
	n := b.sessions.AddForward(userID, *msg.Poll)
	out := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("📥 Collected %d quizzes so far.", n))
	out.ReplyMarkup = collectKeyboard()
	b.send(out)
}

// handleDirectPoll converts a single non-forwarded quiz straight to text.
func (b *Bot) handleDirectPoll(msg *tgbotapi.Message) {
	text := quiz.Encode(pollSource{poll: msg.Poll}, 1)
	b.deliverText(msg.Chat.ID, text, "📋 Here is your quiz in text format:")
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.WithError(err).Debug("answer callback")
	}
	if cb.Message == nil || cb.From == nil {
		return
	}
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case cbFinishExtraction:
		b.finishExtraction(userID, chatID)
	case cbCancelExtraction:
		b.sessions.DropBatch(userID)
		b.sessions.SetState(userID, StateIdle)
		out := tgbotapi.NewMessage(chatID, "❌ Extraction cancelled.")
		out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(userID))
		b.send(out)
	case cbShowQuestions:
		b.showQuestions(userID, chatID)
	case cbCancelProcessing:
		b.sessions.DropResult(userID)
		b.sessions.SetState(userID, StateIdle)
		out := tgbotapi.NewMessage(chatID, "Done. What next?")
		out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(userID))
		b.send(out)
	}
}

// finishExtraction renders every collected forwarded quiz as canonical text
// and delivers the whole batch in one message or file.
func (b *Bot) finishExtraction(userID, chatID int64) {
	polls := b.sessions.TakeBatch(userID)
	b.sessions.SetState(userID, StateIdle)
	if len(polls) == 0 {
		out := tgbotapi.NewMessage(chatID, "You haven't forwarded any quizzes yet.")
		out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(userID))
		b.send(out)
		return
	}

	b.deliverText(chatID, encodeBatch(polls), fmt.Sprintf("✅ Extracted %d quizzes:", len(polls)))

	out := tgbotapi.NewMessage(chatID, "What next?")
	out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(userID))
	b.send(out)
}

// encodeBatch renders collected polls as sequentially numbered canonical
// text blocks separated by blank lines.
func encodeBatch(polls []tgbotapi.Poll) string {
	parts := make([]string, len(polls))
	for i := range polls {
		parts[i] = quiz.Encode(pollSource{poll: &polls[i]}, i+1)
	}
	return strings.Join(parts, "\n\n")
}

// showQuestions re-renders the last file extraction as text.
func (b *Bot) showQuestions(userID, chatID int64) {
	res, ok := b.sessions.Result(userID)
	if !ok || len(res.Questions) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No extracted questions to show. Send a file first."))
		return
	}
	parts := make([]string, len(res.Questions))
	for i, q := range res.Questions {
		parts[i] = quiz.Encode(q, i+1)
	}
	b.deliverText(chatID, strings.Join(parts, "\n\n"), fmt.Sprintf("📊 %d extracted questions:", len(res.Questions)))
}

// deliverText sends body as a plain message, or as a text-file attachment
// when it exceeds the message ceiling.
func (b *Bot) deliverText(chatID int64, body, caption string) {
	if len(body) <= messageLimit {
		b.send(tgbotapi.NewMessage(chatID, caption+"\n\n"+body))
		return
	}

	if err := os.MkdirAll(b.cfg.TempDir, 0o755); err != nil {
		b.log.WithError(err).Error("create temp dir")
		b.send(tgbotapi.NewMessage(chatID, "❌ Could not prepare the export file."))
		return
	}
	path := filepath.Join(b.cfg.TempDir, uuid.NewString()+".txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		b.log.WithError(err).Error("write export file")
		b.send(tgbotapi.NewMessage(chatID, "❌ Could not prepare the export file."))
		return
	}
	defer os.Remove(path)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption + " (too long for one message, attached as a file)"
	if _, err := b.api.Send(doc); err != nil {
		b.log.WithError(err).Error("send export document")
	}
}
