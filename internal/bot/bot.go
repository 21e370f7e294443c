// Package bot is the Telegram-facing glue: it routes updates to handlers,
// gates access through the allow-list, and hands extracted questions to the
// dispatcher. All quiz logic lives in internal/quiz and internal/dispatch.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"quizbot/internal/config"
	"quizbot/internal/dispatch"
	"quizbot/internal/store"
)

// messageLimit is Telegram's practical ceiling for one text message; longer
// exports ship as file attachments instead.
const messageLimit = 4000

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      config.Config
	users    store.UserStore
	sessions *sessions
	counters *dispatch.CounterStore
	disp     *dispatch.Dispatcher
	log      logrus.FieldLogger
}

func New(api *tgbotapi.BotAPI, cfg config.Config, users store.UserStore, log logrus.FieldLogger) *Bot {
	counters := dispatch.NewCounterStore()
	return &Bot{
		api:      api,
		cfg:      cfg,
		users:    users,
		sessions: newSessions(),
		counters: counters,
		disp:     dispatch.New(pollSender{api: api}, counters, log),
		log:      log,
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.log.WithError(err).Warn("delete webhook")
	}
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help information"},
	)); err != nil {
		b.log.WithError(err).Warn("set commands")
	}
	b.notifyChannel("🚀 Bot has started successfully!")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorf("handler panic: %v", r)
			b.notifyChannel(fmt.Sprintf("❌ Handler panic: %v", r))
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !b.accessGranted(ctx, msg) {
		b.reply(msg, "❌ You are not authorized to use this bot.")
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case msg.Document != nil:
		b.handleFile(ctx, msg)
	case msg.Poll != nil && isForwarded(msg):
		b.handleForwardedPoll(msg)
	case msg.Poll != nil:
		b.handleDirectPoll(msg)
	case msg.Text != "":
		b.handleText(ctx, msg)
	}
}

// accessGranted is the allow-list gate. /start, /help, /myaccess and the
// admin commands always pass (their handlers do their own checks); admins
// always pass; everyone else needs an allow-list entry.
func (b *Bot) accessGranted(ctx context.Context, msg *tgbotapi.Message) bool {
	id := msg.From.ID
	if b.cfg.IsAdmin(id) {
		return true
	}
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help", "myaccess", "allow_user", "removeuser", "listusers", "userlist":
			return true
		}
	}
	ok, err := b.users.IsAllowed(ctx, id)
	if err != nil {
		b.log.WithError(err).WithField("user", id).Error("allow-list lookup")
		return false
	}
	return ok
}

func isForwarded(msg *tgbotapi.Message) bool {
	return msg.ForwardDate != 0 || msg.ForwardFrom != nil || msg.ForwardFromChat != nil
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.sendHelp(msg)
	case "myaccess":
		b.handleMyAccess(ctx, msg)
	case "allow_user":
		b.handleAllowUser(ctx, msg)
	case "removeuser":
		b.handleRemoveUser(ctx, msg)
	case "listusers":
		b.handleListAllowed(ctx, msg)
	case "userlist":
		b.handleListAllUsers(ctx, msg)
	default:
		b.reply(msg, "Unknown command. Use /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	fullName := from.FirstName
	if from.LastName != "" {
		fullName += " " + from.LastName
	}
	if err := b.users.UpsertUser(ctx, from.ID, from.UserName, fullName); err != nil {
		b.log.WithError(err).WithField("user", from.ID).Error("upsert user")
		b.reply(msg, "⚠️ Could not store your user info. Please try again later.")
	}
	b.sessions.SetState(from.ID, StateIdle)

	out := tgbotapi.NewMessage(msg.Chat.ID,
		"👋 Welcome to the Quiz Bot!\n\n"+
			"This bot can:\n"+
			"1. Create quizzes from PDF or text files\n"+
			"2. Extract forwarded quizzes into text format\n\n"+
			"Use the keyboard below to control the bot.")
	out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(from.ID))
	b.send(out)
}

func (b *Bot) sendHelp(msg *tgbotapi.Message) {
	out := tgbotapi.NewMessage(msg.Chat.ID,
		"📚 Help:\n\n"+
			"For PDF/Text Files:\n"+
			"- Send a PDF or text file with questions\n"+
			"- Required format:\n"+
			"  1. Question text?\n"+
			"  a) First option\n"+
			"  b) Second option\n"+
			"  c) Third option\n"+
			"  d) Fourth option\n"+
			"  Answer: c) correct answer\n\n"+
			"For Telegram Quizzes:\n"+
			"- Forward quizzes to me\n"+
			"- Press 'Finish Extraction' when done\n"+
			"- I'll send all quizzes in a single text message")
	out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(msg.From.ID))
	b.send(out)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Text {
	case btnCreateQuiz:
		// A new extraction session: numbering starts over for this chat.
		b.counters.Reset(msg.Chat.ID)
		b.sessions.SetState(msg.From.ID, StateWaitingForFile)
		b.reply(msg,
			"📤 Please send me a PDF or text file with questions.\n\n"+
				"The file should contain questions in this format:\n"+
				"1. Question text?\n"+
				"a) First option\n"+
				"b) Second option\n"+
				"c) Third option\n"+
				"d) Fourth option\n"+
				"Answer: c) correct answer")
	case btnExtractQuiz:
		b.sessions.BeginCollecting(msg.From.ID)
		out := tgbotapi.NewMessage(msg.Chat.ID,
			"📥 Please forward me Telegram quizzes.\n"+
				"I'll collect them until you press 'Finish Extraction'.")
		out.ReplyMarkup = collectKeyboard()
		b.send(out)
	case btnHelp:
		b.sendHelp(msg)
	case btnAdminPanel, btnListAllowed, btnListAllUsers, btnAllowUser, btnRemoveUser, btnBackToMain:
		b.handleAdminText(ctx, msg)
	default:
		out := tgbotapi.NewMessage(msg.Chat.ID, "Please use the keyboard buttons to interact with the bot.")
		out.ReplyMarkup = mainKeyboard(b.cfg.IsAdmin(msg.From.ID))
		b.send(out)
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	b.send(out)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.WithError(err).Error("send message")
	}
}

// notifyChannel posts operational notices to the configured log channel.
func (b *Bot) notifyChannel(text string) {
	if b.cfg.LogChannelID == 0 {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(b.cfg.LogChannelID, text)); err != nil {
		b.log.WithError(err).Warn("notify log channel")
	}
}
