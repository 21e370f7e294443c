package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quizbot/internal/store"
)

// handleAdminText routes the admin-panel reply-keyboard buttons.
func (b *Bot) handleAdminText(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg, "❌ This section is for admins only.")
		return
	}
	switch msg.Text {
	case btnAdminPanel:
		out := tgbotapi.NewMessage(msg.Chat.ID, "👑 Admin Panel")
		out.ReplyMarkup = adminKeyboard()
		b.send(out)
	case btnListAllowed:
		b.handleListAllowed(ctx, msg)
	case btnListAllUsers:
		b.handleListAllUsers(ctx, msg)
	case btnAllowUser:
		b.reply(msg, "Use: /allow_user <user_id> [username]\nThe user must have started the bot first.")
	case btnRemoveUser:
		b.reply(msg, "Use: /removeuser <user_id>")
	case btnBackToMain:
		out := tgbotapi.NewMessage(msg.Chat.ID, "Main menu")
		out.ReplyMarkup = mainKeyboard(true)
		b.send(out)
	}
}

func (b *Bot) handleMyAccess(ctx context.Context, msg *tgbotapi.Message) {
	id := msg.From.ID
	if b.cfg.IsAdmin(id) {
		b.reply(msg, fmt.Sprintf("👑 You are an admin (ID: %d).", id))
		return
	}
	ok, err := b.users.IsAllowed(ctx, id)
	if err != nil {
		b.log.WithError(err).WithField("user", id).Error("allow-list lookup")
		b.reply(msg, "⚠️ Could not check your access right now.")
		return
	}
	if ok {
		b.reply(msg, fmt.Sprintf("✅ You have access to this bot (ID: %d).", id))
	} else {
		b.reply(msg, fmt.Sprintf("❌ You don't have access to this bot.\nYour ID: %d\nAsk an admin to allow you.", id))
	}
}

func (b *Bot) handleAllowUser(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg, "❌ This command is for admins only.")
		return
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg, "Usage: /allow_user <user_id> [username]")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg, "❌ Invalid user ID: "+args[0])
		return
	}
	username := ""
	if len(args) > 1 {
		username = strings.TrimPrefix(args[1], "@")
	}
	if username == "" {
		// Prefer the username we saw when the user started the bot.
		if u, err := b.users.GetUser(ctx, id); err == nil {
			username = u.Username
		} else if !errors.Is(err, store.ErrNotFound) {
			b.log.WithError(err).WithField("user", id).Error("lookup user")
		}
	}
	if err := b.users.Allow(ctx, id, username); err != nil {
		b.log.WithError(err).WithField("user", id).Error("allow user")
		b.reply(msg, "⚠️ Could not update the allow-list.")
		return
	}
	b.reply(msg, fmt.Sprintf("✅ User %d is now allowed.", id))
	b.notifyChannel(fmt.Sprintf("✅ Admin %d allowed user %d", msg.From.ID, id))
}

func (b *Bot) handleRemoveUser(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg, "❌ This command is for admins only.")
		return
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		b.reply(msg, "Usage: /removeuser <user_id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg, "❌ Invalid user ID: "+args[0])
		return
	}
	removed, err := b.users.Remove(ctx, id)
	if err != nil {
		b.log.WithError(err).WithField("user", id).Error("remove user")
		b.reply(msg, "⚠️ Could not update the allow-list.")
		return
	}
	if !removed {
		b.reply(msg, fmt.Sprintf("User %d was not on the allow-list.", id))
		return
	}
	b.reply(msg, fmt.Sprintf("❌ User %d removed from the allow-list.", id))
	b.notifyChannel(fmt.Sprintf("❌ Admin %d removed user %d", msg.From.ID, id))
}

func (b *Bot) handleListAllowed(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg, "❌ This command is for admins only.")
		return
	}
	allowed, err := b.users.ListAllowed(ctx)
	if err != nil {
		b.log.WithError(err).Error("list allowed")
		b.reply(msg, "⚠️ Could not read the allow-list.")
		return
	}
	if len(allowed) == 0 {
		b.reply(msg, "The allow-list is empty.")
		return
	}
	var sb strings.Builder
	for i, u := range allowed {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "• %d %s (added %s)", u.ID, atUsername(u.Username),
			time.Unix(u.AddedAt, 0).Format("2006-01-02"))
	}
	b.deliverText(msg.Chat.ID, sb.String(), fmt.Sprintf("📋 Allowed users (%d):", len(allowed)))
}

func (b *Bot) handleListAllUsers(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg, "❌ This command is for admins only.")
		return
	}
	users, err := b.users.ListUsers(ctx)
	if err != nil {
		b.log.WithError(err).Error("list users")
		b.reply(msg, "⚠️ Could not read the user list.")
		return
	}
	if len(users) == 0 {
		b.reply(msg, "No users have started the bot yet.")
		return
	}
	var sb strings.Builder
	for i, u := range users {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "• %d %s %s (since %s)", u.ID, atUsername(u.Username), u.FullName,
			time.Unix(u.FirstSeen, 0).Format("2006-01-02"))
	}
	b.deliverText(msg.Chat.ID, sb.String(), fmt.Sprintf("👥 All users (%d):", len(users)))
}

func atUsername(u string) string {
	if u == "" {
		return "-"
	}
	return "@" + u
}
