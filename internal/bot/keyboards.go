package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const (
	btnCreateQuiz   = "📝 Create Quiz"
	btnExtractQuiz  = "📥 Extract Quizzes from Forwards"
	btnHelp         = "❓ Help"
	btnAdminPanel   = "👑 Admin Panel"
	btnListAllowed  = "📋 List Allowed Users"
	btnListAllUsers = "👥 List All Users"
	btnAllowUser    = "✅ Allow User"
	btnRemoveUser   = "❌ Remove User"
	btnBackToMain   = "⬅️ Back to Main Menu"
)

const (
	cbFinishExtraction = "finish_extraction"
	cbCancelExtraction = "cancel_extraction"
	cbShowQuestions    = "show_questions"
	cbCancelProcessing = "cancel_processing"
)

// mainKeyboard is the persistent reply keyboard; admins get an extra row.
func mainKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCreateQuiz)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnExtractQuiz)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnHelp)),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnAdminPanel)))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnListAllowed),
			tgbotapi.NewKeyboardButton(btnListAllUsers),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAllowUser),
			tgbotapi.NewKeyboardButton(btnRemoveUser),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBackToMain)),
	)
}

func collectKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Finish Extraction", cbFinishExtraction),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancelExtraction),
		),
	)
}

func processingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Show Extracted Questions", cbShowQuestions),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancelProcessing),
		),
	)
}
