package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Main menu buttons. Each one runs the command of the same meaning.
const (
	BtnFriends       = "👥 Friends"
	BtnRequests      = "📨 Requests"
	BtnNotifications = "🔔 Notifications"
	BtnReadAll       = "✅ Mark all read"
	BtnHelp          = "❓ Help"
)

// Callback data prefixes for inline request buttons
const (
	cbAccept  = "fr_accept:"
	cbDecline = "fr_decline:"
)

var buttonCommands = map[string]string{
	BtnFriends:       "friends",
	BtnRequests:      "requests",
	BtnNotifications: "notifications",
	BtnReadAll:       "readall",
	BtnHelp:          "help",
}

// MainMenuKeyboard creates the main menu keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	// Row 1 - Friends - Requests
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnFriends),
		tgbotapi.NewKeyboardButton(BtnRequests),
	))

	// Row 2 - Notifications - Read all
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnNotifications),
		tgbotapi.NewKeyboardButton(BtnReadAll),
	))

	// Row 3 - Help
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnHelp),
	))

	return tgbotapi.NewReplyKeyboard(rows...)
}

// IncomingRequestKeyboard creates accept/decline buttons for one pending request
func IncomingRequestKeyboard(requestID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Accept", fmt.Sprintf("%s%d", cbAccept, requestID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", fmt.Sprintf("%s%d", cbDecline, requestID)),
		),
	)
}

