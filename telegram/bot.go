package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/logger"
)

const (
	workerCount    = 10
	commandTimeout = 15 * time.Second
)

// Bot is a pull-only chat front-end: it answers commands and never
// messages a user first.
type Bot struct {
	api    *tgbotapi.BotAPI
	config *config.Config

	users         *services.UserService
	friends       *services.FriendService
	notifications *services.NotificationService

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
	workers     sync.WaitGroup
	done        chan struct{}
	stopOnce    sync.Once
	closeOnce   sync.Once
}

func newBot(cfg *config.Config, users *services.UserService, friends *services.FriendService, notifications *services.NotificationService) *Bot {
	return &Bot{
		config:        cfg,
		users:         users,
		friends:       friends,
		notifications: notifications,
		done:          make(chan struct{}),
	}
}

func InitBot(cfg *config.Config, users *services.UserService, friends *services.FriendService, notifications *services.NotificationService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	bot := newBot(cfg, users, friends, notifications)
	bot.api = api
	bot.startWorkers(workerCount)

	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startWorkers(n int) {
	b.workerChans = make([]chan tgbotapi.Update, n)
	for i := 0; i < n; i++ {
		b.workerChans[i] = make(chan tgbotapi.Update, 100)
		b.workers.Add(1)
		go b.startWorker(b.workerChans[i])
	}
}

// closeWorkers lets every worker drain its queue and exit. Only the update
// listener sends to the queues, so it is the one that closes them.
func (b *Bot) closeWorkers() {
	b.closeOnce.Do(func() {
		for _, ch := range b.workerChans {
			close(ch)
		}
	})
}

func (b *Bot) startUpdateListener() {
	defer b.closeWorkers()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			b.dispatch(update)
		}

		select {
		case <-b.done:
			return
		default:
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		select {
		case <-b.done:
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// dispatch queues an update on its user's worker. Hashing keeps each user's
// updates in order.
func (b *Bot) dispatch(update tgbotapi.Update) {
	var userID int64
	if update.Message != nil && update.Message.From != nil {
		userID = update.Message.From.ID
	} else if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		userID = update.CallbackQuery.From.ID
	}

	if userID == 0 {
		return
	}

	workerIdx := userID % int64(len(b.workerChans))
	if workerIdx < 0 {
		workerIdx = -workerIdx
	}
	b.workerChans[workerIdx] <- update
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	defer b.workers.Done()
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	logger.Debug("Received message", "user_id", userID, "is_command", message.IsCommand())

	var command, args string
	if message.IsCommand() {
		command, args = message.Command(), message.CommandArguments()
	} else if cmd, ok := buttonCommands[strings.TrimSpace(message.Text)]; ok {
		command = cmd
	} else {
		b.sendMessage(message.Chat.ID, MsgHelp, MainMenuKeyboard())
		return
	}

	// The link command carries a password; keep it out of the chat history.
	if command == "link" {
		b.DeleteMessage(message.Chat.ID, message.MessageID)
	}

	for _, r := range b.runCommand(ctx, userID, command, args) {
		b.sendMessage(message.Chat.ID, r.text, r.keyboard)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	b.AnswerCallbackQuery(query.ID, "", false)

	logger.Debug("Callback query", "data", query.Data, "user_id", query.From.ID)

	command, args, ok := parseCallback(query.Data)
	if !ok || query.Message == nil {
		return
	}

	// Remove the buttons so the request cannot be answered twice from this message
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		logger.Warn("Failed to clear inline keyboard", "error", err)
	}

	for _, r := range b.runCommand(ctx, query.From.ID, command, args) {
		b.sendMessage(query.Message.Chat.ID, r.text, r.keyboard)
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := b.api.Request(deleteMsg); err != nil {
		logger.Error("Failed to delete message", "chat_id", chatID, "msg_id", messageID, "error", err)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

// Stop ends polling. The listener then closes the worker queues, and each
// worker exits once its queue is drained.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		if b.api != nil {
			b.api.StopReceivingUpdates()
		}
		logger.Info("Bot stopped receiving updates")
	})
}

// Wait blocks until every worker has exited or ctx is done.
func (b *Bot) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		b.workers.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
