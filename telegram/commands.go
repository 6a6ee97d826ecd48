package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/logger"
)

const (
	MsgHelp = "<b>SweatCheck</b>\n\n" +
		"/link email password - connect your account\n" +
		"/friends - your friends\n" +
		"/requests - pending friend requests\n" +
		"/add email - send a friend request\n" +
		"/accept id - accept a request\n" +
		"/decline id - decline a request\n" +
		"/cancel id - withdraw a request you sent\n" +
		"/unfriend id - remove a friend\n" +
		"/notifications - latest notifications\n" +
		"/readall - mark all notifications as read"
	MsgNotLinked   = "Your Telegram account is not linked yet. Send /link email password first."
	MsgLinkUsage   = "Usage: /link email password"
	MsgFailure     = "Something went wrong, please try again later."
	MsgUnknown     = "Unknown command. Send /help for the list."
	MsgNoFriends   = "You have no friends yet. Send /add email to invite someone."
	MsgNoRequests  = "No pending friend requests."
	MsgNoNotices   = "No notifications."
	MsgNeedsEmail  = "Usage: /add email"
	MsgNeedsNumber = "Send the number shown in the list, for example /%s 12"
)

// reply is one outgoing message
type reply struct {
	text     string
	keyboard interface{}
}

func text(s string) []reply {
	return []reply{{text: s}}
}

// runCommand executes a chat command for the Telegram user and returns the
// messages to send back. It never pushes anything to other users.
func (b *Bot) runCommand(ctx context.Context, telegramID int64, command, args string) []reply {
	args = strings.TrimSpace(args)

	switch command {
	case "start", "help":
		return []reply{{text: MsgHelp, keyboard: MainMenuKeyboard()}}
	case "link":
		return b.link(ctx, telegramID, args)
	}

	user, err := b.users.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return text(MsgNotLinked)
		}
		logger.Error("Telegram user lookup failed", "telegram_id", telegramID, "error", err)
		return text(MsgFailure)
	}

	switch command {
	case "friends":
		return b.listFriends(ctx, user)
	case "requests":
		return b.listRequests(ctx, user)
	case "add":
		if args == "" {
			return text(MsgNeedsEmail)
		}
		return outcomeReply(b.friends.SendRequest(ctx, user.ID, args))
	case "accept", "decline", "cancel", "unfriend":
		id, ok := parseID(args)
		if !ok {
			return text(fmt.Sprintf(MsgNeedsNumber, command))
		}
		return b.requestAction(ctx, command, user.ID, id)
	case "notifications":
		return b.listNotifications(ctx, user)
	case "readall":
		return outcomeReply(b.notifications.MarkAllRead(ctx, user.ID))
	default:
		return text(MsgUnknown)
	}
}

func (b *Bot) link(ctx context.Context, telegramID int64, args string) []reply {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return text(MsgLinkUsage)
	}

	user, err := b.users.LinkTelegram(ctx, telegramID, parts[0], parts[1])
	if err != nil {
		if appErr, ok := errors.As(err); ok && errors.IsBusiness(err) {
			return text("⚠️ " + html.EscapeString(appErr.Message))
		}
		logger.Error("Telegram link failed", "telegram_id", telegramID, "error", err)
		return text(MsgFailure)
	}

	return []reply{{
		text:     fmt.Sprintf("✅ Linked to <b>%s</b>.", html.EscapeString(user.Nick)),
		keyboard: MainMenuKeyboard(),
	}}
}

func (b *Bot) requestAction(ctx context.Context, command string, userID, id uint) []reply {
	switch command {
	case "accept":
		return outcomeReply(b.friends.Accept(ctx, userID, id))
	case "decline":
		return outcomeReply(b.friends.Decline(ctx, userID, id))
	case "cancel":
		return outcomeReply(b.friends.Cancel(ctx, userID, id))
	default:
		return outcomeReply(b.friends.RemoveFriend(ctx, userID, id))
	}
}

func (b *Bot) listFriends(ctx context.Context, user *models.User) []reply {
	friends, err := b.friends.ListFriends(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to list friends", "user_id", user.ID, "error", err)
		return text(MsgFailure)
	}
	if len(friends) == 0 {
		return text(MsgNoFriends)
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Your friends</b>\n")
	for _, f := range friends {
		fmt.Fprintf(&sb, "\n• %s (/unfriend %d)", html.EscapeString(f.Nick), f.ID)
	}
	return text(sb.String())
}

// listRequests sends one message per incoming request so each gets its own buttons.
func (b *Bot) listRequests(ctx context.Context, user *models.User) []reply {
	incoming, err := b.friends.ListIncoming(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to list incoming requests", "user_id", user.ID, "error", err)
		return text(MsgFailure)
	}
	outgoing, err := b.friends.ListOutgoing(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to list outgoing requests", "user_id", user.ID, "error", err)
		return text(MsgFailure)
	}
	if len(incoming) == 0 && len(outgoing) == 0 {
		return text(MsgNoRequests)
	}

	var out []reply
	for _, r := range incoming {
		out = append(out, reply{
			text:     fmt.Sprintf("📨 <b>%s</b> wants to be your friend. (#%d)", html.EscapeString(r.Nick), r.ID),
			keyboard: IncomingRequestKeyboard(r.ID),
		})
	}

	if len(outgoing) > 0 {
		var sb strings.Builder
		sb.WriteString("📤 <b>Sent requests</b>\n")
		for _, r := range outgoing {
			fmt.Fprintf(&sb, "\n• %s (/cancel %d)", html.EscapeString(r.Nick), r.ID)
		}
		out = append(out, reply{text: sb.String()})
	}
	return out
}

func (b *Bot) listNotifications(ctx context.Context, user *models.User) []reply {
	items, err := b.notifications.Render(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to render notifications", "user_id", user.ID, "error", err)
		return text(MsgFailure)
	}
	if len(items) == 0 {
		return text(MsgNoNotices)
	}

	var sb strings.Builder
	sb.WriteString("🔔 <b>Notifications</b>\n")
	for _, n := range items {
		marker := "▫️"
		if !n.IsRead {
			marker = "🆕"
		}
		fmt.Fprintf(&sb, "\n%s <i>%s</i> %s: %s", marker, n.CreatedAtText, html.EscapeString(n.TypeLabel), html.EscapeString(n.Message))
	}
	return text(sb.String())
}

// outcomeReply renders the result of a mutation. Faults are already logged by the service.
func outcomeReply(out services.Outcome, err error) []reply {
	if err != nil {
		return text(MsgFailure)
	}
	if !out.OK {
		return text("⚠️ " + html.EscapeString(out.Message))
	}
	return text("✅ " + html.EscapeString(out.Message))
}

func parseID(s string) (uint, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseCallback maps inline button data to a command and its argument.
func parseCallback(data string) (command, args string, ok bool) {
	switch {
	case strings.HasPrefix(data, cbAccept):
		return "accept", strings.TrimPrefix(data, cbAccept), true
	case strings.HasPrefix(data, cbDecline):
		return "decline", strings.TrimPrefix(data, cbDecline), true
	}
	return "", "", false
}
