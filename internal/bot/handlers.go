package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"gopkg.in/telebot.v4"
)

const (
	helpText = `Rental catalog bot.

/login <token> [owner id] - sign in
/logout - sign out
/cameras [search] - browse cameras
/accessories [search] - browse accessories
/brand [name] - filter by brand, without a name lists brands
/sort <field> [asc|desc] - sort the list
/page <n> - go to page n
/refresh - reload the list
/compare_add <id>, /compare_remove <id>, /compare_clear - edit the comparison
/compare - compare up to 3 selected items`
	failureText = "Something went wrong, please try again later."
)

// action answers a command for a chat with the text to send back.
type action func(ctx context.Context, chatID int64, args []string) (string, error)

// startHandler process command /start.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", ctx.Sender().Username)

	if err := ctx.Send(helpText); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

// wrap turns an action into a telebot handler. Action errors are logged and
// answered with a generic message.
func (b *Bot) wrap(name string, act action) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		text, err := act(ctx, c.Chat().ID, c.Args())
		if err != nil {
			b.log.ErrorContext(ctx, "Command failed", "command", name, "chat", c.Chat().ID, "error", err)
			text = failureText
		}

		if err = c.Send(text); err != nil {
			return fmt.Errorf("failed to send %s reply: %w", name, err)
		}

		return nil
	}
}

// withChat runs fn with the chat state locked.
func (b *Bot) withChat(ctx context.Context, chatID int64, fn func(ch *chat) (string, error)) (string, error) {
	ch, err := b.chatFor(ctx, chatID)
	if err != nil {
		return "", err
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	return fn(ch)
}

func (b *Bot) login(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "Usage: /login <token> [owner id]", nil
	}

	token, owner := args[0], ""
	if len(args) == 2 {
		owner = args[1]
	}

	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		err := b.sessions.SaveSession(ctx, models.ChatSession{ChatID: chatID, Token: token, OwnerID: owner})
		if err != nil {
			return "", fmt.Errorf("failed to save session: %w", err)
		}

		ch.reset()
		ch.creds.Login(token, owner)
		b.log.InfoContext(ctx, "Chat logged in", "chat", chatID, "owner", owner)

		if owner != "" {
			return fmt.Sprintf("Logged in. Showing items of owner %s.", owner), nil
		}
		return "Logged in.", nil
	})
}

func (b *Bot) logout(ctx context.Context, chatID int64, _ []string) (string, error) {
	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		if !ch.creds.LoggedIn() {
			return "You are not logged in.", nil
		}

		// The stored session goes first so a failed delete leaves the chat logged in.
		if err := b.sessions.DeleteSession(ctx, chatID); err != nil {
			return "", fmt.Errorf("failed to delete session: %w", err)
		}

		ch.creds.Logout()
		ch.reset()
		b.log.InfoContext(ctx, "Chat logged out", "chat", chatID)

		return "Logged out.", nil
	})
}

// listKind switches the chat to kind, sets the search text from args and shows page 1.
func (b *Bot) listKind(kind models.Kind) action {
	return func(ctx context.Context, chatID int64, args []string) (string, error) {
		return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
			ch.kind = kind
			ch.query().SetSearch(strings.Join(args, " "))
			return ch.active().page(ctx, ch.query().Params()), nil
		})
	}
}

func (b *Bot) brand(ctx context.Context, chatID int64, args []string) (string, error) {
	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		if len(args) == 0 {
			brands, loadErr := ch.active().brands(ctx)
			if loadErr != "" && len(brands) == 1 {
				return fmt.Sprintf("Could not load %s: %s", ch.kind, loadErr), nil
			}
			return "Brands: " + strings.Join(brands, ", "), nil
		}

		ch.query().SetBrand(strings.Join(args, " "))
		return ch.active().page(ctx, ch.query().Params()), nil
	})
}

func (b *Bot) sort(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "Usage: /sort <field> [asc|desc]", nil
	}

	key, ok := catalog.ParseSortKey(args[0])
	if !ok {
		return "Unknown field. Sortable fields: brand, model, variant, serialNumber, branch, " +
			"baseDailyRate, estimatedValue, depositPercentage.", nil
	}
	dir := catalog.Ascending
	if len(args) == 2 {
		dir = catalog.ParseDirection(args[1])
	}

	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		ch.query().SetSort(key, dir)
		return ch.active().page(ctx, ch.query().Params()), nil
	})
}

func (b *Bot) page(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "Usage: /page <n>", nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "Page must be a number.", nil
	}

	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		ch.query().SetPage(n)
		return ch.active().page(ctx, ch.query().Params()), nil
	})
}

func (b *Bot) refresh(ctx context.Context, chatID int64, _ []string) (string, error) {
	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		return ch.active().refresh(ctx, ch.query().Params()), nil
	})
}

func (b *Bot) compareAdd(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "Usage: /compare_add <id>", nil
	}

	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		sel := ch.active().selection()
		switch {
		case sel.Contains(args[0]):
			return fmt.Sprintf("%s is already selected.", args[0]), nil
		case !sel.Add(args[0]):
			return fmt.Sprintf("You can compare at most %d items.", catalog.MaxCompared), nil
		}
		return fmt.Sprintf("Selected %d of %d.", sel.Len(), catalog.MaxCompared), nil
	})
}

func (b *Bot) compareRemove(ctx context.Context, chatID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "Usage: /compare_remove <id>", nil
	}

	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		if !ch.active().selection().Remove(args[0]) {
			return fmt.Sprintf("%s is not selected.", args[0]), nil
		}
		return "Removed.", nil
	})
}

func (b *Bot) compareClear(ctx context.Context, chatID int64, _ []string) (string, error) {
	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		ch.active().selection().Clear()
		return "Comparison cleared.", nil
	})
}

func (b *Bot) compare(ctx context.Context, chatID int64, _ []string) (string, error) {
	return b.withChat(ctx, chatID, func(ch *chat) (string, error) {
		return ch.active().compare(ctx), nil
	})
}
