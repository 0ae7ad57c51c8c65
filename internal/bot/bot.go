package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/repository"
	"github.com/Houeta/rentcatalog/internal/session"
	"gopkg.in/telebot.v4"
)

// handlerTimeout bounds the work done for a single update.
const handlerTimeout = 30 * time.Second

// Bot contains the bot API instance and other information.
type Bot struct {
	bot      API
	log      *slog.Logger
	sessions Sessions
	open     WorkspaceFactory
	pageSize int

	mu    sync.Mutex
	chats map[int64]*chat
}

func NewBot(
	log *slog.Logger,
	token string,
	poller time.Duration,
	sessions Sessions,
	open WorkspaceFactory,
	pageSize int,
) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	botInstance := newBot(bot, log, sessions, open, pageSize)

	botInstance.registerRoutes()

	return botInstance, nil
}

func newBot(api API, log *slog.Logger, sessions Sessions, open WorkspaceFactory, pageSize int) *Bot {
	return &Bot{
		bot:      api,
		log:      log,
		sessions: sessions,
		open:     open,
		pageSize: pageSize,
		chats:    make(map[int64]*chat),
	}
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and drops every chat workspace.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.chats {
		ch.mu.Lock()
		ch.ws.Close()
		ch.mu.Unlock()
		delete(b.chats, id)
	}
}

//nolint:gochecknoglobals // command menu
var commands = []telebot.Command{
	{Text: "start", Description: "Show help"},
	{Text: "login", Description: "Sign in: /login <token> [owner id]"},
	{Text: "logout", Description: "Sign out and forget cached data"},
	{Text: "cameras", Description: "List cameras: /cameras [search]"},
	{Text: "accessories", Description: "List accessories: /accessories [search]"},
	{Text: "brand", Description: "Filter by brand: /brand [name]"},
	{Text: "sort", Description: "Sort: /sort <field> [asc|desc]"},
	{Text: "page", Description: "Go to page: /page <n>"},
	{Text: "refresh", Description: "Reload the current list"},
	{Text: "compare_add", Description: "Add an item to comparison"},
	{Text: "compare_remove", Description: "Remove an item from comparison"},
	{Text: "compare_clear", Description: "Clear the comparison"},
	{Text: "compare", Description: "Compare selected items"},
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	if err := b.bot.SetCommands(commands); err != nil {
		b.log.Warn("Failed to set command menu", "error", err)
	}

	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/login", b.wrap("login", b.login))
	b.bot.Handle("/logout", b.wrap("logout", b.logout))

	// Catalog routes.
	b.bot.Handle("/cameras", b.wrap("cameras", b.listKind(models.KindCamera)))
	b.bot.Handle("/accessories", b.wrap("accessories", b.listKind(models.KindAccessory)))
	b.bot.Handle("/brand", b.wrap("brand", b.brand))
	b.bot.Handle("/sort", b.wrap("sort", b.sort))
	b.bot.Handle("/page", b.wrap("page", b.page))
	b.bot.Handle("/refresh", b.wrap("refresh", b.refresh))
	b.bot.Handle("/compare_add", b.wrap("compare_add", b.compareAdd))
	b.bot.Handle("/compare_remove", b.wrap("compare_remove", b.compareRemove))
	b.bot.Handle("/compare_clear", b.wrap("compare_clear", b.compareClear))
	b.bot.Handle("/compare", b.wrap("compare", b.compare))
}

// chatFor returns the state of chatID, restoring a saved login on first contact.
func (b *Bot) chatFor(ctx context.Context, chatID int64) (*chat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.chats[chatID]; ok {
		return ch, nil
	}

	creds := &session.Session{}
	saved, err := b.sessions.GetSession(ctx, chatID)
	switch {
	case err == nil:
		creds.Login(saved.Token, saved.OwnerID)
	case errors.Is(err, repository.ErrSessionNotFound):
	default:
		return nil, fmt.Errorf("failed to restore session for chat %d: %w", chatID, err)
	}

	ws, err := b.open(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace for chat %d: %w", chatID, err)
	}

	ch := newChat(creds, ws, b.pageSize)
	b.chats[chatID] = ch
	return ch, nil
}

var _ catalog.Credentials = (*session.Session)(nil)
