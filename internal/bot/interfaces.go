package bot

import (
	"context"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()
	// SetCommands changes the list of commands shown in the client menu.
	SetCommands(opts ...interface{}) error
}

// Sessions persists the credentials chats logged in with.
type Sessions interface {
	SaveSession(ctx context.Context, session models.ChatSession) error
	GetSession(ctx context.Context, chatID int64) (*models.ChatSession, error)
	DeleteSession(ctx context.Context, chatID int64) error
}

// WorkspaceFactory opens the catalog state for one chat.
type WorkspaceFactory func(creds catalog.Credentials) (*catalog.Workspace, error)
