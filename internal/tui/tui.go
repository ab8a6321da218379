// Package tui holds the dashboard and the screens reachable from it. Every
// screen reads live state from the services in Deps on each render, so a
// RefreshMsg only needs to reach the router for the view to catch up with
// writes made by other processes.
package tui

import (
	"go.uber.org/zap"

	"codemate/internal/achievements"
	"codemate/internal/auth"
	"codemate/internal/chat"
	"codemate/internal/content"
	"codemate/internal/meta"
	"codemate/internal/practice"
	"codemate/internal/progress"
)

// Deps carries the services screens operate on.
type Deps struct {
	User         auth.Session
	Catalog      *content.Catalog
	Progress     *progress.Store
	Achievements *achievements.Engine
	Practice     *practice.Tracker
	Meta         *meta.Service
	Chat         chat.Responder
	Log          *zap.Logger
}

// RefreshMsg is emitted when a bus event arrives, locally or from another
// process. Screens re-read their state on any message, so the arrival alone
// forces the repaint.
type RefreshMsg struct {
	Event string
}
