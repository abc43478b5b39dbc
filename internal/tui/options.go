package tui

import "github.com/hylla/checkoff/internal/domain"

// ConfirmConfig selects which deletes open the confirmation modal.
type ConfirmConfig struct {
	DeleteActive    bool
	DeleteCompleted bool
}

// UIConfig holds list display toggles.
type UIConfig struct {
	ShowHistory    bool
	ShowTimestamps bool
}

// RuntimeConfig holds the settings that can be applied at startup and on reload.
type RuntimeConfig struct {
	Confirm ConfirmConfig
	UI      UIConfig
	Keys    KeyConfig
}

// ReloadConfigFunc re-reads runtime settings from disk.
type ReloadConfigFunc func() (RuntimeConfig, error)

// MutationFunc observes one successful task mutation.
type MutationFunc func(action string, task domain.Task)

// ClipboardFunc writes text to the system clipboard.
type ClipboardFunc func(string) error

type Option func(*Model)

// DefaultRuntimeConfig returns the settings used when no option overrides them.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Confirm: ConfirmConfig{DeleteActive: true, DeleteCompleted: true},
		UI:      UIConfig{ShowHistory: true},
	}
}

// WithRuntimeConfig applies confirm, display and key settings.
func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		m.confirm = cfg.Confirm
		m.ui = cfg.UI
		m.keys = newKeyMap()
		m.keys.applyConfig(cfg.Keys)
		if !m.ui.ShowHistory && m.focus == listHistory {
			m.focus = listActive
		}
	}
}

// WithReloadConfigCallback makes reload also re-read runtime settings.
func WithReloadConfigCallback(fn ReloadConfigFunc) Option {
	return func(m *Model) {
		m.reloadConfig = fn
	}
}

// WithMutationCallback registers an observer for successful mutations.
func WithMutationCallback(fn MutationFunc) Option {
	return func(m *Model) {
		m.onMutation = fn
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn ClipboardFunc) Option {
	return func(m *Model) {
		if fn != nil {
			m.copyText = fn
		}
	}
}
