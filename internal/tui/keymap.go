package tui

import (
	"slices"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap holds every binding the list view reacts to.
type keyMap struct {
	quit       key.Binding
	reload     key.Binding
	toggleHelp key.Binding
	switchList key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	addTask    key.Binding
	editTask   key.Binding
	deleteTask key.Binding
	toggleTask key.Binding
	copyTask   key.Binding
}

// KeyConfig carries user overrides for the configurable bindings. Blank keeps the default.
type KeyConfig struct {
	Add    string
	Edit   string
	Delete string
	Toggle string
	Copy   string
}

// newKeyMap constructs the default key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		switchList: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch list")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		addTask:    key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add task")),
		editTask:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		deleteTask: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		toggleTask: key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "done/reopen")),
		copyTask:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
	}
}

// applyConfig rebinds configurable actions from user config.
// A value naming the default key keeps the default aliases.
// A configured key is removed from every other binding.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	rebind(&k.addTask, cfg.Add, "a", "add task")
	rebind(&k.editTask, cfg.Edit, "e", "edit")
	rebind(&k.deleteTask, cfg.Delete, "d", "delete")
	rebind(&k.toggleTask, cfg.Toggle, "space", "done/reopen")
	rebind(&k.copyTask, cfg.Copy, "y", "copy text")

	configured := []struct {
		raw     string
		binding *key.Binding
	}{
		{cfg.Add, &k.addTask},
		{cfg.Edit, &k.editTask},
		{cfg.Delete, &k.deleteTask},
		{cfg.Toggle, &k.toggleTask},
		{cfg.Copy, &k.copyTask},
	}
	for _, owner := range configured {
		if strings.TrimSpace(owner.raw) == "" && owner.raw != " " {
			continue
		}
		claimed, _ := parseBindingKeys(owner.raw, "")
		for _, other := range configured {
			if other.binding != owner.binding {
				releaseKeys(other.binding, claimed)
			}
		}
	}
}

// releaseKeys drops claimed keys from b. The help label moves to the first remaining key,
// and a binding left with no keys is disabled.
func releaseKeys(b *key.Binding, claimed []string) {
	kept := make([]string, 0, len(b.Keys()))
	for _, k := range b.Keys() {
		if !slices.Contains(claimed, k) {
			kept = append(kept, k)
		}
	}
	if len(kept) == len(b.Keys()) {
		return
	}
	if len(kept) == 0 {
		b.SetEnabled(false)
		return
	}
	b.SetKeys(kept...)
	help := b.Help()
	if helpKey := strings.TrimSpace(help.Key); helpKey == "" || slices.Contains(claimed, helpKey) {
		label := kept[0]
		if label == " " {
			label = "space"
		}
		b.SetHelp(label, help.Desc)
	}
}

func rebind(b *key.Binding, raw, fallback, desc string) {
	keys, _ := parseBindingKeys(raw, fallback)
	defaults, _ := parseBindingKeys(fallback, fallback)
	if keys[0] == defaults[0] {
		return
	}
	configureBinding(b, raw, fallback, desc)
}

// configureBinding replaces the keys and help of one binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys maps a configured key string to matcher keys and a help label.
// Single uppercase runes also match their shift+ spelling.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := raw
	if strings.TrimSpace(value) == "" && value != " " {
		value = fallback
	}
	if value == " " || strings.EqualFold(strings.TrimSpace(value), "space") {
		return []string{" ", "space"}, "space"
	}
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) == 1 {
		lower := strings.ToLower(value)
		if lower != value {
			return []string{value, "shift+" + lower}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.toggleTask, k.editTask, k.deleteTask, k.switchList, k.toggleHelp, k.quit,
	}
}

// FullHelp returns the grouped bindings shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.editTask, k.deleteTask, k.toggleTask, k.copyTask},
		{k.moveUp, k.moveDown, k.switchList},
		{k.reload, k.toggleHelp, k.quit},
	}
}
