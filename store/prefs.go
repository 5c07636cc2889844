package store

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
)

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	// MinReloadMs is the shortest allowed auto-reload interval.
	MinReloadMs = 2000
	// DefaultReloadMs is the auto-reload interval when none is stored.
	DefaultReloadMs = 5000
)

// Preferences are the user settings kept in the cache next to the tasks.
type Preferences struct {
	AutoSave     bool   `json:"autoSave"`
	AutoReload   bool   `json:"autoReload"`
	AutoReloadMs int    `json:"autoReloadMs" validate:"min=2000"`
	Reopen       bool   `json:"reopen"`
	Theme        Theme  `json:"theme" validate:"oneof=auto light dark"`
	LastFileName string `json:"lastFileName,omitempty"`
	LastFilePath string `json:"lastFilePath,omitempty"`
	// LastKnownModifiedMs is the optimistic concurrency token of LastFilePath.
	LastKnownModifiedMs int64 `json:"lastKnownModifiedMs,omitempty"`
	// PendingWrite is set when a run ended with local changes the bound file
	// does not have.
	PendingWrite bool `json:"pendingWrite,omitempty"`
}

// DefaultPreferences returns the settings of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		AutoSave:     true,
		AutoReload:   false,
		AutoReloadMs: DefaultReloadMs,
		Reopen:       false,
		Theme:        ThemeAuto,
	}
}

// PrefStore reads and writes Preferences as individual cache keys.
type PrefStore struct {
	cache    Cache
	defaults Preferences
}

// NewPrefStore returns a PrefStore backed by c.
func NewPrefStore(c Cache) *PrefStore {
	return &PrefStore{cache: c, defaults: DefaultPreferences()}
}

// SetDefaultReloadMs changes the interval Load reports while the user has
// not stored one. Non-positive values are ignored.
func (p *PrefStore) SetDefaultReloadMs(ms int) {
	if ms > 0 {
		p.defaults.AutoReloadMs = ClampReloadMs(ms)
	}
}

// SettableKeys lists the keys accepted by Set, in display order.
var SettableKeys = []string{KeyAutoSave, KeyAutoReload, KeyAutoReloadMs, KeyReopen, KeyTheme}

// Load returns the stored preferences, falling back to defaults for missing
// or unparsable values.
func (p *PrefStore) Load() (Preferences, error) {
	prefs := p.defaults

	get := func(key string) (string, bool, error) {
		v, ok, err := p.cache.Get(key)
		if err != nil {
			return "", false, types.NewError(types.KindStorage, "read preference "+key, err)
		}
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != "", nil
	}

	for _, key := range []string{KeyAutoSave, KeyAutoReload, KeyReopen} {
		v, ok, err := get(key)
		if err != nil {
			return prefs, err
		}
		if !ok {
			continue
		}
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			continue
		}
		switch key {
		case KeyAutoSave:
			prefs.AutoSave = b
		case KeyAutoReload:
			prefs.AutoReload = b
		case KeyReopen:
			prefs.Reopen = b
		}
	}

	if v, ok, err := get(KeyAutoReloadMs); err != nil {
		return prefs, err
	} else if ok {
		if ms, perr := strconv.Atoi(v); perr == nil {
			prefs.AutoReloadMs = ClampReloadMs(ms)
		}
	}

	if v, ok, err := get(KeyTheme); err != nil {
		return prefs, err
	} else if ok {
		if t, perr := ParseTheme(v); perr == nil {
			prefs.Theme = t
		}
	}

	if v, ok, err := get(KeyLastFilePath); err != nil {
		return prefs, err
	} else if ok {
		prefs.LastFilePath = v
	}
	if v, ok, err := get(KeyLastFileName); err != nil {
		return prefs, err
	} else if ok {
		prefs.LastFileName = v
	}
	if v, ok, err := get(KeyLastKnownModifiedMs); err != nil {
		return prefs, err
	} else if ok {
		if ms, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			prefs.LastKnownModifiedMs = ms
		}
	}
	if v, ok, err := get(KeyPendingWrite); err != nil {
		return prefs, err
	} else if ok {
		prefs.PendingWrite, _ = strconv.ParseBool(v)
	}

	return prefs, nil
}

// Save validates and writes every preference.
func (p *PrefStore) Save(prefs Preferences) error {
	if err := models.ValidateStruct(prefs); err != nil {
		return types.NewError(types.KindValidation, "invalid preferences", err)
	}
	values := map[string]string{
		KeyAutoSave:     strconv.FormatBool(prefs.AutoSave),
		KeyAutoReload:   strconv.FormatBool(prefs.AutoReload),
		KeyAutoReloadMs: strconv.Itoa(prefs.AutoReloadMs),
		KeyReopen:       strconv.FormatBool(prefs.Reopen),
		KeyTheme:        string(prefs.Theme),
	}
	for _, key := range SettableKeys {
		if err := p.cache.Set(key, values[key]); err != nil {
			return types.NewError(types.KindStorage, "write preference "+key, err)
		}
	}
	if err := p.SaveBinding(prefs.LastFilePath, prefs.LastKnownModifiedMs); err != nil {
		return err
	}
	if prefs.LastFilePath == "" {
		return nil
	}
	return p.SavePendingWrite(prefs.PendingWrite)
}

// Reset restores every user-settable preference to its default. The file
// binding is kept.
func (p *PrefStore) Reset() (Preferences, error) {
	current, err := p.Load()
	if err != nil {
		return current, err
	}
	prefs := p.defaults
	prefs.LastFileName = current.LastFileName
	prefs.LastFilePath = current.LastFilePath
	prefs.LastKnownModifiedMs = current.LastKnownModifiedMs
	prefs.PendingWrite = current.PendingWrite
	if err := p.Save(prefs); err != nil {
		return current, err
	}
	return prefs, nil
}

// Set parses and stores a single user-settable preference.
func (p *PrefStore) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var stored string
	switch key {
	case KeyAutoSave, KeyAutoReload, KeyReopen:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return types.ValidationError("%s must be true or false, got %q", key, value)
		}
		stored = strconv.FormatBool(b)
	case KeyAutoReloadMs:
		ms, err := strconv.Atoi(value)
		if err != nil {
			return types.ValidationError("%s must be a number of milliseconds, got %q", key, value)
		}
		stored = strconv.Itoa(ClampReloadMs(ms))
	case KeyTheme:
		t, err := ParseTheme(value)
		if err != nil {
			return types.NewError(types.KindValidation, "", err)
		}
		stored = string(t)
	default:
		return types.ValidationError("unknown preference %q (valid: %s)", key, strings.Join(SettableKeys, ", "))
	}
	if err := p.cache.Set(key, stored); err != nil {
		return types.NewError(types.KindStorage, "write preference "+key, err)
	}
	return nil
}

// SaveBinding records the bound file and its concurrency token. An empty
// path clears them.
func (p *PrefStore) SaveBinding(path string, lastKnownMs int64) error {
	if path == "" {
		for _, key := range []string{KeyLastFilePath, KeyLastFileName, KeyLastKnownModifiedMs, KeyPendingWrite} {
			if err := p.cache.Delete(key); err != nil {
				return types.NewError(types.KindStorage, "clear preference "+key, err)
			}
		}
		return nil
	}
	values := [][2]string{
		{KeyLastFilePath, path},
		{KeyLastFileName, filepath.Base(path)},
		{KeyLastKnownModifiedMs, strconv.FormatInt(lastKnownMs, 10)},
	}
	for _, kv := range values {
		if err := p.cache.Set(kv[0], kv[1]); err != nil {
			return types.NewError(types.KindStorage, "write preference "+kv[0], err)
		}
	}
	return nil
}

// SavePendingWrite records whether the bound file is missing local changes.
func (p *PrefStore) SavePendingWrite(pending bool) error {
	if err := p.cache.Set(KeyPendingWrite, strconv.FormatBool(pending)); err != nil {
		return types.NewError(types.KindStorage, "write preference "+KeyPendingWrite, err)
	}
	return nil
}

// ClampReloadMs enforces the minimum auto-reload interval.
func ClampReloadMs(ms int) int {
	if ms < MinReloadMs {
		return MinReloadMs
	}
	return ms
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeAuto, ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("invalid theme %q: must be auto, light or dark", s)
}
