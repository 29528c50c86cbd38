package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

// Preference keys.
const (
	KeyView     = "view"
	KeySave     = "save"
	KeyDebug    = "debug"
	KeySize     = "size"
	KeyPressure = "pressure"
)

var preferenceDefaults = map[string]interface{}{
	KeyView:     true,
	KeySave:     false,
	KeyDebug:    false,
	KeySize:     "80.0",
	KeyPressure: "360.0",
}

// Preferences are the user settings read by the recorder. Numeric values
// are stored as text and parsed on every read, so a malformed entry is
// reported where it is used instead of failing the whole file.
//
// Preferences is safe for concurrent use; the file watcher replaces the
// values from its own goroutine.
type Preferences struct {
	mu   sync.RWMutex
	k    *koanf.Koanf
	path string
	fp   *file.File
}

// LoadPreferences reads the YAML file at path over the defaults. An empty
// path yields the defaults.
func LoadPreferences(path string) (*Preferences, error) {
	k, err := loadPreferences(path)
	if err != nil {
		return nil, err
	}
	return &Preferences{k: k, path: path}, nil
}

func loadPreferences(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, val := range preferenceDefaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("%w: default %s: %w", ErrLoadConfig, key, err)
		}
	}
	if path == "" {
		return k, nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return k, nil
}

// Watch reloads the preferences whenever the file changes. A file that
// fails to load keeps the previous values. onChange may be nil.
func (p *Preferences) Watch(ctx context.Context, log logger.Logger, onChange func()) error {
	if p.path == "" {
		return nil
	}
	p.fp = file.Provider(p.path)
	return p.fp.Watch(func(_ interface{}, err error) {
		if err != nil {
			log.Warn(ctx, "preferences watch failed", logger.Error(err))
			return
		}
		if err := p.Reload(); err != nil {
			log.Warn(ctx, "preferences reload failed", logger.String("path", p.path), logger.Error(err))
			return
		}
		log.Info(ctx, "preferences reloaded", logger.String("path", p.path))
		if onChange != nil {
			onChange()
		}
	})
}

// Close stops watching the file.
func (p *Preferences) Close() error {
	if p.fp == nil {
		return nil
	}
	return p.fp.Unwatch()
}

// Reload re-reads the file.
func (p *Preferences) Reload() error {
	k, err := loadPreferences(p.path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.k = k
	p.mu.Unlock()
	return nil
}

// Set overrides a single preference in memory.
func (p *Preferences) Set(key string, val interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.k.Set(key, val)
}

// RadiusPerUnit returns the radius of a contact of size 1, before display
// density scaling.
func (p *Preferences) RadiusPerUnit() (float32, error) { return p.float(KeySize) }

// MaxPressure returns the pressure drawn as a full ring.
func (p *Preferences) MaxPressure() (float32, error) { return p.float(KeyPressure) }

func (p *Preferences) ViewHumanReadable() bool  { return p.bool(KeyView) }
func (p *Preferences) SaveHumanReadable() bool  { return p.bool(KeySave) }
func (p *Preferences) DebugHumanReadable() bool { return p.bool(KeyDebug) }

func (p *Preferences) float(key string) (float32, error) {
	p.mu.RLock()
	raw := p.k.String(key)
	p.mu.RUnlock()

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s = %q", ErrMalformedSetting, key, raw)
	}
	return float32(v), nil
}

func (p *Preferences) bool(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.k.Bool(key)
}
