// Package credentials persists filegatectl connection contexts: a server
// URL and the API key to present to it.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	// DefaultConfigDir is the directory under the user config home.
	DefaultConfigDir = "filegatectl"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.json"
	// FilePermissions keeps API keys readable by the owner only.
	FilePermissions = 0o600
	// DirPermissions for config directories.
	DirPermissions = 0o700
)

var (
	// ErrNoCurrentContext indicates no context is currently selected.
	ErrNoCurrentContext = errors.New("no current context set - run 'filegatectl login' first")
	// ErrContextNotFound indicates the requested context doesn't exist.
	ErrContextNotFound = errors.New("context not found")
)

// Context is one filegate server.
type Context struct {
	ServerURL string `json:"server_url"`
	APIKey    string `json:"api_key,omitempty"`
	// AuthHeader overrides the header the key is sent in.
	AuthHeader string `json:"auth_header,omitempty"`
}

// Preferences holds user defaults for filegatectl.
type Preferences struct {
	DefaultOutput string `json:"default_output,omitempty"` // table, json, yaml
}

// Config is the on-disk filegatectl configuration.
type Config struct {
	CurrentContext string              `json:"current_context"`
	Contexts       map[string]*Context `json:"contexts"`
	Preferences    Preferences         `json:"preferences,omitempty"`
}

// Store reads and writes the configuration file. It is not safe for
// concurrent use.
type Store struct {
	path   string
	config *Config
}

// NewStore opens the store at $XDG_CONFIG_HOME/filegatectl/config.json
// (or ~/.config/...). A missing file yields an empty store.
func NewStore() (*Store, error) {
	path, err := defaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Open opens the store at path.
func Open(path string) (*Store, error) {
	s := &Store{path: path, config: &Config{Contexts: map[string]*Context{}}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, s.config); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if s.config.Contexts == nil {
		s.config.Contexts = map[string]*Context{}
	}
	return s, nil
}

func defaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, DefaultConfigDir, ConfigFileName), nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), DirPermissions); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, FilePermissions)
}

// Current returns the selected context and its name.
func (s *Store) Current() (string, *Context, error) {
	name := s.config.CurrentContext
	if name == "" {
		return "", nil, ErrNoCurrentContext
	}
	ctx, ok := s.config.Contexts[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrContextNotFound, name)
	}
	return name, ctx, nil
}

// Get returns the named context.
func (s *Store) Get(name string) (*Context, error) {
	ctx, ok := s.config.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, name)
	}
	return ctx, nil
}

// List returns the sorted context names.
func (s *Store) List() []string {
	names := make([]string, 0, len(s.config.Contexts))
	for name := range s.config.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save creates or replaces a context and makes it current.
func (s *Store) Save(name string, ctx *Context) error {
	s.config.Contexts[name] = ctx
	s.config.CurrentContext = name
	return s.save()
}

// Use selects an existing context.
func (s *Store) Use(name string) error {
	if _, ok := s.config.Contexts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrContextNotFound, name)
	}
	s.config.CurrentContext = name
	return s.save()
}

// Delete removes a context, clearing the selection if it was current.
func (s *Store) Delete(name string) error {
	if _, ok := s.config.Contexts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrContextNotFound, name)
	}
	delete(s.config.Contexts, name)
	if s.config.CurrentContext == name {
		s.config.CurrentContext = ""
	}
	return s.save()
}

// Preferences returns the user preferences.
func (s *Store) Preferences() Preferences {
	return s.config.Preferences
}

// SetPreferences updates the user preferences.
func (s *Store) SetPreferences(prefs Preferences) error {
	s.config.Preferences = prefs
	return s.save()
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}
