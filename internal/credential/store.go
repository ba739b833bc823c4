package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	ConfigDirName = "rosechat"
	FileName      = "credentials.json"

	// Credentials are secrets, keep them owner-only.
	DirPermission  = 0755
	FilePermission = 0600
)

// Credentials holds the API keys the chat session needs. The Gemini key
// serves both text generation and speech synthesis.
type Credentials struct {
	GeminiAPIKey     string `json:"geminiApiKey"`
	ElevenLabsAPIKey string `json:"elevenLabsApiKey,omitempty"`
}

// Store reads and writes credentials at a fixed path on disk.
type Store struct {
	path string
}

// NewStore places the credential file under the user config directory
// (~/.config/rosechat/credentials.json on Linux).
func NewStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return NewStoreAt(filepath.Join(base, ConfigDirName, FileName)), nil
}

// NewStoreAt uses an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored credentials. A missing file is not an error; it
// yields empty credentials.
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", s.path).Msg("No credential file found")
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return &creds, nil
}

// Save writes the credentials, creating the config directory if needed.
func (s *Store) Save(creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), DirPermission); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, FilePermission); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	log.Debug().Str("path", s.path).Msg("Saved credentials")
	return nil
}

// Clear removes the credential file. Clearing an absent file is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

// Mask renders a key for display, keeping only the last four characters.
func Mask(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
