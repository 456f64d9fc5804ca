package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// MailCredentials is the persisted sender account used for reminder emails.
// The file holds a single "email" section.
type MailCredentials struct {
	Email SenderSection `yaml:"email"`
}

type SenderSection struct {
	SenderEmail    string `yaml:"sender_email"`
	SenderPassword string `yaml:"sender_password"`
}

func (c MailCredentials) Configured() bool {
	return strings.TrimSpace(c.Email.SenderEmail) != "" && c.Email.SenderPassword != ""
}

// LoadOrCreateMail reads the credentials file at path. A missing file is
// created with empty values and the empty credentials are returned.
func LoadOrCreateMail(path string) (MailCredentials, error) {
	var creds MailCredentials

	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := SaveMail(path, creds); err != nil {
			return MailCredentials{}, err
		}
		return creds, nil
	}
	if err != nil {
		return MailCredentials{}, fmt.Errorf("stat mail config: %w", err)
	}

	if err := cleanenv.ReadConfig(path, &creds); err != nil {
		return MailCredentials{}, fmt.Errorf("read mail config: %w", err)
	}
	return creds, nil
}

// SaveMail replaces the credentials file. The write goes through a temp file
// and a rename so a reader never sees a half-written file.
func SaveMail(path string, creds MailCredentials) error {
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode mail config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create mail config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mail-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp mail config: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod mail config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write mail config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync mail config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close mail config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace mail config: %w", err)
	}
	return nil
}
