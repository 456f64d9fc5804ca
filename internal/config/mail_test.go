package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOrCreateMailCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mail.yaml")

	creds, err := LoadOrCreateMail(path)
	if err != nil {
		t.Fatalf("load mail config: %v", err)
	}
	if creds.Configured() {
		t.Fatalf("expected empty credentials, got %#v", creds)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read created file: %v", err)
	}
	for _, key := range []string{"email:", "sender_email:", "sender_password:"} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %q in created file, got:\n%s", key, data)
		}
	}
}

func TestSaveMailThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mail.yaml")
	want := MailCredentials{Email: SenderSection{
		SenderEmail:    "bot@example.com",
		SenderPassword: "s3cret",
	}}

	if err := SaveMail(path, want); err != nil {
		t.Fatalf("save mail config: %v", err)
	}
	got, err := LoadOrCreateMail(path)
	if err != nil {
		t.Fatalf("load mail config: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected credentials: %#v", got)
	}
	if !got.Configured() {
		t.Fatal("expected credentials to be configured")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestMailCredentialsConfigured(t *testing.T) {
	tests := []struct {
		name  string
		creds MailCredentials
		want  bool
	}{
		{"empty", MailCredentials{}, false},
		{"only address", MailCredentials{Email: SenderSection{SenderEmail: "a@b.c"}}, false},
		{"only secret", MailCredentials{Email: SenderSection{SenderPassword: "x"}}, false},
		{"blank address", MailCredentials{Email: SenderSection{SenderEmail: "  ", SenderPassword: "x"}}, false},
		{"both", MailCredentials{Email: SenderSection{SenderEmail: "a@b.c", SenderPassword: "x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Configured(); got != tt.want {
				t.Fatalf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
