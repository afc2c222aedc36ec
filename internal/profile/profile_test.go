package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/slackvault/internal/config"
)

func TestBaseDirDefault(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, _ := os.UserHomeDir()
	if got, want := Dir("main"), filepath.Join(home, ".slackvault", "profiles", "main"); got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv(HomeEnv, "/srv/vault")

	tests := []struct {
		got, want string
	}{
		{SocketPath("ops"), "/srv/vault/profiles/ops/daemon.sock"},
		{LockPath("ops"), "/srv/vault/profiles/ops/LOCK"},
		{ArchiveDBPath("ops"), "/srv/vault/profiles/ops/archive.db"},
		{LogPath("ops"), "/srv/vault/profiles/ops/logs/vaultd.log"},
		{ConfigPath(), "/srv/vault/config.toml"},
		{EnvPath(), "/srv/vault/.env"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(LogDir("test"))
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("log dir is not a directory")
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	if got := Resolve("flag"); got != "flag" {
		t.Errorf("Resolve(flag) = %q", got)
	}
	if got := Resolve(""); got != DefaultName {
		t.Errorf("Resolve without config = %q, want %q", got, DefaultName)
	}

	cfg := config.Defaults()
	cfg.DefaultProfile = "archive2019"
	if err := config.Save(ConfigPath(), cfg); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(""); got != "archive2019" {
		t.Errorf("Resolve with config = %q, want archive2019", got)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with numbers", "work123", false},
		{"valid with hyphen", "my-archive", false},
		{"valid with underscore", "my_archive", false},
		{"valid max length", strings.Repeat("a", 64), false},
		{"empty", "", true},
		{"uppercase", "Main", true},
		{"space", "my archive", true},
		{"dot", "my.archive", true},
		{"too long", strings.Repeat("a", 65), true},
		{"slash", "my/archive", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
