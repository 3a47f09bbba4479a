package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/readitfortheplot/internal/settings"
)

type fakeActions struct {
	Calls  []string
	Refs   []string
	Update SettingsUpdate
}

func (f *fakeActions) Translate(ctx context.Context, ref string) error {
	f.Calls = append(f.Calls, "translate")
	f.Refs = append(f.Refs, ref)
	return nil
}

func (f *fakeActions) Serve(ctx context.Context) error {
	f.Calls = append(f.Calls, "serve")
	return nil
}

func (f *fakeActions) ShowSettings(ctx context.Context) error {
	f.Calls = append(f.Calls, "settings show")
	return nil
}

func (f *fakeActions) SaveSettings(ctx context.Context, update SettingsUpdate) error {
	f.Calls = append(f.Calls, "settings save")
	f.Update = update
	return nil
}

func (f *fakeActions) ClearCache(ctx context.Context) error {
	f.Calls = append(f.Calls, "cache clear")
	return nil
}

func (f *fakeActions) CacheStats(ctx context.Context) error {
	f.Calls = append(f.Calls, "cache stats")
	return nil
}

func (f *fakeActions) ListModels(ctx context.Context) error {
	f.Calls = append(f.Calls, "list models")
	return nil
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func execute(t *testing.T, args ...string) (*Flags, *fakeActions) {
	t.Helper()
	resetViper(t)

	flags := NewFlags()
	actions := &fakeActions{}
	cmd := CreateRootCommand(flags, actions)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return flags, actions
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)
	cmd := CreateRootCommand(NewFlags(), &fakeActions{})

	// Test basic command properties
	if cmd.Use != "readitfortheplot" {
		t.Errorf("Expected Use to be 'readitfortheplot', got %s", cmd.Use)
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"log-mode", true},
		{"quiet", true},
		{"store", true},
		{"store-dir", true},
		{"ocr-base-url", true},
		{"ocr-model", true},
		{"translation-provider", true},
		{"translation-model", true},
		{"list-models", false},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}

	// Test that subcommands exist
	for _, path := range [][]string{
		{"translate"}, {"serve"}, {"settings", "show"}, {"settings", "save"},
		{"cache", "clear"}, {"cache", "stats"},
	} {
		sub, _, err := cmd.Find(path)
		if err != nil || sub == cmd {
			t.Errorf("Expected subcommand %v to exist", path)
		}
	}
}

func TestCommandsDispatch(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"translate", "page.png"}, "translate"},
		{[]string{"serve"}, "serve"},
		{[]string{"settings", "show"}, "settings show"},
		{[]string{"settings", "save"}, "settings save"},
		{[]string{"cache", "clear"}, "cache clear"},
		{[]string{"cache", "stats"}, "cache stats"},
		{[]string{"--list-models"}, "list models"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, actions := execute(t, tt.args...)
			if !reflect.DeepEqual(actions.Calls, []string{tt.want}) {
				t.Errorf("Calls = %v, want [%s]", actions.Calls, tt.want)
			}
		})
	}
}

func TestTranslateFlags(t *testing.T) {
	flags, actions := execute(t, "translate", "https://example.com/a.png",
		"-o", "out.png", "--original", "--source", "ja", "--target", "de", "--no-cache")

	if actions.Refs[0] != "https://example.com/a.png" {
		t.Errorf("Translate ref = %q", actions.Refs[0])
	}
	if flags.Output != "out.png" || !flags.ShowOriginal || !flags.NoCache {
		t.Errorf("unexpected flags %+v", flags)
	}
	if flags.SourceLanguage != "ja" || flags.TargetLanguage != "de" {
		t.Errorf("languages = %q/%q", flags.SourceLanguage, flags.TargetLanguage)
	}
}

func TestTranslateRequiresImage(t *testing.T) {
	resetViper(t)
	cmd := CreateRootCommand(NewFlags(), &fakeActions{})
	cmd.SetArgs([]string{"translate"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err == nil {
		t.Error("expected error without image argument")
	}
}

func TestSettingsSaveUpdate(t *testing.T) {
	_, actions := execute(t, "settings", "save", "--ocr-key", "sk-1", "--target", "fr", "--enable-cache=false")

	u := actions.Update
	if u.OCRKey == nil || *u.OCRKey != "sk-1" {
		t.Errorf("OCRKey = %v", u.OCRKey)
	}
	if u.TargetLanguage == nil || *u.TargetLanguage != "fr" {
		t.Errorf("TargetLanguage = %v", u.TargetLanguage)
	}
	if u.EnableCache == nil || *u.EnableCache {
		t.Errorf("EnableCache = %v", u.EnableCache)
	}
	if u.TranslationKey != nil || u.SourceLanguage != nil || u.ShowButtons != nil {
		t.Errorf("unset flags must stay nil: %+v", u)
	}

	got := u.Apply(settings.Settings{TranslationKey: "AIza", SourceLanguage: "auto", TargetLanguage: "en", EnableCache: true, ShowButtons: true})
	want := settings.Settings{OCRKey: "sk-1", TranslationKey: "AIza", SourceLanguage: "auto", TargetLanguage: "fr", EnableCache: false, ShowButtons: true}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `store:
  backend: sqlite
translation:
  provider: openai
  api_key: config-key`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T) {
				cfg := LoadConfig()
				if cfg.StoreBackend != "sqlite" {
					t.Errorf("StoreBackend = %q, want sqlite", cfg.StoreBackend)
				}
				if cfg.TranslationProvider != "openai" {
					t.Errorf("TranslationProvider = %q, want openai", cfg.TranslationProvider)
				}
			},
		},
		{
			name:      "without config file",
			setupFunc: func(t *testing.T) string { return "" },
			check: func(t *testing.T) {
				cfg := LoadConfig()
				if cfg.OCRModel != "deepseek-chat" {
					t.Errorf("OCRModel = %q, want default", cfg.OCRModel)
				}
				if cfg.StoreDir == "" {
					t.Error("StoreDir should default to a state directory")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Chdir(t.TempDir())

			InitConfig(tt.setupFunc(t))
			tt.check(t)

			// Test environment variable prefix
			t.Setenv("READITFORTHEPLOT_SERVER_ADDR", ":9999")
			if viper.GetString("server.addr") != ":9999" {
				t.Error("Environment variable not properly loaded")
			}
		})
	}
}

func TestGetOCRKey(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "config-test-key", "env-test-key"},
		{"from config when no env", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv("DEEPSEEK_API_KEY", tt.envKey)
			if tt.configKey != "" {
				viper.Set("ocr.api_key", tt.configKey)
			}

			if got := GetOCRKey(); got != tt.expected {
				t.Errorf("GetOCRKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetTranslationKey(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		env       map[string]string
		configKey string
		expected  string
	}{
		{"gemini from environment", "gemini", map[string]string{"GEMINI_API_KEY": "g-key", "OPENAI_API_KEY": "o-key"}, "", "g-key"},
		{"openai from environment", "openai", map[string]string{"GEMINI_API_KEY": "g-key", "OPENAI_API_KEY": "o-key"}, "", "o-key"},
		{"from config when no env", "gemini", map[string]string{"GEMINI_API_KEY": ""}, "config-key", "config-key"},
		{"empty when neither set", "openai", map[string]string{"OPENAI_API_KEY": ""}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.configKey != "" {
				viper.Set("translation.api_key", tt.configKey)
			}

			if got := GetTranslationKey(tt.provider); got != tt.expected {
				t.Errorf("GetTranslationKey(%q) = %v, want %v", tt.provider, got, tt.expected)
			}
		})
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("store", "redis")
	cmd.PersistentFlags().Set("ocr-model", "deepseek-vl")
	cmd.PersistentFlags().Set("translation-provider", "openai")

	// Test that values are bound
	if viper.GetString("store.backend") != "redis" {
		t.Errorf("Expected store.backend to be redis, got %s", viper.GetString("store.backend"))
	}

	if viper.GetString("ocr.model") != "deepseek-vl" {
		t.Errorf("Expected ocr.model to be deepseek-vl, got %s", viper.GetString("ocr.model"))
	}

	if viper.GetString("translation.provider") != "openai" {
		t.Errorf("Expected translation.provider to be openai, got %s", viper.GetString("translation.provider"))
	}
}
