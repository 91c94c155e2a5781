package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"h2d/config"
	"h2d/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.Transliterate = transliterate
	cfg.Output.NameTemplate = template
	return &state.LocalEnv{Log: zaptest.NewLogger(t), Cfg: cfg, NoDirs: noDirs}
}

func TestBuildOutputPath(t *testing.T) {
	values := Values{Name: "Главная страница", Dir: "site/pages", Format: "json", Root: "div-card", Elements: 3, Rules: 1}
	dst := filepath.FromSlash("/out")
	src := filepath.FromSlash("site/pages/Главная страница.html")

	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		want          string
	}{
		{"default", false, false, "", "/out/site/pages/Главная страница.json"},
		{"nodirs", true, false, "", "/out/Главная страница.json"},
		{"transliterate", true, true, "", "/out/glavnaia-stranitsa.json"},
		{"template", true, false, "{{ .Format }}/{{ .Root }}-{{ .Elements }}", "/out/json/div-card-3.json"},
		{"template with sprig", true, false, `{{ .Root | upper }}_{{ .Rules }}`, "/out/DIV-CARD_1.json"},
		{"template keeps source dirs", false, false, "{{ .Root }}", "/out/site/pages/div-card.json"},
		{"template transliterated", true, true, "{{ .Dir }}/{{ .Name }}", "/out/site/pages/glavnaia-stranitsa.json"},
		{"template cannot escape", true, false, "../../{{ .Root }}", "/out/div-card.json"},
		{"broken template", true, false, "{{ .Nope ", "/out/Главная страница.json"},
		{"empty expansion", true, false, "{{ if false }}x{{ end }}", "/out/Главная страница.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			got := buildOutputPath(src, dst, ".json", values, env)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("buildOutputPath() = %q, want %q", got, filepath.FromSlash(tt.want))
			}
		})
	}
}

func TestExpandTemplate(t *testing.T) {
	got, err := expandTemplate("test", `{{ .Name | lower }}.{{ .Format }}`, Values{Name: "Index", Format: "yaml"})
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if got != "index.yaml" {
		t.Errorf("expandTemplate() = %q, want index.yaml", got)
	}

	if _, err := expandTemplate("test", `{{ .Missing }}`, Values{}); err == nil {
		t.Error("expected error for unknown field")
	}
}
