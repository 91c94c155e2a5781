package convert

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"h2d/common"
	"h2d/compiler"
	"h2d/config"
	"h2d/state"
)

const sampleHTML = `<html><head><style>.card { display: flex; gap: 8px; padding: 12px; }</style></head>
<body><div class="card"><h1>Title</h1><button>Go</button></div></body></html>`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	env.Format = common.OutputFmtJson
	return ctx, env
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected output %s: %v", path, err)
	}
}

func TestProcess_SingleFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "in", "index.html")
	dst := filepath.Join(tmp, "out")
	writeFile(t, src, []byte(sampleHTML))

	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "index.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got struct {
		Root struct {
			Variant  string            `json:"variant"`
			Children []json.RawMessage `json:"children"`
		} `json:"root"`
		Elements int `json:"elements"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if got.Root.Variant != "CONTAINER" || len(got.Root.Children) != 2 || got.Elements != 3 {
		t.Errorf("unexpected tree: %s", data)
	}
}

func TestProcess_Formats(t *testing.T) {
	tests := []struct {
		format common.OutputFmt
		file   string
		want   string
	}{
		{common.OutputFmtJson, "page.json", `"variant": "CONTAINER"`},
		{common.OutputFmtYaml, "page.yaml", "variant: CONTAINER"},
		{common.OutputFmtTree, "page.txt", "CONTAINER"},
		{common.OutputFmtIon, "page.ion", "design_tree::"},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			env.Format = tt.format
			tmp := t.TempDir()
			src := filepath.Join(tmp, "page.html")
			writeFile(t, src, []byte(sampleHTML))

			if err := process(ctx, src, tmp, env.Log); err != nil {
				t.Fatalf("process() error = %v", err)
			}
			data, err := os.ReadFile(filepath.Join(tmp, tt.file))
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("output misses %q:\n%s", tt.want, data)
			}
		})
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, env := setupTestEnv(t)
	core, logs := observer.New(zap.InfoLevel)
	env.Log = zap.New(core)

	tmp := t.TempDir()
	in, out := filepath.Join(tmp, "in"), filepath.Join(tmp, "out")
	writeFile(t, filepath.Join(in, "page10.html"), []byte(sampleHTML))
	writeFile(t, filepath.Join(in, "page2.htm"), []byte(sampleHTML))
	writeFile(t, filepath.Join(in, "sub", "a.html"), []byte(sampleHTML))
	writeFile(t, filepath.Join(in, "notes.txt"), []byte("not html"))

	if err := process(ctx, in, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	mustExist(t, filepath.Join(out, "page2.json"))
	mustExist(t, filepath.Join(out, "page10.json"))
	mustExist(t, filepath.Join(out, "sub", "a.json"))
	if _, err := os.Stat(filepath.Join(out, "notes.json")); err == nil {
		t.Error("text file should not be processed")
	}

	var order []string
	for _, e := range logs.FilterMessage("Compilation starting").All() {
		order = append(order, e.ContextMap()["from"].(string))
	}
	want := []string{"page2.htm", "page10.html", filepath.Join("sub", "a.html")}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("processing order = %v, want %v", order, want)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()
	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s in zip: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func TestProcess_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "site.zip")
	out := filepath.Join(tmp, "out")
	writeZip(t, src, map[string]string{
		"index.html":      sampleHTML,
		"pages/about.htm": sampleHTML,
		"pages/logo.png":  "\x89PNG\r\n\x1a\n",
	})

	if err := process(ctx, src, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	mustExist(t, filepath.Join(out, "index.json"))
	mustExist(t, filepath.Join(out, "pages", "about.json"))
	if _, err := os.Stat(filepath.Join(out, "pages", "logo.json")); err == nil {
		t.Error("non html entry should not be processed")
	}
}

func TestProcess_ArchiveInDirectory(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()
	in, out := filepath.Join(tmp, "in"), filepath.Join(tmp, "out")
	writeZip(t, filepath.Join(in, "sub", "site.zip"), map[string]string{"index.html": sampleHTML})
	writeFile(t, filepath.Join(in, "fake.zip"), []byte("not an archive"))

	if err := process(ctx, in, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	mustExist(t, filepath.Join(out, "sub", "index.json"))
}

func TestProcess_DirectoryContinuesAfterFailure(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()
	in, out := filepath.Join(tmp, "in"), filepath.Join(tmp, "out")
	writeFile(t, filepath.Join(in, "a.html"), []byte("   "))
	writeFile(t, filepath.Join(in, "b.html"), []byte(sampleHTML))

	if err := process(ctx, in, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	mustExist(t, filepath.Join(out, "b.json"))
}

func TestProcess_NoDirs(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.NoDirs = true
	tmp := t.TempDir()
	in, out := filepath.Join(tmp, "in"), filepath.Join(tmp, "out")
	writeFile(t, filepath.Join(in, "sub", "deep", "a.html"), []byte(sampleHTML))

	if err := process(ctx, in, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	mustExist(t, filepath.Join(out, "a.json"))
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "index.html")
	writeFile(t, src, []byte(sampleHTML))

	if err := process(ctx, src, tmp, env.Log); err != nil {
		t.Fatalf("first process() error = %v", err)
	}
	err := process(ctx, src, tmp, env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second process() error = %v, want already exists", err)
	}

	env.Overwrite = true
	if err := process(ctx, src, tmp, env.Log); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
}

func TestProcess_Errors(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()

	empty := filepath.Join(tmp, "empty.html")
	writeFile(t, empty, nil)
	if err := process(ctx, empty, tmp, env.Log); !errors.Is(err, compiler.ErrEmptyInput) {
		t.Errorf("empty file error = %v, want ErrEmptyInput", err)
	}

	text := filepath.Join(tmp, "text.html")
	writeFile(t, text, []byte("just words"))
	if err := process(ctx, text, tmp, env.Log); !errors.Is(err, compiler.ErrNoElements) {
		t.Errorf("text file error = %v, want ErrNoElements", err)
	}

	binary := filepath.Join(tmp, "image.html")
	writeFile(t, binary, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	if err := process(ctx, binary, tmp, env.Log); !errors.Is(err, errNotHTML) {
		t.Errorf("binary file error = %v, want errNotHTML", err)
	}

	if err := process(ctx, filepath.Join(tmp, "missing.html"), tmp, env.Log); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestProcess_Canceled(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "in", "a.html"), []byte(sampleHTML))

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := process(ctx, filepath.Join(tmp, "in"), filepath.Join(tmp, "out"), env.Log); !errors.Is(err, context.Canceled) {
		t.Fatalf("process() error = %v, want context.Canceled", err)
	}
}

func TestRenderPreview(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		check func(t *testing.T, path string)
	}{
		{"png", "tree.png", func(t *testing.T, path string) {
			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("not a png: %v", err)
			}
			if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
				t.Fatalf("unexpected bounds: %v", img.Bounds())
			}
		}},
		{"svg", "tree.svg", func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !strings.HasPrefix(string(data), "<svg") || !strings.Contains(string(data), ">Title</text>") {
				t.Fatalf("unexpected svg: %s", data)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			tmp := t.TempDir()
			src := filepath.Join(tmp, "index.html")
			writeFile(t, src, []byte(sampleHTML))
			dst := filepath.Join(tmp, "out", tt.file)

			if err := renderPreview(ctx, src, dst, env.Log); err != nil {
				t.Fatalf("renderPreview() error = %v", err)
			}
			tt.check(t, dst)
		})
	}
}
