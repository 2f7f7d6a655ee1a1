package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refdoc/internal/config"
	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

const metadata = `
assembly: {name: Acme.Core, version: 2.0.0.0}
types:
  - namespace: Acme
    name: Widget
    kind: class
    visibility: public
    methods:
      - {name: Spin, return: System.Int32}
references:
  - {namespace: System, name: Int32, kind: struct}
`

const corpus = `<?xml version="1.0"?>
<doc><members><member name="T:Acme.Widget"><summary>Spins.</summary></member></members></doc>`

func testGlobal() (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Out: &out}, &out
}

func writeInputs(t *testing.T) (dir, meta string) {
	t.Helper()
	dir = t.TempDir()
	meta = filepath.Join(dir, "Acme.Core.yaml")
	require.NoError(t, os.WriteFile(meta, []byte(metadata), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Acme.Core.xml"), []byte(corpus), 0o600))
	return dir, meta
}

func TestParse_GenerateFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Bind(&Global{}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"-v", "generate", "meta.yaml", "out", "--workers", "3", "--no-verify-links", "--frontmatter"})
	require.NoError(t, err)

	assert.True(t, cli.Verbose)
	assert.Equal(t, 3, cli.Generate.Workers)
	assert.True(t, cli.Generate.NoVerifyLinks)
	assert.True(t, cli.Generate.FrontMatter)
	assert.Equal(t, "meta.yaml", filepath.Base(cli.Generate.Metadata))
}

func TestGenerateCmd_ApplyOverridesConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Input.Metadata = "configured.yaml"
	cfg.Input.Comments = "configured.xml"

	cmd := GenerateCmd{Metadata: "bin/Other.yaml", Output: "api", Workers: 2, NoVerifyLinks: true, Clean: true}
	require.NoError(t, cmd.apply(cfg))

	assert.Equal(t, "bin/Other.yaml", cfg.Input.Metadata)
	assert.Equal(t, "bin/Other.xml", cfg.Input.CommentsPath(), "configured comments belong to the configured metadata")
	assert.Equal(t, "api", cfg.Output.Directory)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.False(t, cfg.Render.ShouldVerifyLinks())
	assert.True(t, cfg.Output.Clean)
}

func TestGenerateCmd_ApplyRejectsInvalidWorkers(t *testing.T) {
	cmd := GenerateCmd{Workers: config.MaxWorkers + 1}
	err := cmd.apply(config.Default())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestGenerateCmd_Run(t *testing.T) {
	dir, meta := writeInputs(t)
	out := filepath.Join(dir, "api")
	metricsFile := filepath.Join(dir, "metrics", "refdoc.prom")

	global, stdout := testGlobal()
	root := &CLI{Config: filepath.Join(dir, "absent.yaml")}
	cmd := GenerateCmd{Metadata: meta, Output: out, MetricsFile: metricsFile}
	require.NoError(t, cmd.Run(global, root))

	page, err := os.ReadFile(filepath.Join(out, "acme.widget.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Spins.")
	assert.FileExists(t, filepath.Join(out, "acme.widget.spin.md"))
	assert.FileExists(t, filepath.Join(out, "acme.md"))
	assert.FileExists(t, filepath.Join(out, "refdoc-report.json"))
	assert.NoFileExists(t, filepath.Join(out, "acme.core-2.0.0.0.md"), "one namespace has no assembly page")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "refdoc_pages_total")
	assert.Contains(t, stdout.String(), "Generated 3 pages")
}

func TestGenerateCmd_MissingMetadataIsValidationError(t *testing.T) {
	global, _ := testGlobal()
	root := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	err := (&GenerateCmd{}).Run(global, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestGenerateCmd_UnreadableMetadataIsLoadError(t *testing.T) {
	dir := t.TempDir()
	global, _ := testGlobal()
	root := &CLI{Config: filepath.Join(dir, "absent.yaml")}
	err := (&GenerateCmd{Metadata: filepath.Join(dir, "absent.yaml"), Output: filepath.Join(dir, "api")}).Run(global, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryLoad))
	assert.Equal(t, 3, ferrors.NewCLIErrorAdapter(false, global.Logger).ExitCodeFor(err))
}

func TestGenerateCmd_UsesConfigurationFile(t *testing.T) {
	dir, meta := writeInputs(t)
	cfgPath := filepath.Join(dir, "refdoc.yaml")
	doc := "input:\n  metadata: " + meta + "\noutput:\n  directory: " + filepath.Join(dir, "site") + "\n  report: none\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(doc), 0o600))

	global, _ := testGlobal()
	require.NoError(t, (&GenerateCmd{}).Run(global, &CLI{Config: cfgPath}))
	assert.FileExists(t, filepath.Join(dir, "site", "acme.widget.md"))
	assert.NoFileExists(t, filepath.Join(dir, "site", "refdoc-report.json"))
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdoc.yaml")
	global, stdout := testGlobal()
	root := &CLI{Config: path}

	require.NoError(t, (&InitCmd{}).Run(global, root))
	assert.FileExists(t, path)
	assert.Contains(t, stdout.String(), "initialized successfully")

	err := (&InitCmd{}).Run(global, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.NoError(t, (&InitCmd{Force: true}).Run(global, root))
}

func TestNewLogger_FlagsOverrideConfiguration(t *testing.T) {
	cli := &CLI{Verbose: true, LogFormat: "json"}
	logger := cli.newLogger(config.LoggingConfig{Level: config.LogLevelError, Format: config.LogFormatText})
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
	_, isJSON := logger.Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
}

func TestWatchCmd_RequiresMetadata(t *testing.T) {
	global, _ := testGlobal()
	root := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	err := (&WatchCmd{}).Run(global, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestWatchCmd_RejectsInvalidDebounce(t *testing.T) {
	_, meta := writeInputs(t)
	global, _ := testGlobal()
	root := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	err := (&WatchCmd{GenerateCmd: GenerateCmd{Metadata: meta}, Debounce: "soon"}).Run(global, root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
