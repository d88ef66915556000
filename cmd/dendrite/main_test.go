package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolSource = `package tool

//dendrite::group(about = "a small tool")
type Tool struct {
	Run *Run
}

//dendrite::command
type Run struct{}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newApp(&out, &out).root()
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("go.mod", []byte("module example.com/acme/tool\n"), 0o644))
	require.NoError(t, os.MkdirAll("tool", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("tool", "tool.go"), []byte(toolSource), 0o644))
	return dir
}

func TestGenerateAndClean(t *testing.T) {
	dir := setupModule(t)
	target := filepath.Join(dir, "tool", "autogen_dendrite.go")

	out, err := run(t, "generate", "--dry-run", "./...")
	require.NoError(t, err, out)
	assert.NoFileExists(t, target)

	out, err = run(t, "generate", "./...")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 generated")

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), `n := f.NewNode("tool")`)
	assert.Contains(t, string(content), `n.SetAbout("a small tool")`)

	out, err = run(t, "clean", "./...")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 generated files removed")
	assert.NoFileExists(t, target)
}

func TestGenerate_NameFlag(t *testing.T) {
	dir := setupModule(t)

	_, err := run(t, "--name", "acme", "--quiet", "generate")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "tool", "autogen_dendrite.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `n := f.NewNode("acme")`)
}

func TestGenerate_ReportsErrors(t *testing.T) {
	setupModule(t)
	require.NoError(t, os.WriteFile(filepath.Join("tool", "bad.go"), []byte("package tool\n\n//dendrite::command\ntype Bad int\n"), 0o644))

	out, err := run(t, "generate", "./...")
	require.Error(t, err)
	assert.Contains(t, out, "Bad")
}

func TestInspect(t *testing.T) {
	schema, err := filepath.Abs("../../internal/schemafile/testdata/myapp.yaml")
	require.NoError(t, err)
	chdir(t, t.TempDir())

	out, err := run(t, "inspect", schema)
	require.NoError(t, err)
	assert.Contains(t, out, "myapp\tan example application")
	assert.Contains(t, out, "  hoge\tBar")

	out, err = run(t, "inspect", "--backend", "urfave", schema, "foo")
	require.NoError(t, err)
	assert.Equal(t, "MyApp::Foo(Foo)\n", out)

	_, err = run(t, "inspect")
	assert.Error(t, err)
}

func TestVerboseAndQuietConflict(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := run(t, "--verbose", "--quiet", "clean")
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
