package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/parser"
	"github.com/toyz/dendrite/internal/schema"
	"github.com/toyz/dendrite/internal/utils"
)

var testFallback = schema.Fallback{
	PackageName:        "dendrite",
	PackageDescription: "command tree compiler",
}

const myAppSource = `package myapp

import (
	rc "example.com/tools/remote"
)

//dendrite::group(name = "myapp")
//dendrite(VersionlessSubcommands, SubcommandRequiredElseHelp)
type MyApp struct {
	Foo *Foo
	Bar *Bar //dendrite::variant(name = "hoge", help = "does hoge")
	Remote *rc.Command
	Version *struct{}
}

//dendrite::command
type Foo struct{}

//dendrite::command(about = "the bar command")
type Bar struct{}
`

func generate(t *testing.T, source string) *models.GeneratedFile {
	t.Helper()
	metadata, err := parser.NewParser().ParseSource("myapp.go", source)
	require.NoError(t, err)
	metadata.PackagePath = "./myapp"

	file, err := NewGenerator(testFallback).GeneratePackage(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)
	return file
}

func TestGeneratePackage_NilMetadata(t *testing.T) {
	_, err := NewGenerator(testFallback).GeneratePackage(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata cannot be nil")
}

func TestGeneratePackage_NoAnnotatedTypes(t *testing.T) {
	file, err := NewGenerator(testFallback).GeneratePackage(&models.PackageMetadata{
		PackageName: "empty",
		PackagePath: "./empty",
	})
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestGeneratePackage_MyApp(t *testing.T) {
	file := generate(t, myAppSource)

	assert.Equal(t, "myapp", file.PackageName)
	assert.Equal(t, "myapp/autogen_dendrite.go", file.FilePath)
	assert.Equal(t, []string{"MyApp", "Foo", "Bar"}, file.Types)
	require.NoError(t, utils.ValidateGoCode(file.Content))

	content := file.Content
	expected := []string{
		"// Code generated by dendrite. DO NOT EDIT.",
		"package myapp",
		`rc "example.com/tools/remote"`,
		`"github.com/toyz/dendrite/pkg/dendrite"`,
		"_ dendrite.Command = (*MyApp)(nil)",
		"func (c *MyApp) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {",
		`n := f.NewNode("myapp")`,
		"if err := n.ApplySetting(dendrite.VersionlessSubcommands); err != nil {",
		"if err := n.ApplySetting(dendrite.SubcommandRequiredElseHelp); err != nil {",
		`child := n.NewNode("foo")`,
		`child.SetAbout("Foo")`,
		`child := n.NewNode("hoge")`,
		`child.SetAbout("does hoge")`,
		`child := n.NewNode("remote")`,
		"if err := new(rc.Command).Extend(child); err != nil {",
		`child := n.NewNode("version")`,
		"name, sub, ok := m.Subcommand()",
		`dendrite.Unreachable("MyApp", "")`,
		"*c = MyApp{Foo: v}",
		"*c = MyApp{Bar: v}",
		"*c = MyApp{Version: &struct{}{}}",
		`dendrite.Unreachable("MyApp", name)`,
		`n := f.NewNode("dendrite")`,
		"*c = Foo{}",
		`n.SetAbout("the bar command")`,
	}
	for _, want := range expected {
		assert.Contains(t, content, want)
	}

	// the unit member has no Extend call and the version case builds no payload
	assert.NotContains(t, content, "new(struct{})")
}

func TestGeneratePackage_AboutPrecedence(t *testing.T) {
	file := generate(t, myAppSource)

	newNode := section(file.Content, "func (c *Foo) NewNode", "func (c *Foo) Extend")
	assert.Contains(t, newNode, `n.SetAbout("command tree compiler")`)

	barNewNode := section(file.Content, "func (c *Bar) NewNode", "func (c *Bar) Extend")
	assert.NotContains(t, barNewNode, "command tree compiler")

	fooExtend := section(file.Content, "func (c *Foo) Extend", "func (c *Foo) Reconstruct")
	assert.NotContains(t, fooExtend, "SetAbout")
}

func TestGeneratePackage_UnitOnlyGroup(t *testing.T) {
	file := generate(t, `package flags

//dendrite::group
type Mode struct {
	Fast *struct{}
	Slow *struct{}
}
`)
	require.NoError(t, utils.ValidateGoCode(file.Content))
	assert.Contains(t, file.Content, "name, _, ok := m.Subcommand()")
	assert.NotContains(t, file.Content, "v.Reconstruct(sub)")
}

func TestGeneratePackage_Idempotent(t *testing.T) {
	first := generate(t, myAppSource)
	second := generate(t, myAppSource)
	assert.Equal(t, first.Content, second.Content)
}

func TestGeneratePackage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{
			name: "unresolved payload",
			source: `package p

//dendrite::group
type App struct {
	Missing *Missing
}
`,
			code: errors.UnresolvedPayloadCode,
		},
		{
			name: "unknown setting",
			source: `package p

//dendrite::command
//dendrite(Bogus)
type App struct{}
`,
			code: errors.GenerationErrorCode,
		},
		{
			name: "self referencing group",
			source: `package p

//dendrite::group
type App struct {
	Again *App
}
`,
			code: errors.UnsupportedMemberShapeCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, err := parser.NewParser().ParseSource("p.go", tt.source)
			require.NoError(t, err)

			_, err = NewGenerator(testFallback).GeneratePackage(metadata)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestGeneratePackage_DeclaredPayload(t *testing.T) {
	file := generate(t, `package p

//dendrite::group
type App struct {
	Manual *Manual
}

// Manual implements the command contract by hand.
type Manual struct{}
`)
	assert.Contains(t, file.Content, "if err := new(Manual).Extend(child); err != nil {")
	assert.Equal(t, []string{"App"}, file.Types)
}

func section(content, from, to string) string {
	start := strings.Index(content, from)
	if start < 0 {
		return ""
	}
	end := strings.Index(content[start:], to)
	if end < 0 {
		return content[start:]
	}
	return content[start : start+end]
}
