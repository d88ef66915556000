package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/schema"
	"github.com/toyz/dendrite/pkg/dendrite"
)

var fallback = schema.Fallback{PackageName: "pkgname", PackageDescription: "package description"}

func annotated(text string) []models.AnnotationBlock {
	return []models.AnnotationBlock{{Text: text}}
}

func payload(name string) []models.FieldDefinition {
	return []models.FieldDefinition{{Type: name}}
}

func compile(t *testing.T, defs ...models.TypeDefinition) *Engine {
	t.Helper()
	nodes, err := schema.BuildAll(defs)
	require.NoError(t, err)

	e := New(fallback)
	require.NoError(t, e.Compile(nodes))
	return e
}

func myApp() []models.TypeDefinition {
	return []models.TypeDefinition{
		{
			Name:        "MyApp",
			Kind:        models.KindUnion,
			Annotations: annotated(`dendrite(name = "myapp", VersionlessSubcommands, SubcommandRequiredElseHelp)`),
			Members: []models.MemberDefinition{
				{Name: "Foo", Annotations: annotated(`dendrite(name = "foo")`), Fields: payload("Foo")},
				{Name: "Bar", Annotations: annotated(`dendrite(name = "hoge")`), Fields: payload("Bar")},
			},
		},
		{Name: "Foo", Kind: models.KindRecord},
		{Name: "Bar", Kind: models.KindRecord},
	}
}

func TestEngine_MyAppTree(t *testing.T) {
	e := compile(t, myApp()...)

	tree, err := e.Describe("MyApp")
	require.NoError(t, err)

	expected := &dendrite.Tree{
		Name:     "myapp",
		About:    "package description",
		Settings: []string{dendrite.VersionlessSubcommands, dendrite.SubcommandRequiredElseHelp},
		Children: []*dendrite.Tree{
			{Name: "foo", About: "Foo"},
			{Name: "hoge", About: "Bar"},
		},
	}
	if diff := cmp.Diff(expected, tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_MyAppResolve(t *testing.T) {
	e := compile(t, myApp()...)

	v, err := e.Resolve("MyApp", dendrite.Reference{}, []string{"foo"})
	require.NoError(t, err)
	assert.Equal(t, &dendrite.Value{Type: "MyApp", Variant: "Foo", Payload: &dendrite.Value{Type: "Foo"}}, v)

	v, err = e.Resolve("MyApp", dendrite.Reference{}, []string{"hoge"})
	require.NoError(t, err)
	assert.Equal(t, "MyApp::Bar(Bar)", v.String())

	_, err = e.Resolve("MyApp", dendrite.Reference{}, nil)
	assert.ErrorIs(t, err, dendrite.ErrSubcommandRequired)

	_, err = e.Resolve("MyApp", dendrite.Reference{}, []string{"bar"})
	assert.ErrorIs(t, err, dendrite.ErrUnknownSubcommand)
}

func TestEngine_RoundTrip(t *testing.T) {
	e := compile(t,
		models.TypeDefinition{Name: "App", Kind: models.KindUnion, Members: []models.MemberDefinition{
			{Name: "Foo", Fields: payload("Foo")},
			{Name: "Bar", Fields: payload("Bar")},
		}},
		models.TypeDefinition{Name: "Foo", Kind: models.KindRecord},
		models.TypeDefinition{Name: "Bar", Kind: models.KindRecord},
	)

	for _, variant := range []string{"Foo", "Bar"} {
		c, ok := e.Lookup("App")
		require.True(t, ok)

		// the member name used to build is the one matched on the way back
		tree, err := e.Describe("App")
		require.NoError(t, err)
		var name string
		for _, child := range tree.Children {
			if child.About == variant {
				name = child.Name
			}
		}
		require.NotEmpty(t, name)

		v := c.Reconstruct(dendrite.MatchPath(name))
		assert.Equal(t, variant, v.Variant)
	}
}

func TestEngine_DefaultsAndAboutPrecedence(t *testing.T) {
	e := compile(t,
		models.TypeDefinition{Name: "Tool", Kind: models.KindUnion, Members: []models.MemberDefinition{
			{Name: "Serve", Fields: payload("Serve")},
			{Name: "Build", Annotations: annotated(`dendrite(help = "build it")`), Fields: payload("Build")},
			{Name: "Version"},
		}},
		models.TypeDefinition{Name: "Serve", Kind: models.KindRecord, Annotations: annotated(`dendrite(about = "serve things", Hidden)`)},
		models.TypeDefinition{Name: "Build", Kind: models.KindRecord},
	)

	tree, err := e.Describe("Tool")
	require.NoError(t, err)

	expected := &dendrite.Tree{
		Name:  "pkgname",
		About: "package description",
		Children: []*dendrite.Tree{
			{Name: "serve", About: "serve things", Settings: []string{dendrite.Hidden}},
			{Name: "build", About: "build it"},
			{Name: "version", About: "Version"},
		},
	}
	if diff := cmp.Diff(expected, tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	v, err := e.Resolve("Tool", dendrite.Reference{}, []string{"version"})
	require.NoError(t, err)
	assert.Equal(t, &dendrite.Value{Type: "Tool", Variant: "Version"}, v)
}

func TestEngine_ExplicitAboutReplacesFallback(t *testing.T) {
	e := compile(t, models.TypeDefinition{Name: "Tool", Kind: models.KindRecord, Annotations: annotated(`dendrite(about = "mine")`)})

	tree, err := e.Describe("Tool")
	require.NoError(t, err)
	assert.Equal(t, &dendrite.Tree{Name: "pkgname", About: "mine"}, tree)

	v, err := e.Resolve("Tool", dendrite.Reference{}, nil)
	require.NoError(t, err)
	assert.Equal(t, &dendrite.Value{Type: "Tool"}, v)
}

func TestEngine_NestedGroups(t *testing.T) {
	e := compile(t,
		models.TypeDefinition{Name: "Git", Kind: models.KindUnion, Annotations: annotated(`dendrite(name = "git", SubcommandRequired)`), Members: []models.MemberDefinition{
			{Name: "Remote", Fields: payload("Remote")},
			{Name: "Status", Fields: payload("Status")},
		}},
		models.TypeDefinition{Name: "Remote", Kind: models.KindUnion, Annotations: annotated(`dendrite(SubcommandRequired)`), Members: []models.MemberDefinition{
			{Name: "Add", Fields: payload("RemoteAdd")},
			{Name: "Remove", Annotations: annotated(`dendrite(name = "rm")`), Fields: payload("RemoteRemove")},
		}},
		models.TypeDefinition{Name: "Status", Kind: models.KindRecord},
		models.TypeDefinition{Name: "RemoteAdd", Kind: models.KindRecord},
		models.TypeDefinition{Name: "RemoteRemove", Kind: models.KindRecord},
	)

	v, err := e.Resolve("Git", dendrite.Reference{}, []string{"remote", "rm"})
	require.NoError(t, err)
	assert.Equal(t, "Git::Remote(Remote::Remove(RemoteRemove))", v.String())
	assert.Equal(t, []string{"Remote", "Remove"}, v.Variants())

	_, err = e.Resolve("Git", dendrite.Reference{}, []string{"remote"})
	assert.ErrorIs(t, err, dendrite.ErrSubcommandRequired)
}

func TestEngine_GenerationIsIdempotent(t *testing.T) {
	first := compile(t, myApp()...)
	second := compile(t, myApp()...)

	a, err := first.Describe("MyApp")
	require.NoError(t, err)
	b, err := second.Describe("MyApp")
	require.NoError(t, err)
	again, err := first.Describe("MyApp")
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b))
	assert.Empty(t, cmp.Diff(a, again))
}

func TestEngine_UnreachableDispatch(t *testing.T) {
	e := compile(t, myApp()...)
	c, ok := e.Lookup("MyApp")
	require.True(t, ok)

	assert.PanicsWithError(t, `unreachable: MyApp has no subcommand "bar"`, func() {
		c.Reconstruct(dendrite.MatchPath("bar"))
	})
	assert.Panics(t, func() { c.Reconstruct(dendrite.MatchPath()) })
}

func TestEngine_UnresolvedPayload(t *testing.T) {
	nodes, err := schema.BuildAll(myApp()[:2])
	require.NoError(t, err)

	e := New(fallback)
	err = e.Compile(nodes)
	require.Error(t, err)
	assert.Equal(t, errors.UnresolvedPayloadCode, errors.CodeOf(err))
	assert.Empty(t, e.Types())
}

func TestEngine_UnknownSetting(t *testing.T) {
	e := compile(t, models.TypeDefinition{Name: "Tool", Kind: models.KindRecord, Annotations: annotated(`dendrite(ColoredHelp)`)})

	_, err := e.Describe("Tool")
	require.Error(t, err)
	assert.ErrorIs(t, err, dendrite.ErrUnknownSetting)
	assert.Equal(t, errors.GenerationErrorCode, errors.CodeOf(err))
}

// remoteContract stands in for a payload whose procedures are written by hand
type remoteContract struct{}

func (remoteContract) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {
	n := f.NewNode("remote")
	return n, remoteContract{}.Extend(n)
}

func (remoteContract) Extend(n dendrite.Node) error {
	n.SetAbout("manage remotes")
	return n.AddSubcommand(n.NewNode("list"))
}

func (remoteContract) Reconstruct(m dendrite.Matched) *dendrite.Value {
	name, _, _ := m.Subcommand()
	return &dendrite.Value{Type: "Remote", Variant: name}
}

func TestEngine_HandWrittenContract(t *testing.T) {
	nodes, err := schema.BuildAll([]models.TypeDefinition{
		{Name: "Git", Kind: models.KindUnion, Members: []models.MemberDefinition{{Name: "Remote", Fields: payload("Remote")}}},
	})
	require.NoError(t, err)

	e := New(fallback)
	require.NoError(t, e.Register("Remote", remoteContract{}))
	require.NoError(t, e.Compile(nodes))
	assert.Equal(t, []string{"Git", "Remote"}, e.Types())

	tree, err := e.Describe("Git")
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "manage remotes", tree.Children[0].About)
	assert.Equal(t, "list", tree.Children[0].Children[0].Name)

	v, err := e.Resolve("Git", dendrite.Reference{}, []string{"remote", "list"})
	require.NoError(t, err)
	assert.Equal(t, "Git::Remote(Remote::list)", v.String())

	assert.Error(t, e.Register("Remote", remoteContract{}))
	assert.Error(t, e.Compile(nodes))
}

func TestEngine_UnknownRoot(t *testing.T) {
	e := New(fallback)
	_, err := e.Describe("Nope")
	assert.Equal(t, errors.RegistrationErrorCode, errors.CodeOf(err))
}

func TestEngine_MemberNamedHelp(t *testing.T) {
	e := compile(t,
		models.TypeDefinition{Name: "Tool", Kind: models.KindUnion, Members: []models.MemberDefinition{
			{Name: "Help"},
			{Name: "Run", Fields: payload("Run")},
		}},
		models.TypeDefinition{Name: "Run", Kind: models.KindRecord},
	)

	tree, err := e.Describe("Tool")
	require.NoError(t, err)
	require.NotNil(t, tree.Child("help"))

	v, err := e.Resolve("Tool", dendrite.Reference{}, []string{"help"})
	require.NoError(t, err)
	assert.Equal(t, &dendrite.Value{Type: "Tool", Variant: "Help"}, v)

	_, err = e.Resolve("Tool", dendrite.Reference{}, []string{"run", "help"})
	assert.ErrorIs(t, err, dendrite.ErrHelpRequested)
}
