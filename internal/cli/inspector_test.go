package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dendrite/pkg/dendrite"
)

const myAppSchema = "../schemafile/testdata/myapp.yaml"

func TestInspector_Tree(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewInspector(&out).Inspect(myAppSchema, InspectOptions{}))

	assert.Equal(t, "myapp\tan example application\n  foo\tFoo\n  hoge\tBar\n", out.String())
}

func TestInspector_TreeJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewInspector(&out).Inspect(myAppSchema, InspectOptions{JSON: true}))

	var tree dendrite.Tree
	require.NoError(t, json.Unmarshal(out.Bytes(), &tree))
	assert.Equal(t, "myapp", tree.Name)
	assert.Len(t, tree.Children, 2)
}

func TestInspector_Resolve(t *testing.T) {
	for _, backend := range []string{"", "cobra", "urfave"} {
		var out bytes.Buffer
		err := NewInspector(&out).Inspect(myAppSchema, InspectOptions{Args: []string{"hoge"}, Backend: backend})
		require.NoError(t, err, backend)
		assert.Equal(t, "MyApp::Bar(Bar)\n", out.String(), backend)
	}

	var out bytes.Buffer
	err := NewInspector(&out).Inspect(myAppSchema, InspectOptions{Args: []string{"bar"}})
	assert.ErrorIs(t, err, dendrite.ErrUnknownSubcommand)

	err = NewInspector(&out).Inspect(myAppSchema, InspectOptions{Args: []string{"foo"}, Backend: "clap"})
	assert.Error(t, err)
}
