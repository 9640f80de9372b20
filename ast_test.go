package cove_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove"
)

func parse(t *testing.T, input string) *cove.Script {
	t.Helper()

	script, err := cove.ParseString(input)
	require.NoError(t, err)
	require.NotNil(t, script)

	return script
}

func firstCommand(t *testing.T, script *cove.Script) *cove.Command {
	t.Helper()

	require.NotEmpty(t, script.Statements)
	require.NotNil(t, script.Statements[0].Pipeline)
	require.NotEmpty(t, script.Statements[0].Pipeline.Commands)

	return script.Statements[0].Pipeline.Commands[0]
}

func TestParse_CommandWithElements(t *testing.T) {
	t.Parallel()

	cmd := firstCommand(t, parse(t, "get-item -Path src -Recurse extra"))

	assert.Equal(t, "get-item", cmd.Name.Text())
	require.Len(t, cmd.Elements, 3)

	require.NotNil(t, cmd.Elements[0].Parameter)
	assert.Equal(t, "Path", cmd.Elements[0].Parameter.Name())

	require.NotNil(t, cmd.Elements[1].Argument)
	require.NotNil(t, cmd.Elements[2].Parameter)
}

func TestParse_Pipeline(t *testing.T) {
	t.Parallel()

	script := parse(t, "get-process | where-object Name x | foreach-object")

	cmds := script.Statements[0].Pipeline.Commands
	require.Len(t, cmds, 3)
	assert.Equal(t, "where-object", cmds[1].Name.Text())
}

func TestParse_ExpressionStatement(t *testing.T) {
	t.Parallel()

	cmd := firstCommand(t, parse(t, "$proc.Name"))

	assert.Nil(t, cmd.Name)
	require.NotNil(t, cmd.Expr)
	require.NotNil(t, cmd.Expr.Primary.Variable)
	assert.Equal(t, "$proc", *cmd.Expr.Primary.Variable)

	require.Len(t, cmd.Expr.Members, 1)
	assert.Equal(t, "Name", cmd.Expr.Members[0].Name)
	assert.True(t, cmd.Expr.Members[0].IsComplete())
}

func TestParse_DanglingMemberDot(t *testing.T) {
	t.Parallel()

	cmd := firstCommand(t, parse(t, "$proc."))

	require.NotNil(t, cmd.Expr)
	require.Len(t, cmd.Expr.Members, 1)
	assert.Empty(t, cmd.Expr.Members[0].Name)
	assert.False(t, cmd.Expr.Members[0].IsComplete())
}

func TestParse_IncompleteLiterals(t *testing.T) {
	t.Parallel()

	t.Run("open hash literal", func(t *testing.T) {
		t.Parallel()

		cmd := firstCommand(t, parse(t, "new-object -Property @{name "))

		require.Len(t, cmd.Elements, 2)
		hash := cmd.Elements[1].Argument.Primary.Hash
		require.NotNil(t, hash)
		assert.False(t, hash.IsComplete())
		assert.Equal(t, []string{"name"}, hash.Keys())
	})

	t.Run("open type literal", func(t *testing.T) {
		t.Parallel()

		cmd := firstCommand(t, parse(t, "new-object [Us"))

		lit := cmd.Elements[0].Argument.Primary.Type
		require.NotNil(t, lit)
		assert.Equal(t, "Us", lit.Name)
		assert.False(t, lit.IsComplete())
	})

	t.Run("open subexpression", func(t *testing.T) {
		t.Parallel()

		cmd := firstCommand(t, parse(t, "write-output (get-process"))

		sub := cmd.Elements[0].Argument.Primary.Sub
		require.NotNil(t, sub)
		assert.False(t, sub.IsComplete())
	})
}

func TestParse_SemicolonsAndNewlines(t *testing.T) {
	t.Parallel()

	script := parse(t, "a; b\nc")
	assert.Len(t, script.Statements, 3)
}

func TestPathTo_LeafLast(t *testing.T) {
	t.Parallel()

	source := "get-item -Path src/ma"

	script := parse(t, source)

	path := cove.PathTo(script, 18)
	require.NotEmpty(t, path)

	assert.IsType(t, &cove.Script{}, path[0])

	_, isExpr := path[len(path)-1].(*cove.Expr)
	_, isPrimary := path[len(path)-1].(*cove.Primary)
	assert.True(t, isExpr || isPrimary, "path ends at the node under the cursor")

	var sawCommand bool

	for _, n := range path {
		if _, ok := n.(*cove.Command); ok {
			sawCommand = true
		}
	}

	assert.True(t, sawCommand)
}

func TestPathTo_OutsideSpan(t *testing.T) {
	t.Parallel()

	script := parse(t, "a")
	assert.Nil(t, cove.PathTo(script, 99))
}
