// File: internal/analysis/pyast/pyast_test.go
package pyast

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p := NewParser()

	t.Run("valid source", func(t *testing.T) {
		root, err := p.Parse(context.Background(), []byte("x = 1\n"))
		require.NoError(t, err)
		assert.Equal(t, "module", root.Type())
	})

	t.Run("invalid source is an error", func(t *testing.T) {
		_, err := p.Parse(context.Background(), []byte("def (broken\n"))
		assert.Error(t, err)
	})
}

func TestCalls(t *testing.T) {
	p := NewParser()
	source := []byte("open('f')\nconn.execute(q)\nget_handler()(x)\n")
	root, err := p.Parse(context.Background(), source)
	require.NoError(t, err)

	calls := Calls(root, source)
	require.Len(t, calls, 4)

	assert.Equal(t, "open", calls[0].Name)
	assert.Empty(t, calls[0].Attr)

	assert.Empty(t, calls[1].Name)
	assert.Equal(t, "execute", calls[1].Attr)

	// get_handler()(x): the outer call's callee is itself a call, so both
	// Name and Attr stay empty for it.
	var anonymous int
	for _, c := range calls {
		if c.Name == "" && c.Attr == "" {
			anonymous++
		}
	}
	assert.Equal(t, 1, anonymous)
}

func TestCallKeyword(t *testing.T) {
	p := NewParser()
	source := []byte("subprocess.run(cmd, shell=True, check=False)\n")
	root, err := p.Parse(context.Background(), source)
	require.NoError(t, err)

	calls := Calls(root, source)
	require.Len(t, calls, 1)

	shell := calls[0].Keyword("shell", source)
	require.NotNil(t, shell)
	assert.Equal(t, "true", shell.Type())

	assert.Nil(t, calls[0].Keyword("timeout", source))
}

func TestStringLiteral(t *testing.T) {
	p := NewParser()
	source := []byte("a = 'single'\nb = \"double\"\nc = '''triple'''\nd = r\"raw\"\ne = 42\n")
	root, err := p.Parse(context.Background(), source)
	require.NoError(t, err)

	var got []string
	Walk(root, func(n *sitter.Node) bool {
		if text, ok := StringLiteral(n, source); ok {
			got = append(got, text)
			return false
		}
		return true
	})
	assert.Equal(t, []string{"single", "double", "triple", "raw"}, got)
}
