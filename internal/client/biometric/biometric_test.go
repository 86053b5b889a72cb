package biometric

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, v bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return v }
	t.Cleanup(func() { isTerminal = orig })
}

func evaluate(t *testing.T, input string) (Result, string, error) {
	t.Helper()
	var out bytes.Buffer
	p := NewTerminalPrompt(bufio.NewReader(strings.NewReader(input)), &out, 0)
	r, err := p.Evaluate(context.Background(), "Log in with Face ID")
	return r, out.String(), err
}

func TestEvaluate(t *testing.T) {
	stubTerminal(t, true)

	cases := []struct {
		in   string
		want Result
	}{
		{"y\n", Granted},
		{"YES\n", Granted},
		{"y", Granted},
		{"n\n", Denied},
		{"\n", Denied},
	}
	for _, c := range cases {
		r, out, err := evaluate(t, c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, r, c.in)
		assert.Contains(t, out, "Log in with Face ID")
	}
}

func TestEvaluate_NotATerminal(t *testing.T) {
	stubTerminal(t, false)

	r, out, err := evaluate(t, "y\n")
	require.NoError(t, err)
	assert.Equal(t, Unavailable, r)
	assert.Empty(t, out)
}

func TestEvaluate_EmptyInput(t *testing.T) {
	stubTerminal(t, true)

	r, _, err := evaluate(t, "")
	assert.Error(t, err)
	assert.Equal(t, Unavailable, r)
}

func TestEvaluate_CancelledContext(t *testing.T) {
	stubTerminal(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewTerminalPrompt(bufio.NewReader(strings.NewReader("y\n")), &bytes.Buffer{}, 0)
	r, err := p.Evaluate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Unavailable, r)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "granted", Granted.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "unavailable", Unavailable.String())
}
