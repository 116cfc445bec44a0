package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Siddarth2230/kiters/pkg/eid"
	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/timestamp"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestRid(t *testing.T) {
	out, err := execute(t, "rid", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"BAAAAA", "CAAAAA", "DAAAAA"}, lines(out))

	out, err = execute(t, "rid", "--width", "wide")
	require.NoError(t, err)
	assert.Equal(t, []string{"BAAAAAAAAAA"}, lines(out))

	out, err = execute(t, "rid", "-w", "wide", "--mixed", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{idgen.EncodeWideMixed(1).String(), idgen.EncodeWideMixed(2).String()}, lines(out))
}

func TestRid_Errors(t *testing.T) {
	_, err := execute(t, "rid", "-w", "huge")
	assert.ErrorIs(t, err, idgen.ErrInvalidWidth)

	_, err = execute(t, "rid", "-n", "0")
	assert.Error(t, err)

	_, err = execute(t, "rid", "extra")
	assert.Error(t, err)
}

func TestEid(t *testing.T) {
	out, err := execute(t, "eid", "user", "-n", "2")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0], got[1])
	for _, s := range got {
		id, err := eid.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, "user", id.Prefix)
	}

	_, err = execute(t, "eid", "Bad-Prefix")
	assert.ErrorIs(t, err, eid.ErrInvalidPrefix)
}

func TestNow(t *testing.T) {
	out, err := execute(t, "now")
	require.NoError(t, err)
	_, err = timestamp.Parse(strings.TrimSpace(out))
	assert.NoError(t, err)
}
