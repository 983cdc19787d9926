package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderByAlias(t *testing.T) {
	out, err := runCmd(t, `{"team":{"name":"Acme"},"user":{"name":"<Ana>"}}`,
		"render", "--file", filepath.Join("testdata", "templates.yaml"), "--alias", "team/welcome", "--model", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "Subject: Welcome to Acme")
	assert.Contains(t, out, "<p>Hi &lt;Ana&gt;</p>")
}

func TestRenderByIDNoEscape(t *testing.T) {
	out, err := runCmd(t, `{"count":2,"items":["a<b","c"]}`,
		"render", "-f", filepath.Join("testdata", "templates.yaml"), "--id", "2", "-m", "-", "--escape", "none")
	require.NoError(t, err)

	assert.Contains(t, out, "Subject: 2 updates")
	assert.Contains(t, out, "<li>a<b</li><li>c</li>")
	assert.Contains(t, out, "* a<b\n* c\n")
}

func TestRenderWithoutModel(t *testing.T) {
	out, err := runCmd(t, "", "render", "-f", filepath.Join("testdata", "templates.yaml"), "--id", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing new")
}

func TestRenderErrors(t *testing.T) {
	file := filepath.Join("testdata", "templates.yaml")
	tests := []struct {
		name string
		args []string
	}{
		{"no reference", []string{"render", "-f", file}},
		{"unknown alias", []string{"render", "-f", file, "--alias", "team"}},
		{"bad escape", []string{"render", "-f", file, "--id", "1", "--escape", "xml"}},
		{"missing file flag", []string{"render", "--id", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestLint(t *testing.T) {
	out, err := runCmd(t, "", "lint", "-f", filepath.Join("testdata", "templates.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "2 templates ok")

	out, err = runCmd(t, "", "lint", "-f", filepath.Join("testdata", "broken.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errLintFailed))
	assert.Contains(t, out, "template 7 (broken) html:")
	assert.Contains(t, out, "template 7 (broken) text:")
	assert.NotContains(t, out, "subject:")
}
