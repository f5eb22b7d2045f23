package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-rawmail/cmd/rawmail/cmd"
)

const testMessage = "From: sender@example.com\r\n" +
	"To: a@example.com\r\n" +
	"Bcc: hidden@example.com\r\n" +
	"Message-ID: <m1@example.com>\r\n" +
	"X-Ee-Gateway: gw1\r\n" +
	"\r\n" +
	"Body\r\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := cmd.NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	meta := filepath.Join(t.TempDir(), "meta.yaml")
	out, err := run(t, testMessage, "rewrite", "--metadata", meta)
	require.NoError(t, err)

	assert.NotContains(t, out, "X-Ee-Gateway")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nBody\r\n"))

	data, err := os.ReadFile(meta)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, "<m1@example.com>", m["messageId"])
	assert.Equal(t, "gw1", m["gateway"])
	assert.Equal(t, true, m["hasBcc"])
}

func TestRewrite_Request(t *testing.T) {
	t.Parallel()

	req := writeFile(t, "req.yaml", `
to:
  - New <new@example.com>
bcc: []
subject: Replaced
`)
	msg := writeFile(t, "msg.eml", testMessage)

	out, err := run(t, "", "rewrite", "--request", req, msg)
	require.NoError(t, err)

	assert.Contains(t, out, "To: New <new@example.com>\r\n")
	assert.Contains(t, out, "Subject: Replaced\r\n")
	assert.NotContains(t, out, "Bcc:")
}

func TestCompose(t *testing.T) {
	t.Parallel()

	req := writeFile(t, "req.yaml", `
from:
  - name: Sender
    address: sender@example.com
to:
  - a@example.com
subject: Composed
text: Hello
`)

	out, err := run(t, "", "compose", "--request", req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "From: Sender <sender@example.com>\r\n"))
	assert.Contains(t, out, "Subject: Composed\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nHello"))
}

func TestCompose_RequiresRequest(t *testing.T) {
	t.Parallel()

	_, err := run(t, "", "compose")
	assert.Error(t, err)
}

func TestRemoveBcc(t *testing.T) {
	t.Parallel()

	out, err := run(t, testMessage, "remove-bcc")
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(testMessage, "Bcc: hidden@example.com\r\n", "", 1), out)
}

func TestRoundtrip(t *testing.T) {
	t.Parallel()

	msg := writeFile(t, "msg.eml", testMessage)
	out, err := run(t, "", "roundtrip", msg)
	require.NoError(t, err)
	assert.Equal(t, "ok   "+msg+"\n", out)
}

func TestRoundtrip_Changed(t *testing.T) {
	t.Parallel()

	// a header-only message gains its terminating blank line
	msg := writeFile(t, "msg.eml", "Subject: no body\r\n")
	out, err := run(t, "", "roundtrip", msg)
	assert.ErrorIs(t, err, cmd.ErrRoundTrip)
	assert.True(t, strings.HasPrefix(out, "FAIL "+msg+"\n@@"))
}
