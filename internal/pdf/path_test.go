package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathGuard(t *testing.T) {
	_, err := NewPathGuard("")
	assert.Error(t, err)

	g, err := NewPathGuard("/srv/docs")
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", g.Root())
}

func TestPathGuard_Resolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "reports"), 0o755))

	g, err := NewPathGuard(root)
	require.NoError(t, err)

	got, err := g.Resolve("reports/q1.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "reports", "q1.pdf"), got)

	got, err = g.Resolve(filepath.Join(root, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a.pdf"), got)

	_, err = g.Resolve("../escape.pdf")
	assert.ErrorContains(t, err, "outside configured directory")

	_, err = g.Resolve("/etc/passwd")
	assert.Error(t, err)

	_, err = g.Resolve("\x00")
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestPathGuard_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	link := filepath.Join(root, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	g, err := NewPathGuard(root)
	require.NoError(t, err)

	_, err = g.Resolve("link.pdf")
	assert.Error(t, err)
}

func TestPathGuard_MissingRootAcceptsAll(t *testing.T) {
	g, err := NewPathGuard(filepath.Join(t.TempDir(), "not-yet"))
	require.NoError(t, err)

	_, err = g.Resolve("/anywhere/file.pdf")
	assert.NoError(t, err)
}
