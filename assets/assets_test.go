package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestAttach(t *testing.T) {
	base := t.TempDir()
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "Login Error.PNG")
	require.NoError(t, os.WriteFile(src, []byte("fake image"), 0644))

	m := New(zerolog.Nop(), base, "assets")
	ref, err := m.Attach(src)
	require.NoError(t, err)
	require.Regexp(t, `^assets/[a-z2-7]{26}\.png$`, ref)

	stored, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(ref)))
	require.NoError(t, err)
	require.Equal(t, "fake image", string(stored))

	// same content, same reference
	again, err := m.Attach(src)
	require.NoError(t, err)
	require.Equal(t, ref, again)

	// the original can go away without breaking the reference
	require.NoError(t, os.Remove(src))
	data, err := NewResolver(base).ReadFile(ref)
	require.NoError(t, err)
	require.Equal(t, "fake image", string(data))
}

func TestAttachMissingSource(t *testing.T) {
	m := New(zerolog.Nop(), t.TempDir(), "assets")
	_, err := m.Attach(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "assets", "a.png"), nil, 0644))

	r := NewResolver(base)
	require.Equal(t, filepath.Join(base, "assets", "a.png"), r.Resolve("assets/a.png"))
	require.Equal(t, filepath.FromSlash("elsewhere/b.png"), r.Resolve("elsewhere/b.png"))

	abs := filepath.Join(base, "x.png")
	require.Equal(t, abs, r.Resolve(abs))
}
