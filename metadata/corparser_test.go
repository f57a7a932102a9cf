package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrscope/clrscope/metadata"
	"github.com/clrscope/clrscope/peimage"
	"github.com/clrscope/clrscope/peimage/testpe"
)

func openImage(t *testing.T, name string, raw []byte) peimage.Image {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	img, err := peimage.Open(path, false)
	require.NoError(t, err)
	return img
}

func TestCorParserParseModule(t *testing.T) {
	img := openImage(t, "Lib.Core.dll", testpe.Managed())
	ctx := metadata.NewContext(nil)

	mod, err := metadata.NewCorParser().ParseModule(img, ctx)
	require.NoError(t, err)
	defer mod.Close()

	assert.Equal(t, "Lib.Core", mod.Name())
	assert.Equal(t, img.Path(), mod.Location())
	assert.False(t, mod.HasSymbols())

	asm, ok := mod.Assembly()
	require.True(t, ok)
	assert.Equal(t, "Lib.Core", asm.Name())
	assert.Same(t, mod, asm.ManifestModule())

	got, ok := mod.Image()
	require.True(t, ok)
	assert.Same(t, img, got)
}

func TestCorParserRejectsNativeImage(t *testing.T) {
	img := openImage(t, "native.exe", testpe.Native())
	defer img.Close()

	_, err := metadata.NewCorParser().ParseModule(img, metadata.NewContext(nil))
	assert.Error(t, err)
}

func TestCorModuleLoadSymbols(t *testing.T) {
	img := openImage(t, "App.dll", testpe.Managed())
	mod, err := metadata.NewCorParser().ParseModule(img, metadata.NewContext(nil))
	require.NoError(t, err)
	defer mod.Close()

	pdb := filepath.Join(filepath.Dir(img.Path()), "App.pdb")
	require.NoError(t, os.WriteFile(pdb, append([]byte("BSJB"), make([]byte, 16)...), 0o600))

	require.NoError(t, mod.LoadSymbols(pdb))
	assert.True(t, mod.HasSymbols())
}

func TestCorModuleLoadSymbolsRejectsGarbage(t *testing.T) {
	img := openImage(t, "App.dll", testpe.Managed())
	mod, err := metadata.NewCorParser().ParseModule(img, metadata.NewContext(nil))
	require.NoError(t, err)
	defer mod.Close()

	bad := filepath.Join(filepath.Dir(img.Path()), "App.pdb")
	require.NoError(t, os.WriteFile(bad, []byte("not symbols"), 0o600))

	assert.Error(t, mod.LoadSymbols(bad))
	assert.False(t, mod.HasSymbols())
}
