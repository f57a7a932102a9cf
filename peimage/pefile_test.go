package peimage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrscope/clrscope/peimage"
	"github.com/clrscope/clrscope/peimage/testpe"
)

func writeTemp(t *testing.T, name string, raw []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestOpen(t *testing.T) {
	path := writeTemp(t, "native.exe", testpe.Native())

	for _, mapped := range []bool{false, true} {
		img, err := peimage.Open(path, mapped)
		require.NoError(t, err, "mapped=%v", mapped)

		assert.Equal(t, path, img.Path())
		assert.Equal(t, int64(0x400), img.Size())
		assert.Equal(t, uint16(0x14c), img.Machine())
		assert.False(t, img.Is64Bit())
		assert.False(t, peimage.IsManaged(img))
		require.NoError(t, img.Close())
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	tests := map[string][]byte{
		"empty":     {},
		"truncated": testpe.Native()[:0x40],
		"not_pe":    []byte("#!/bin/sh\necho hi\n"),
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeTemp(t, name, raw)
			_, err := peimage.Open(path, false)
			assert.Error(t, err)
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := peimage.Open(filepath.Join(t.TempDir(), "nope.dll"), false)
	assert.Error(t, err)
}

func TestIsManagedThreshold(t *testing.T) {
	tests := []struct {
		name    string
		va      uint32
		size    uint32
		managed bool
	}{
		{"no_directory", 0, 0, false},
		{"zero_va_large_size", 0, 0x1000, false},
		{"below_threshold", testpe.CorRVA, 0x47, false},
		{"at_threshold", testpe.CorRVA, 0x48, true},
		{"above_threshold", testpe.CorRVA, 0x100, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img, err := peimage.NewFromBytes("", testpe.Build(tc.va, tc.size))
			require.NoError(t, err)
			defer img.Close()
			assert.Equal(t, tc.managed, peimage.IsManaged(img))
		})
	}
}

func TestDataDirectoryBounds(t *testing.T) {
	img, err := peimage.NewFromBytes("", testpe.Native())
	require.NoError(t, err)
	defer img.Close()

	_, ok := img.DataDirectory(-1)
	assert.False(t, ok)
	_, ok = img.DataDirectory(16)
	assert.False(t, ok)
	_, ok = img.DataDirectory(peimage.DataDirectoryEntryComDescriptor)
	assert.True(t, ok)
}

func TestReadRVA(t *testing.T) {
	img, err := peimage.NewFromBytes("", testpe.Managed())
	require.NoError(t, err)
	defer img.Close()

	buf := make([]byte, 4)
	require.NoError(t, img.ReadRVA(testpe.CorRVA, buf))
	assert.Equal(t, []byte{0x48, 0, 0, 0}, buf)

	assert.Error(t, img.ReadRVA(0xdead0000, buf), "rva outside every section")
}
