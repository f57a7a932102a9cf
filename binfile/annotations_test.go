package binfile_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrscope/clrscope/binfile"
)

type treeState struct {
	Expanded bool
	Children int
}

type decompileCache struct {
	Source string
}

func TestAnnotationGetOrCreate(t *testing.T) {
	f := binfile.NewUnrecognized("/a/b/Foo.dll")
	key := binfile.NewAnnotationKey("tree-state")

	first := binfile.Annotation[treeState](f, key)
	first.Expanded = true

	second := binfile.Annotation[treeState](f, key)
	assert.Same(t, first, second, "same key and type return the same instance")
	assert.True(t, second.Expanded)
}

func TestAnnotationIndependentPerValueType(t *testing.T) {
	f := binfile.NewUnrecognized("/a/b/Foo.dll")
	key := binfile.NewAnnotationKey("shared-key")

	st := binfile.Annotation[treeState](f, key)
	cache := binfile.Annotation[decompileCache](f, key)
	cache.Source = "class C {}"

	assert.True(t, st.Children == 0 && cache.Source == "class C {}",
		"same key with two value types addresses two independent slots")
}

func TestAnnotationKeyIdentity(t *testing.T) {
	f := binfile.NewUnrecognized("/a/b/Foo.dll")
	a := binfile.NewAnnotationKey("state")
	b := binfile.NewAnnotationKey("state")

	binfile.Annotation[treeState](f, a).Children = 3

	got, ok := binfile.LookupAnnotation[treeState](f, b)
	assert.False(t, ok, "keys compare by identity, not by name")
	assert.Nil(t, got)
}

func TestAnnotationIndependentPerInstance(t *testing.T) {
	key := binfile.NewAnnotationKey("tree-state")
	a := binfile.NewUnrecognized("/a/b/Foo.dll")
	b := binfile.NewUnrecognized("/a/b/Bar.dll")

	binfile.Annotation[treeState](a, key).Children = 7

	got, ok := binfile.LookupAnnotation[treeState](b, key)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRemoveAnnotation(t *testing.T) {
	f := binfile.NewUnrecognized("/a/b/Foo.dll")
	key := binfile.NewAnnotationKey("tree-state")

	binfile.Annotation[treeState](f, key).Expanded = true
	binfile.Annotation[decompileCache](f, key).Source = "x"

	binfile.RemoveAnnotation[treeState](f, key)

	_, ok := binfile.LookupAnnotation[treeState](f, key)
	assert.False(t, ok)
	cache, ok := binfile.LookupAnnotation[decompileCache](f, key)
	require.True(t, ok, "removal is scoped to the value type")
	assert.Equal(t, "x", cache.Source)

	fresh := binfile.Annotation[treeState](f, key)
	assert.False(t, fresh.Expanded, "re-create after remove starts from zero")
}

func TestContentKey(t *testing.T) {
	k1, err := binfile.NewContentKey(bytes.NewReader([]byte("same bytes")))
	require.NoError(t, err)
	k2, err := binfile.NewContentKey(bytes.NewReader([]byte("same bytes")))
	require.NoError(t, err)
	k3, err := binfile.NewContentKey(bytes.NewReader([]byte("other bytes")))
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
