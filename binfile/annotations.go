package binfile

import "github.com/modern-go/reflect2"

// AnnotationKey names an annotation slot. Keys compare by pointer identity,
// not by name: two keys built with the same name address different slots.
// Features declare their keys as package-level variables.
type AnnotationKey struct {
	name string
}

// NewAnnotationKey allocates a new key. The name is for diagnostics only.
func NewAnnotationKey(name string) *AnnotationKey {
	return &AnnotationKey{name: name}
}

func (k *AnnotationKey) String() string { return k.name }

// annSlot addresses one stored value: the key's identity plus the rtype of
// the value's pointer type. The same key used with two value types yields two
// independent slots.
type annSlot struct {
	key   *AnnotationKey
	rtype uintptr
}

func slotFor[T any](key *AnnotationKey) annSlot {
	return annSlot{key: key, rtype: reflect2.RTypeOf((*T)(nil))}
}

// Annotation returns the value stored on f under key, allocating a zero T on
// first use. Repeated calls with the same key and type return the same
// pointer. The store is instance-scoped with no ordering guarantees.
func Annotation[T any](f *File, key *AnnotationKey) *T {
	slot := slotFor[T](key)
	if v, ok := f.ann[slot]; ok {
		return v.(*T)
	}
	v := new(T)
	if f.ann == nil {
		f.ann = make(map[annSlot]any)
	}
	f.ann[slot] = v
	return v
}

// LookupAnnotation returns the stored value without creating one.
func LookupAnnotation[T any](f *File, key *AnnotationKey) (*T, bool) {
	v, ok := f.ann[slotFor[T](key)]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// RemoveAnnotation drops the value stored under key with value type T.
func RemoveAnnotation[T any](f *File, key *AnnotationKey) {
	delete(f.ann, slotFor[T](key))
}
