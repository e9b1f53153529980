package framegraph

import "testing"

type testTexture struct {
	width, height int
}

type testBuffer struct {
	size int
}

func TestRegistryInsertGet(t *testing.T) {
	reg := NewRegistry()

	h := Insert(reg, testTexture{width: 256, height: 256})
	got, ok := Get(reg, h)
	if !ok {
		t.Fatal("Get() should find a freshly inserted resource")
	}
	if got.width != 256 || got.height != 256 {
		t.Errorf("Get() = %+v, want {256 256}", got)
	}
}

func TestRegistryTypesAreSegregated(t *testing.T) {
	reg := NewRegistry()

	th := Insert(reg, testTexture{width: 64, height: 64})
	bh := Insert(reg, testBuffer{size: 1024})

	// A buffer handle forged from a texture's ID must not resolve.
	forged := Handle[testBuffer]{id: th.ID()}
	if _, ok := Get(reg, forged); ok {
		t.Error("a handle of the wrong type must not resolve")
	}

	if buf, ok := Get(reg, bh); !ok || buf.size != 1024 {
		t.Errorf("Get(buffer) = %+v, %v; want {1024}, true", buf, ok)
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()

	h := Insert(reg, testBuffer{size: 16})
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}

	Remove(reg, h)
	if _, ok := Get(reg, h); ok {
		t.Error("Get() should miss after Remove")
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}

	// Removing again is a no-op.
	Remove(reg, h)
}

func TestRegistryGetMissing(t *testing.T) {
	reg := NewRegistry()

	if _, ok := Get(reg, NewHandle[testTexture]()); ok {
		t.Error("Get() should miss for a handle that was never inserted")
	}
}

func TestRegistryLenCountsAcrossTypes(t *testing.T) {
	reg := NewRegistry()

	Insert(reg, testTexture{})
	Insert(reg, testTexture{})
	Insert(reg, testBuffer{})

	if got := reg.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}
