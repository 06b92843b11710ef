package atlas

import "testing"

func TestFrameHolders(t *testing.T) {
	f := NewFrame(&stubTexture{w: 32, h: 32}, Rc(0, 0, 8, 8), false, Pt(0, 0), Sz(8, 8))
	if f.Holders() != 0 {
		t.Errorf("Holders = %d, want 0", f.Holders())
	}
	f.Retain()
	f.Retain()
	if f.Holders() != 2 {
		t.Errorf("Holders = %d, want 2", f.Holders())
	}
	f.Release()
	f.Release()
	if f.Holders() != 0 {
		t.Errorf("Holders = %d, want 0", f.Holders())
	}
}

func TestFrameReleaseUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Release without Retain should panic")
		}
	}()
	f := NewFrame(&stubTexture{w: 32, h: 32}, Rc(0, 0, 8, 8), false, Pt(0, 0), Sz(8, 8))
	f.Release()
}

func TestFrameTextureRebindIsObservable(t *testing.T) {
	t1 := &stubTexture{w: 32, h: 32}
	t2 := &stubTexture{w: 64, h: 64}
	f := NewFrame(t1, Rc(0, 0, 8, 8), false, Pt(0, 0), Sz(8, 8))
	if f.Texture() != t1 {
		t.Error("initial texture mismatch")
	}
	f.setTexture(t2)
	if f.Texture() != t2 {
		t.Error("rebound texture mismatch")
	}
	if f.Rect() != Rc(0, 0, 8, 8) {
		t.Error("rebind must not touch geometry")
	}
}

func TestFrameNameAssignedOnInsert(t *testing.T) {
	c := New(nil, nil)
	f := NewFrame(&stubTexture{w: 32, h: 32}, Rc(0, 0, 8, 8), false, Pt(0, 0), Sz(8, 8))
	if f.Name() != "" {
		t.Errorf("Name = %q before insert, want empty", f.Name())
	}
	c.AddFrame(f, "dot")
	if f.Name() != "dot" {
		t.Errorf("Name = %q, want dot", f.Name())
	}
}
