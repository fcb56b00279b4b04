package memory

import (
	"testing"
)

func TestNewFrameHasScope(t *testing.T) {
	fr := NewFrame("f")
	if fr.Depth() != 1 || fr.Current() == nil {
		t.Error("new frame should have a single scope")
	}
}

func TestFrameLookupInnermostFirst(t *testing.T) {
	fr := NewFrame("f")
	outer, _ := fr.Current().define("x", IntegerKind)
	fr.PushScope()
	inner, _ := fr.Current().define("x", ObjectKind)
	fr.PushScope()
	if slot := fr.Lookup("x"); slot != inner {
		t.Errorf("expected innermost x, found %v", slot)
	}
	fr.PopScope()
	fr.PopScope()
	if slot := fr.Lookup("x"); slot != outer {
		t.Errorf("expected outer x, found %v", slot)
	}
	if fr.Depth() != 1 {
		t.Errorf("lookup must not change the scope stack, depth is %d", fr.Depth())
	}
}

func TestPopEmptyFrame(t *testing.T) {
	fr := NewFrame("f")
	fr.PopScope()
	if sc := fr.PopScope(); sc != nil {
		t.Errorf("expected nil when popping from empty frame, got %v", sc)
	}
}

func TestCallStack(t *testing.T) {
	cs := new(CallStack)
	main := cs.Push(NewFrame("main"))
	f := cs.Push(NewFrame("f"))
	if cs.Current() != f || cs.Root() != main || cs.Depth() != 2 {
		t.Fatalf("unexpected call stack state")
	}
	if f.IsRoot() || !main.IsRoot() {
		t.Error("only the bottommost frame is root")
	}
	if cs.Pop() != f || cs.Pop() != main || cs.Pop() != nil {
		t.Error("frames should be popped in LIFO order")
	}
	if cs.Depth() != 0 || cs.Root() != nil {
		t.Error("call stack should be empty")
	}
}

func TestScopeRedefine(t *testing.T) {
	sc := NewScope("s")
	first, _ := sc.define("x", IntegerKind)
	second, old := sc.define("x", ObjectKind)
	if old != first || sc.Lookup("x") != second || sc.Size() != 1 {
		t.Error("slot should have been replaced")
	}
}

func TestHeapObjectFields(t *testing.T) {
	obj := newHeapObject("b", 2)
	obj.Put("a", 1)
	if obj.DefaultKey() != "b" || obj.Get("b") != 2 || obj.Get("z") != 0 {
		t.Errorf("unexpected object %v", obj)
	}
	if keys := obj.Keys(); len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("expected sorted keys [a b], got %v", keys)
	}
	if s := obj.String(); s != "{ a=1, *b=2 }#0" {
		t.Errorf("unexpected string %q", s)
	}
}
