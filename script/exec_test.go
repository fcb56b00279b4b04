package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/corerun/memory"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func runScript(t *testing.T, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Run(input, &out)
	return strings.Join(strings.Fields(out.String()), " "), err
}

var scripts = []struct {
	name   string
	input  string
	output string
}{
	{"integer", `
		int x
		begin
		  x = 5
		  print x
		end`, "5"},
	{"object fields", `
		obj o
		begin
		  o = new(f, 10)
		  print o
		  print o.f
		  o.g = 20
		  print o.g
		  print o
		end`, "gc:1 10 10 20 10 gc:0"},
	{"alias", `
		begin
		  obj a, b
		  a = new(k, 1)
		  b : a
		  b.k = 99
		  print a.k
		end`, "gc:1 99 gc:0"},
	{"scope", `
		begin
		  {
		    obj t
		    t = new(k, 5)
		  }
		  print 1
		end`, "gc:1 gc:0 1"},
	{"call by reference", `
		func f(p) {
		  p.k = 7
		}
		begin
		  obj x
		  x = new(k, 1)
		  call f(x)
		  print x.k
		end`, "gc:1 7 gc:0"},
	{"call by value", `
		func g(n) { n = 100 }
		begin
		  int x
		  x = 1
		  call g(x)
		  print x
		end`, "1"},
	{"local allocation in callee", `
		func mk(p) {
		  obj q
		  q = new(v, 3)
		  p.v = q
		}
		begin
		  obj o
		  o = new(v, 0)
		  call mk(o)
		  print o.v
		end`, "gc:1 gc:2 gc:1 3 gc:0"},
	{"globals released on teardown", `
		obj g
		begin
		  g = new(k, 1)
		end`, "gc:1 gc:0"},
	{"shadowing", `
		int x
		begin
		  x = 1
		  { int x; x = 2; print x }
		  print x
		end`, "2 1"},
}

func TestScripts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "corerun.script")
	defer teardown()
	//
	for _, s := range scripts {
		out, err := runScript(t, s.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", s.name, err)
			continue
		}
		if out != s.output {
			t.Errorf("%s: expected output %q, have %q", s.name, s.output, out)
		}
	}
}

func TestFatalErrorStopsRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "corerun.script")
	defer teardown()
	//
	out, err := runScript(t, `
		begin
		  obj o
		  print 1
		  print o
		  print 2
		end`)
	if err == nil {
		t.Fatalf("expected run to fail")
	}
	if memory.KindOf(err) != memory.NullObjectAccess {
		t.Errorf("expected null object access, got %v", err)
	}
	if out != "1" {
		t.Errorf("expected execution to stop after first print, have %q", out)
	}
	if err.Error() != "Null object access: o" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestPhaseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "corerun.script")
	defer teardown()
	//
	if _, err := runScript(t, "print 1"); !errors.Is(err, ErrNotInBody) {
		t.Errorf("expected %v, got %v", ErrNotInBody, err)
	}
	if _, err := runScript(t, "begin func f() {} end"); !errors.Is(err, ErrFuncInBody) {
		t.Errorf("expected %v, got %v", ErrFuncInBody, err)
	}
	if _, err := runScript(t, "begin begin end"); !errors.Is(err, ErrNestedBegin) {
		t.Errorf("expected %v, got %v", ErrNestedBegin, err)
	}
	if _, err := runScript(t, "end"); !errors.Is(err, ErrEndNotInBody) {
		t.Errorf("expected %v, got %v", ErrEndNotInBody, err)
	}
}

func TestSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "corerun.script")
	defer teardown()
	//
	_, err := Parse("begin\n  x = = 1\nend")
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if serr.Line != 2 || serr.Col != 7 {
		t.Errorf("expected error at 2:7, got %d:%d", serr.Line, serr.Col)
	}
}

func TestScannerErrorPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "corerun.script")
	defer teardown()
	//
	_, err := Parse("begin\n  x = @ 1\nend")
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if serr.Line != 2 || serr.Col != 7 {
		t.Errorf("expected error at unmatched '@' at 2:7, got %d:%d", serr.Line, serr.Col)
	}
}

func TestInteractiveSequence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "corerun.script")
	defer teardown()
	//
	var out bytes.Buffer
	intp := NewInterpreter(WithOutput(&out))
	for _, line := range []string{"obj g", "begin", "g = new(k, 4)", "print g", "end"} {
		nodes, err := Parse(line)
		if err != nil {
			t.Fatal(err)
		}
		if err = intp.Exec(nodes); err != nil {
			t.Fatal(err)
		}
	}
	if intp.InBody() {
		t.Errorf("expected program body to be finished")
	}
	if intp.Memory().Reachable() != 1 {
		t.Errorf("expected global object to stay reachable until reset")
	}
	intp.Reset()
	if got := strings.Join(strings.Fields(out.String()), " "); got != "gc:1 4 gc:0" {
		t.Errorf("unexpected output %q", got)
	}
}
