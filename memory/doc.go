/*
Package memory implements variable storage and heap-object lifetime for an
interpreter of the small imperative language Core.

Core knows two kinds of variables: scalar integers and objects. Objects are
heap-allocated records mapping string keys to integers, one of the keys being the
object's default key. Variables live either in a global store or in the scopes of a
call frame. Every object carries an owner count, i.e. the number of variable slots
holding a handle to it.

Variable Resolution

A name is resolved by searching the scopes of the active frame, innermost first, then
falling back to the global store. Frames of callers are never inspected: a function
body sees its own locals and the globals, nothing else.

Reference Counting

Every gain or loss of a handle by a slot is routed through a single pair of
operations. Whenever an object's owner count changes from 0 to 1 or from 1 to 0, a
diagnostic line

    gc:<N>

is written, where N is the number of objects currently reachable. Physical
reclamation is left to the Go garbage collector.

Errors

Errors are fatal for a run of a Core program. Operations report them as *Error values
and it is up to the client to terminate.

    m := memory.New(memory.WithDiagnostics(os.Stdout))
    m.InitializeGlobal()
    m.DeclareObject("o")
    m.InitializeLocal()
    if err := m.Allocate("o", "f", 10); err != nil {
        memory.Fatal(err)
    }


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package memory

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'corerun.memory'.
func tracer() tracing.Trace {
	return tracing.Select("corerun.memory")
}
