/*
Package script implements a small statement language to drive the Core memory
manager. Every statement maps to exactly one operation of package memory; there are
no expressions beyond literals and variable access.

    int x                     declare an integer variable
    obj o, p                  declare object variables
    func f(a, b) { … }        define a function (before 'begin' only)
    begin                     start the program body
      x = 5                   store a literal, or x = y, or x = o.k
      o = new(k, 10)          allocate an object with default key k
      o.g = 20                store a field
      p : o                   alias p to o's object
      print o.g               print a value
      { … }                   a nested lexical scope
      call f(x, o)            call a function
    end                       finish the program body

Comments start with '#' or '//' and extend to the end of the line.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package script

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'corerun.script'.
func tracer() tracing.Trace {
	return tracing.Select("corerun.script")
}
