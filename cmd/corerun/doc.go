/*
Command corerun runs scripts against the Core memory manager, or lets users enter
script statements interactively. It serves as a sandbox for watching heap objects
become reachable and unreachable while variables are declared, aliased and go out
of scope.

Usage:

    corerun [-trace Debug|Info|Error] [-i] [-nonzero-exit] [-panic-on-fatal] [script-file]

Without a script file, or with -i after running it, corerun starts an interactive
shell. Statements spanning several lines (function definitions, blocks) are collected
until their braces balance. Shell commands start with a colon:

    :heap    display the visible scopes and their variables
    :reset   tear down and re-initialize global memory
    :quit    leave the shell

Fatal errors print a line

    ERROR: <message>: <identifier>

and terminate a script run. The exit status is 0, unless -nonzero-exit is given or
configuration flag nonzero-exit-on-error is set. -panic-on-fatal (or configuration
flag panic-on-fatal) panics instead of exiting.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'corerun.script'
func tracer() tracing.Trace {
	return tracing.Select("corerun.script")
}
