/*
Package corerun is the runtime of an interpreter for Core, a small imperative
language with integer variables and heap-allocated objects.

Package structure is as follows:

■ memory: Package memory implements variable storage (global store, call frames,
lexical scopes) and the reference-counted lifetime of heap objects.

■ script: Package script implements a line-oriented statement language which drives
the memory manager, standing in for a full Core executor.

■ cmd/corerun: A command line tool to run scripts or to use them interactively.

The base package contains data types which are used throughout the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package corerun
