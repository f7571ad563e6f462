/*
Package biplan implements the interpreter core of BIPLAN, a byte-coded
language meant to run against a fixed set of preallocated buffers on
resource-constrained hosts.

A program is a byte stream of opcodes (Op) produced by an upstream tokenizer;
this package never sees source text, only the stream. The stream is walked
through a Decoder, which the embedder supplies; all host side effects (pins,
serial, print, random, timing) go through a Host, also supplied by the
embedder. Neither interface is implemented here except as a reference for
tests and the CLI, under internal/bytecode and internal/simhost.

The engine itself has four layers, leaves first:

  - the expression evaluator (factor, term, expression, relation)
  - the statement executor (assignment, print, function-call-in-statement-
    position)
  - control flow (if/else, for/next, while/redo, break/continue)
  - function call machinery (caller-save parameter binding, return address
    frames)

An Interpreter owns a State store (fixed arrays for variables, strings,
cycle frames, call frames, and function definitions) and drives these layers
one statement at a time: Run executes at most one statement and returns,
letting the embedder interleave other work between calls. All errors are
fatal: once reported through the bound ErrorFunc callback, the Interpreter
refuses to execute further statements.
*/
package biplan
