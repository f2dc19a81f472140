/*
Package lr implements LR automata, parse tables and the bottom-up
translation driver for translation grammars.

Automaton Construction

All LR variants share one scaffold: a vector of states, an isocore table
mapping LR(0) kernels to the states carrying them, and a depth-first
expander. Lookaheads are kept relational during construction — every item
holds a set of generated lookahead terminals plus a list of lookahead
sources (state, item) pointing at upstream items — and are resolved to
literal terminal sets on demand or in a final pass. The variants differ only
in their merge policy:

■ Canonical merges two isocores only when their resolved lookaheads are
identical, yielding the full LR(1) automaton.

■ LALR merges every isocore unconditionally, which may introduce conflicts
canonical LR does not have.

■ LSCELR builds LALR first, detects the conflicts that merging introduced,
propagates the conflict-causing lookaheads to the upstream states that
contribute them, splits those states, and re-merges with a compatibility
test that masks lookaheads by the potential conflict contributions. The
result accepts the full LR(1) language at a state count close to LALR.

Tables and Driver

From a constructed automaton, BuildTable derives a row-compressed
ACTION/GOTO table, resolving shift/reduce conflicts by declared operator
precedence (BuildStrictTable refuses all conflicts instead). An SLR(1)
table built from the LR(0) automaton and FOLLOW sets is available for small
grammars. Tables can be serialized to a compact text format and read back,
so they may be precomputed.

Translator drives a table over a token stream: a standard shift-reduce loop
records the applied rules, and after a successful parse the rule log is
replayed in reverse over two projection pushdowns to build the attributed
output token stream.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lr

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'tango.lr'.
func tracer() tracing.Trace {
	return tracing.Select("tango.lr")
}
