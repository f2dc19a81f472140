/*
Package tg implements translation grammars.

A translation grammar is a context-free grammar whose rules carry a parallel
output pattern: every rule has an input string and an output string over the
same nonterminals (in the same order), plus attribute-routing actions that
say which output positions receive each input terminal's attribute. A parser
driven by such a grammar performs syntax-directed translation: it recognizes
the input language and emits the corresponding output token stream in one
pass.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add rules,
consisting of nonterminal and terminal names, an optional output side, and
attribute routes:

	b := tg.NewBuilder("parens")
	b.Rule("S").N("S").T("o").N("A").Out().T("1").N("S").N("A").Route(0, 0).End()
	b.Rule("S").N("A").Out().T("2").N("A").End()
	b.Rule("A").T("i").Out().T("3").Route(0, 0).End()
	b.Rule("A").T("(").N("S").T(")").Out().T("4").N("S").Route(0, 0).End()
	g, err := b.Grammar("S")

The builder interns names, assigns dense symbol ids in sorted name order and
augments the grammar with a fresh start rule S' → S EOF, which is always the
last rule.

Static Grammar Analysis

After the grammar is complete, it can be subjected to analysis, which
computes the EMPTY, FIRST, FOLLOW and PREDICT sets as monotone fixed points:

	a := tg.Analyze(g)
	first := a.First(nt)    // FIRST-set of a nonterminal, as a terminal set

These sets feed both the LR automaton builders (package lr) and the LL
decision tables (package ll).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package tg

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'tango.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("tango.grammar")
}
