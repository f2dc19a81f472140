/*
Package tango is a syntax-directed translation toolbox.

Tango builds deterministic bottom-up parsers from translation grammars —
grammars whose rules carry a parallel output pattern and per-terminal
attribute-routing actions — and drives them over a token stream to emit an
attributed output token stream. Package structure is as follows:

■ tg: Package tg implements translation grammars, a fluent grammar builder,
operator precedence declarations and the EMPTY/FIRST/FOLLOW/PREDICT
predictive sets.

■ lr: Package lr implements LR items and closures, the canonical-LR(1), LALR
and LSCELR automaton builders, compact ACTION/GOTO tables with precedence
conflict resolution, and the shift-reduce translation driver.

■ ll: Package ll implements LL(1)-style decision tables and a predictive
top-down translation driver for grammars that permit it.

■ scanner, output, translate: adapters for token sources and output sinks,
and a facade tying lexer, driver and generator together.

The base package contains data types which are used throughout all the other
packages: symbols, tokens, locations, attributes and terminal sets.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package tango
