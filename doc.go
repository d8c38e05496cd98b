/*
Package lrcc is a compiler for LR(1) parse tables.

Given a context-free grammar, lrcc normalizes it, computes FIRST sets and
lambda-derivability, builds a canonical LR(1) automaton and flattens it into
a parse table. Package structure is as follows:

■ lr: Package lr contains the grammar model, grammar analysis, the LR(1) state
builder and the table assembler.

■ lr/normalize: Package normalize rewrites grammars into a form suitable for
the state builder (removing left recursion, duplicates and unused parts).

■ lr/compiler: Package compiler chains normalization, analysis and table
construction.

■ lr/ebnfload: Package ebnfload reads grammars in EBNF notation.

■ lr/scanner, lr/driver: thin collaborators for tokenizing input and driving
a parse with a finished table.

■ cmd/lrcc: a command line tool and interactive shell on top of all of the above.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lrcc
