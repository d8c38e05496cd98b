/*
Command lrcc compiles grammars in EBNF notation into LR(1) parse tables and
shows the intermediate results:

    lrcc first  expr.ebnf            FIRST sets of the normalized grammar
    lrcc states expr.ebnf            LR(1) automaton
    lrcc table  expr.ebnf            parse table (--html for an HTML page)
    lrcc parse  expr.ebnf "1+(2+3)"  recognize input with the parse table
    lrcc shell                       interactive mode

Input for 'parse' is tokenized with a Go-like scanner: identifiers, numbers,
strings and characters are reported as the terminals ident, int, float,
string and char. Operators and keywords of the grammar stand for themselves.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"os"
)

func main() {
	initDisplay()
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
