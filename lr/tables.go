package lr

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/npillmayer/lrcc/lr/sparse"
	"github.com/npillmayer/schuko/gconf"
	"go.uber.org/multierr"
)

// === Table Entries =========================================================

// ActionKind discerns the entries of a parse table.
type ActionKind int

// Kinds of table entries.
const (
	NoAction ActionKind = iota
	ShiftAction
	ReduceAction
	GotoAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case GotoAction:
		return "goto"
	case AcceptAction:
		return "accept"
	}
	return "none"
}

// Entry is a decoded table cell. State is set for shift and goto, Rule is set
// for reduce.
type Entry struct {
	Kind  ActionKind
	State int
	Rule  *Rule
}

func (e Entry) String() string {
	switch e.Kind {
	case ShiftAction, GotoAction:
		return fmt.Sprintf("%s %d", e.Kind, e.State)
	case ReduceAction:
		return fmt.Sprintf("reduce %s", e.Rule)
	}
	return e.Kind.String()
}

// Entries are stored as int32 in a sparse matrix. The lower two bits carry
// the kind, the rest the state or rule index.
const (
	tagShift  = 0
	tagGoto   = 1
	tagReduce = 2
	tagAccept = 3
)

// === Table =================================================================

// Table is the parse table of a grammar: (state, symbol) → action. Symbols are
// addressed by name; tokens and terms share one column space.
// A cell holding two entries records a conflict.
type Table struct {
	matrix    *sparse.IntMatrix
	columns   map[string]int
	symbols   []string
	rules     []*Rule
	ruleIndex map[*Rule]int
}

func newTable(g *Grammar, stateCount int) *Table {
	t := &Table{
		columns:   make(map[string]int),
		ruleIndex: make(map[*Rule]int),
	}
	for _, tok := range g.Tokens() {
		t.addColumn(tok.name)
	}
	for _, term := range g.terms {
		t.addColumn(term.name)
	}
	for _, r := range g.Rules() {
		t.ruleIndex[r] = len(t.rules)
		t.rules = append(t.rules, r)
	}
	t.matrix = sparse.NewIntMatrix(stateCount, len(t.symbols), sparse.DefaultNullValue)
	return t
}

func (t *Table) addColumn(name string) {
	t.columns[name] = len(t.symbols)
	t.symbols = append(t.symbols, name)
}

func (t *Table) encode(e Entry) int32 {
	switch e.Kind {
	case ShiftAction:
		return int32(e.State<<2 | tagShift)
	case GotoAction:
		return int32(e.State<<2 | tagGoto)
	case ReduceAction:
		return int32(t.ruleIndex[e.Rule]<<2 | tagReduce)
	}
	return tagAccept
}

func (t *Table) decode(v int32) Entry {
	if v == t.matrix.NullValue() {
		return Entry{}
	}
	n := int(v >> 2)
	switch v & 3 {
	case tagShift:
		return Entry{Kind: ShiftAction, State: n}
	case tagGoto:
		return Entry{Kind: GotoAction, State: n}
	case tagReduce:
		return Entry{Kind: ReduceAction, Rule: t.rules[n]}
	}
	return Entry{Kind: AcceptAction}
}

// Action returns the primary entry for (state, symbol). The second return
// value is false for an empty cell or an unknown symbol.
func (t *Table) Action(state int, symbol string) (Entry, bool) {
	col, ok := t.columns[symbol]
	if !ok || state < 0 || state >= t.matrix.M() {
		return Entry{}, false
	}
	e := t.decode(t.matrix.Value(state, col))
	return e, e.Kind != NoAction
}

// Entries returns all entries of a cell. More than one entry means the cell
// holds a conflict.
func (t *Table) Entries(state int, symbol string) []Entry {
	col, ok := t.columns[symbol]
	if !ok || state < 0 || state >= t.matrix.M() {
		return nil
	}
	var entries []Entry
	a, b := t.matrix.Values(state, col)
	for _, v := range []int32{a, b} {
		if v != t.matrix.NullValue() {
			entries = append(entries, t.decode(v))
		}
	}
	return entries
}

// Rule returns rule number n, or nil.
func (t *Table) Rule(n int) *Rule {
	if n < 0 || n >= len(t.rules) {
		return nil
	}
	return t.rules[n]
}

// StateCount returns the number of rows.
func (t *Table) StateCount() int {
	return t.matrix.M()
}

// Symbols returns the column names: tokens sorted by name, then terms.
func (t *Table) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

// String lists all non-empty cells, one per line:
//
//     3 +: shift 5
//     4 $EOF: reduce E'0 → λ
//
func (t *Table) String() string {
	var b strings.Builder
	t.matrix.Each(func(i, j int, v1, v2 int32) {
		fmt.Fprintf(&b, "%d %s: %s", i, t.symbols[j], t.decode(v1))
		if v2 != t.matrix.NullValue() {
			fmt.Fprintf(&b, " / %s", t.decode(v2))
		}
		b.WriteByte('\n')
	})
	return b.String()
}

// TableAsHTML exports a parse table in HTML-format.
func TableAsHTML(t *Table, w io.Writer) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "Parse table with %d entries<p>", t.matrix.ValueCount())
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, sym := range t.symbols {
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(sym))
	}
	b.WriteString("</tr>\n")
	for i := 0; i < t.matrix.M(); i++ {
		fmt.Fprintf(&b, "<tr><td>state %d</td>\n", i)
		for _, sym := range t.symbols {
			var td string
			switch entries := t.Entries(i, sym); len(entries) {
			case 0:
				td = "&nbsp;"
			case 1:
				td = html.EscapeString(entries[0].String())
			default:
				td = html.EscapeString(entries[0].String() + " / " + entries[1].String())
			}
			b.WriteString("<td>")
			b.WriteString(td)
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR(1) parser tables.
// Clients usually create a Grammar G, then an Analyzer for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and the parse table for an LR(1)-parser recognizing grammar G.
//
// Table construction augments G.
type TableGenerator struct {
	g            *Grammar
	ga           *Analyzer
	dfa          *CFSM
	table        *Table
	shiftBias    bool
	log          *Log
	HasConflicts bool
}

// TableOption configures a TableGenerator.
type TableOption func(*TableGenerator)

// ShiftBias resolves shift/reduce conflicts of the dangling-else class to
// shift. Default is taken from configuration key "lr.table.shift-bias".
func ShiftBias(b bool) TableOption {
	return func(lrgen *TableGenerator) {
		lrgen.shiftBias = b
	}
}

// WithLog directs diagnostics of the table generator to log.
func WithLog(log *Log) TableOption {
	return func(lrgen *TableGenerator) {
		lrgen.log = log
	}
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *Analyzer, opts ...TableOption) *TableGenerator {
	lrgen := &TableGenerator{
		g:         ga.Grammar(),
		ga:        ga,
		shiftBias: gconf.GetBool("lr.table.shift-bias"),
	}
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() (*CFSM, error) {
	if lrgen.dfa == nil {
		dfa, err := buildCFSM(lrgen.ga)
		if err != nil {
			return nil, err
		}
		lrgen.dfa = dfa
	}
	return lrgen.dfa, nil
}

// Table returns the parse table, or nil if CreateTables() has not been called.
func (lrgen *TableGenerator) Table() *Table {
	if lrgen.table == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
	}
	return lrgen.table
}

// Log returns the diagnostics log of the generator, if any.
func (lrgen *TableGenerator) Log() *Log {
	return lrgen.log
}

// CreateTables builds the CFSM and assembles the parse table. Conflicts do
// not stop table assembly: the table is complete, with colliding cells holding
// both entries, and the returned error lists every conflict (see Conflicts).
func (lrgen *TableGenerator) CreateTables() error {
	dfa, err := lrgen.CFSM()
	if err != nil {
		return err
	}
	states := dfa.States()
	t := newTable(lrgen.g, len(states))
	lrgen.table = t
	var conflicts error
	eof := lrgen.g.Token(EOFToken)
	for _, s := range states {
		if s.Accept {
			conflicts = multierr.Append(conflicts, lrgen.write(s, eof, Entry{Kind: AcceptAction}))
		}
		for _, a := range s.actions {
			e := Entry{Kind: ShiftAction, State: a.Target.ID}
			if a.IsGoto() {
				e.Kind = GotoAction
			}
			conflicts = multierr.Append(conflicts, lrgen.write(s, a.Item, e))
		}
		for _, f := range s.fragments {
			if !f.AtEnd() {
				continue
			}
			for _, la := range f.lookaheads {
				e := Entry{Kind: ReduceAction, Rule: f.rule}
				conflicts = multierr.Append(conflicts, lrgen.write(s, la, e))
			}
		}
	}
	lrgen.HasConflicts = conflicts != nil
	if lrgen.HasConflicts {
		tracer().Infof("table for %q has %d conflicts", lrgen.g.Name, len(multierr.Errors(conflicts)))
	}
	return conflicts
}

// write stores e at (s, item). An equal entry is not a collision. Returns a
// ConflictError if the cell is occupied by a different entry and the shift
// bias does not apply.
func (lrgen *TableGenerator) write(s *State, item Item, e Entry) error {
	t := lrgen.table
	col := t.columns[item.Name()]
	v := t.encode(e)
	old := t.matrix.Value(s.ID, col)
	if old == t.matrix.NullValue() {
		t.matrix.Set(s.ID, col, v)
		return nil
	}
	if old == v {
		return nil
	}
	first := t.decode(old)
	if _, b := t.matrix.Values(s.ID, col); b == v {
		return nil // conflict already recorded
	}
	if lrgen.shiftBias {
		if shift, reduce, ok := shiftReducePair(first, e); ok && lrgen.preferShift(item, shift, reduce) {
			t.matrix.Set(s.ID, col, t.encode(shift))
			lrgen.log.Noticef("table", "state %d on %s: shift %d preferred over %s",
				s.ID, item.Name(), shift.State, reduce)
			return nil
		}
	}
	t.matrix.Add(s.ID, col, v)
	c := newConflict(s.ID, item.Name(), first, e)
	lrgen.log.Errorf("table", "%s", c.Error())
	return c
}

func shiftReducePair(a, b Entry) (shift, reduce Entry, ok bool) {
	if a.Kind == ShiftAction && b.Kind == ReduceAction {
		return a, b, true
	}
	if a.Kind == ReduceAction && b.Kind == ShiftAction {
		return b, a, true
	}
	return Entry{}, Entry{}, false
}

// preferShift checks if the shift target holds a fragment of the reduced
// rule's term with the dot directly behind tok, as for
//
//     S → if E then S •
//     S → if E then S • else S
//
func (lrgen *TableGenerator) preferShift(tok Item, shift, reduce Entry) bool {
	target := lrgen.dfa.State(shift.State)
	if target == nil {
		return false
	}
	for _, f := range target.fragments {
		if f.index > 0 && f.rule.basic[f.index-1] == tok && f.rule.term == reduce.Rule.term {
			return true
		}
	}
	return false
}
