package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
)

// === States and Actions ====================================================

// State is a state of the LR(1) automaton: a set of fragments plus outgoing
// actions. Fragments and actions are only ever appended.
type State struct {
	ID        int  // serial number, 0 is the start state
	Accept    bool // has a fragment with $EOF after the dot
	fragments []Fragment
	keys      map[string]int // fragment key -> position
	actions   []*Action
	byItem    map[Item]*Action
	done      int // fragments [0:done) have had their successors computed
}

// Action is an edge of the automaton. It is a goto if triggered by a term and
// a shift if triggered by a token.
type Action struct {
	Item       Item
	Target     *State
	lookaheads *treeset.Set // informational: lookaheads in effect
}

// IsGoto is true for actions triggered by a term.
func (a *Action) IsGoto() bool {
	_, isTerm := a.Item.(*Term)
	return isTerm
}

// Lookaheads returns the lookaheads of the fragments this action advances.
func (a *Action) Lookaheads() []*TokenItem {
	return tokensOf(a.lookaheads)
}

func (a *Action) String() string {
	kind := "shift"
	if a.IsGoto() {
		kind = "goto"
	}
	return fmt.Sprintf("%s %s → %d", kind, a.Item, a.Target.ID)
}

func newState(id int) *State {
	return &State{
		ID:     id,
		keys:   make(map[string]int),
		byItem: make(map[Item]*Action),
	}
}

// Fragments returns the fragments of s in order of insertion.
func (s *State) Fragments() []Fragment {
	return append([]Fragment(nil), s.fragments...)
}

// Actions returns the outgoing actions of s in order of creation.
func (s *State) Actions() []*Action {
	return append([]*Action(nil), s.actions...)
}

// ActionFor returns the action of s triggered by item, or nil.
func (s *State) ActionFor(item Item) *Action {
	return s.byItem[item]
}

// Contains is true if s holds fragment f.
func (s *State) Contains(f Fragment) bool {
	_, ok := s.keys[f.key()]
	return ok
}

// addFragment inserts f and, if f is new, expands the closure: for a term
// after the dot, one fragment per rule of the term is added, with lookaheads
// computed by ga. Returns true if s changed.
func (s *State) addFragment(f Fragment, ga *Analyzer) bool {
	changed := false
	work := []Fragment{f}
	for len(work) > 0 {
		f, work = work[0], work[1:]
		k := f.key()
		if _, ok := s.keys[k]; ok {
			continue
		}
		s.keys[k] = len(s.fragments)
		s.fragments = append(s.fragments, f)
		changed = true
		if t, ok := f.Next().(*Term); ok {
			la := ga.ClosureLookaheads(f.rule, f.index, f.lookaheads)
			for _, r := range t.rules {
				work = append(work, StartFragment(r, la))
			}
		}
	}
	return changed
}

func (s *State) addAction(item Item, target *State, lookaheads []*TokenItem) *Action {
	a := s.byItem[item]
	if a == nil {
		a = &Action{Item: item, Target: target, lookaheads: NewTokenSet()}
		s.actions = append(s.actions, a)
		s.byItem[item] = a
	}
	for _, la := range lookaheads {
		a.lookaheads.Add(la)
	}
	return a
}

// String lists fragments, then actions.
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state %d", s.ID)
	if s.Accept {
		b.WriteString(" (accept)")
	}
	b.WriteString(":\n")
	for _, f := range s.fragments {
		b.WriteString("    ")
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	for _, a := range s.actions {
		b.WriteString("    ")
		b.WriteString(a.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Dump is a debugging helper
func (s *State) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, f := range s.fragments {
		tracer().Debugf("  %s", f)
	}
	for _, a := range s.actions {
		tracer().Debugf("  %s", a)
	}
	tracer().Debugf("-------------------------")
}

// === CFSM Construction =====================================================

// CFSM is the characteristic finite state machine for a grammar, i.e. the
// LR(1) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g      *Grammar
	states *arraylist.List // all states, index = state ID
	S0     *State          // start state
}

func emptyCFSM(g *Grammar) *CFSM {
	return &CFSM{g: g, states: arraylist.New()}
}

// Grammar returns the (augmented) grammar of the CFSM.
func (c *CFSM) Grammar() *Grammar {
	return c.g
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*State {
	states := make([]*State, 0, c.states.Size())
	it := c.states.Iterator()
	for it.Next() {
		states = append(states, it.Value().(*State))
	}
	return states
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id int) *State {
	if s, ok := c.states.Get(id); ok {
		return s.(*State)
	}
	return nil
}

func (c *CFSM) addState() *State {
	s := newState(c.states.Size())
	c.states.Add(s)
	return s
}

// findStateWith returns the first state holding fragment f. Matching a single
// fragment is weaker than comparing item sets; it trades minimality of the
// automaton for construction speed.
func (c *CFSM) findStateWith(f Fragment) *State {
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*State)
		if s.Contains(f) {
			return s
		}
	}
	return nil
}

// buildCFSM constructs the LR(1) automaton for the grammar of ga. The grammar
// is augmented first.
func buildCFSM(ga *Analyzer) (*CFSM, error) {
	tracer().Debugf("=== build CFSM ==================================================")
	g := ga.Grammar()
	startRule, err := g.Augment()
	if err != nil {
		return nil, err
	}
	ga.Invalidate()
	eof := g.Token(EOFToken)
	cfsm := emptyCFSM(g)
	cfsm.S0 = cfsm.addState()
	cfsm.S0.addFragment(StartFragment(startRule, []*TokenItem{eof}), ga)
	dirty := []*State{cfsm.S0}
	queued := map[*State]bool{cfsm.S0: true}
	for len(dirty) > 0 {
		s := dirty[0]
		dirty = dirty[1:]
		queued[s] = false
		for ; s.done < len(s.fragments); s.done++ {
			f := s.fragments[s.done]
			item := f.Next()
			if item == nil {
				continue
			}
			if item == Item(eof) {
				s.Accept = true
				continue
			}
			succ := f.Advance()
			var target *State
			if a := s.byItem[item]; a != nil {
				target = a.Target
			} else if target = cfsm.findStateWith(succ); target == nil {
				target = cfsm.addState()
				tracer().Debugf("new state %d for %s", target.ID, succ)
			}
			s.addAction(item, target, f.lookaheads)
			if target.addFragment(succ, ga) && !queued[target] {
				dirty = append(dirty, target)
				queued[target] = true
			}
		}
		s.Dump()
	}
	tracer().Infof("CFSM for %q has %d states", g.Name, cfsm.states.Size())
	return cfsm, nil
}

// String lists all states.
func (c *CFSM) String() string {
	var b strings.Builder
	for _, s := range c.States() {
		b.WriteString(s.String())
	}
	return b.String()
}

// ToGraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) ToGraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.fragments))
	}
	for _, s := range c.States() {
		for _, a := range s.actions {
			fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", s.ID, a.Target.ID, escapeDot(a.Item.Name()))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *State) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(fragments []Fragment) string {
	lines := make([]string, len(fragments))
	for i, f := range fragments {
		lines[i] = escapeDot(f.String())
	}
	return strings.Join(lines, "\\l") + "\\l"
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}
