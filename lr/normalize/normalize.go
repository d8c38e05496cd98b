package normalize

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lrcc/lr"
	"github.com/npillmayer/schuko/gconf"
)

// DefaultMaxPasses is used if neither an option nor the configuration set
// a pass ceiling.
const DefaultMaxPasses = 64

// Precept is a single grammar rewrite. Apply reports whether the grammar has
// been changed. An error aborts normalization.
type Precept struct {
	Name  string
	Apply func(g *lr.Grammar, ga *lr.Analyzer, log *lr.Log) (bool, error)
}

func (p Precept) String() string {
	return p.Name
}

// Normalizer runs a list of precepts to a fixed point.
type Normalizer struct {
	maxPasses int
	precepts  []Precept
	log       *lr.Log
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// MaxPasses sets the ceiling for the number of passes over all precepts.
func MaxPasses(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.maxPasses = n
		}
	}
}

// Precepts replaces the list of precepts.
func Precepts(precepts ...Precept) Option {
	return func(n *Normalizer) {
		n.precepts = append([]Precept(nil), precepts...)
	}
}

// WithExtensions appends precepts to the list of precepts.
func WithExtensions(precepts ...Precept) Option {
	return func(n *Normalizer) {
		n.precepts = append(n.precepts, precepts...)
	}
}

// WithLog lets the normalizer write diagnostics to log, instead of to a fresh one.
func WithLog(log *lr.Log) Option {
	return func(n *Normalizer) {
		n.log = log
	}
}

// New creates a normalizer with the default precepts.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		maxPasses: DefaultMaxPasses,
		precepts:  DefaultPrecepts(),
	}
	if max := gconf.GetInt("lr.normalize.max-passes"); max > 0 {
		n.maxPasses = max
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = lr.NewLog()
	}
	return n
}

// Normalize rewrites a copy of g. It returns the rewritten copy together with
// the diagnostics log. The copy is returned even in case of an error.
func (n *Normalizer) Normalize(g *lr.Grammar) (*lr.Grammar, *lr.Log, error) {
	c := g.Copy()
	ga := lr.Analysis(c)
	seen := map[string]int{c.Fingerprint(): 0}
	var fired []string
	for pass := 1; pass <= n.maxPasses; pass++ {
		fired = fired[:0]
		for _, p := range n.precepts {
			changed, err := p.Apply(c, ga, n.log)
			if err != nil {
				n.log.Errorf(p.Name, "%v", err)
				return c, n.log, fmt.Errorf("normalizing grammar %q: %w", c.Name, err)
			}
			if changed {
				tracer().Debugf("pass %d: %s changed grammar", pass, p.Name)
				fired = append(fired, p.Name)
				ga.Invalidate()
			}
		}
		if len(fired) == 0 {
			tracer().Infof("grammar %q normalized after %d passes", c.Name, pass)
			return c, n.log, nil
		}
		fp := c.Fingerprint()
		if earlier, ok := seen[fp]; ok {
			n.log.Errorf("normalizer", "pass %d re-created grammar of pass %d", pass, earlier)
			return c, n.log, &NonConvergenceError{
				Passes:      pass,
				Firing:      append([]string(nil), fired...),
				Oscillating: true,
				Log:         n.log,
			}
		}
		seen[fp] = pass
	}
	n.log.Errorf("normalizer", "no fixed point after %d passes", n.maxPasses)
	return c, n.log, &NonConvergenceError{
		Passes: n.maxPasses,
		Firing: append([]string(nil), fired...),
		Log:    n.log,
	}
}

// NonConvergenceError is returned if normalization does not reach a fixed
// point. Firing lists the precepts which changed the grammar in the last pass.
type NonConvergenceError struct {
	Passes      int
	Firing      []string
	Oscillating bool // a pass reproduced an earlier grammar
	Log         *lr.Log
}

func (e *NonConvergenceError) Error() string {
	reason := "pass ceiling reached"
	if e.Oscillating {
		reason = "grammar oscillates"
	}
	return fmt.Sprintf("normalization does not converge after %d passes (%s); firing: %s",
		e.Passes, reason, strings.Join(e.Firing, ", "))
}
