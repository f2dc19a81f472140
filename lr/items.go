package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"

	"github.com/tangolang/tango"
	"github.com/tangolang/tango/tg"
)

// item0 is an LR(0) item: a rule and a mark position within the rule's
// input pattern.
type item0 struct {
	rule int // rule id
	mark int
}

// before orders items mark-descending first, so reducing items sort to the
// front of a state, then by rule id.
func (i item0) before(other item0) bool {
	if i.mark != other.mark {
		return i.mark > other.mark
	}
	return i.rule < other.rule
}

func (i item0) reducing(g *tg.Grammar) bool {
	return i.mark == len(g.Rule(i.rule).Input())
}

// nextSymbol returns the symbol right of the mark, or false for a reducing
// item.
func (i item0) nextSymbol(g *tg.Grammar) (tango.Symbol, bool) {
	input := g.Rule(i.rule).Input()
	if i.mark >= len(input) {
		return 0, false
	}
	return input[i.mark], true
}

func (i item0) advance() item0 {
	return item0{rule: i.rule, mark: i.mark + 1}
}

func (i item0) stringWith(g *tg.Grammar) string {
	r := g.Rule(i.rule)
	var b strings.Builder
	b.WriteString(g.SymbolName(r.LHS()))
	b.WriteString(" -> (")
	for j, s := range r.Input() {
		if j == i.mark {
			b.WriteString(" .")
		}
		b.WriteByte(' ')
		b.WriteString(g.SymbolName(s))
	}
	if i.mark == len(r.Input()) {
		b.WriteString(" .")
	}
	b.WriteString(" )")
	return b.String()
}

// lookaheadSource references an item in another state whose effective
// lookahead set flows into this item. Sources are indices, not pointers, so
// the automaton graph has no owning cycles.
type lookaheadSource struct {
	state int
	item  int
}

func (s lookaheadSource) before(other lookaheadSource) bool {
	if s.state != other.state {
		return s.state < other.state
	}
	return s.item < other.item
}

// insertSource inserts into a sorted source list, reporting growth.
func insertSource(sources []lookaheadSource, src lookaheadSource) ([]lookaheadSource, bool) {
	i := sort.Search(len(sources), func(k int) bool { return !sources[k].before(src) })
	if i < len(sources) && sources[i] == src {
		return sources, false
	}
	sources = append(sources, lookaheadSource{})
	copy(sources[i+1:], sources[i:])
	sources[i] = src
	return sources, true
}

func unionSources(into, from []lookaheadSource) ([]lookaheadSource, bool) {
	changed := false
	for _, src := range from {
		var c bool
		into, c = insertSource(into, src)
		changed = changed || c
	}
	return into, changed
}

func copySources(sources []lookaheadSource) []lookaheadSource {
	if len(sources) == 0 {
		return nil
	}
	return append([]lookaheadSource(nil), sources...)
}

// Item is a relational LR(1) item: an LR(0) item plus a set of locally
// generated lookahead terminals and a sorted list of lookahead sources. The
// item's effective lookahead is the generated set united with the resolved
// sources, chased to a fixed point.
type Item struct {
	item0
	gen     tango.TerminalSet
	sources []lookaheadSource
}

func (it *Item) stringWith(g *tg.Grammar) string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(it.item0.stringWith(g))
	b.WriteString(", ")
	b.WriteString(it.gen.StringWith(g.Namer()))
	if len(it.sources) > 0 {
		b.WriteString(", {")
		for _, src := range it.sources {
			fmt.Fprintf(&b, " (%d, %d)", src.state, src.item)
		}
		b.WriteString(" }")
	}
	b.WriteByte(']')
	return b.String()
}

// closure computes the LR(1) closure of a kernel item set, with relational
// lookaheads. For every item A → α.Xβ the closure adds one item X → .γ per
// rule of X, generating FIRST(β) as lookaheads; when β is fully nullable the
// new item additionally inherits the parent item's generated lookaheads and
// lookahead sources. Existing items are union-merged and requeued only when
// anything changed, which terminates because both source lists and
// generated sets are monotone.
func closure(kernel []Item, g *tg.Grammar, a *tg.Analysis) []Item {
	items := make(map[item0]*Item, len(kernel)*2)
	var queue []item0
	for i := range kernel {
		k := kernel[i]
		items[k.item0] = &Item{
			item0:   k.item0,
			gen:     k.gen.Clone(),
			sources: copySources(k.sources),
		}
		queue = append(queue, k.item0)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		it := items[cur]
		rule := g.Rule(cur.rule)
		if cur.mark >= len(rule.Input()) {
			continue
		}
		X := rule.Input()[cur.mark]
		if !X.IsNonterminal() {
			continue
		}
		beta := rule.Input()[cur.mark+1:]
		gen, propagate := a.FirstOfString(beta)
		var srcs []lookaheadSource
		if propagate {
			gen.Union(it.gen)
			srcs = it.sources
		}
		for rid := range g.Rules() {
			if g.Rule(rid).LHS() != X {
				continue
			}
			key := item0{rule: rid, mark: 0}
			if existing, ok := items[key]; ok {
				var srcChanged bool
				existing.sources, srcChanged = unionSources(existing.sources, srcs)
				genChanged := existing.gen.UnionChanged(gen)
				if srcChanged || genChanged {
					queue = append(queue, key)
				}
			} else {
				items[key] = &Item{
					item0:   key,
					gen:     gen.Clone(),
					sources: copySources(srcs),
				}
				queue = append(queue, key)
			}
		}
	}
	result := make([]Item, 0, len(items))
	for _, it := range items {
		result = append(result, *it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].item0.before(result[j].item0) })
	return result
}

// kernelItem is the exported-field mirror of item0 that structhash reflects
// over when fingerprinting kernels.
type kernelItem struct {
	Rule int
	Mark int
}

type kernelKey struct {
	Items []kernelItem
}

// fingerprint computes the isocore key of a sorted kernel: a hash over the
// LR(0) parts only. Lookaheads do not participate — two states with equal
// fingerprints are isocores by definition.
func fingerprint(kernel []Item) string {
	key := kernelKey{Items: make([]kernelItem, len(kernel))}
	for i := range kernel {
		key.Items[i] = kernelItem{Rule: kernel[i].rule, Mark: kernel[i].mark}
	}
	return string(structhash.Md5(key, 1))
}
