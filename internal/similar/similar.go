// Package similar ranks stored cases against a new campaign query with a
// fixed weighted-facet heuristic. Scoring is deterministic arithmetic over
// normalized strings; match reasons are emitted while scoring, not re-derived
// afterwards.
package similar

import (
	"sort"
	"strings"

	"decisionmap/internal/store"
)

// Facet weights. A full category+market+type match with one shared channel,
// e.g. {Retail, US - NYC, Impulse capture, DOOH+Display} against
// {retail, us - nyc, impulse capture, dooh+ctv}, scores 30+25+25+5 = 85.
const (
	weightCategory     = 30
	weightMarket       = 25
	weightDecisionType = 25
	weightWindow       = 20
	weightPerChannel   = 5
	channelCap         = 15
)

// Query carries the facets of a new campaign to match against the library.
// Channels is the raw comma-separated token list.
type Query struct {
	Category       string
	Market         string
	DecisionType   string
	DecisionWindow string
	Channels       string
}

// Match is one ranked result: the case summary, its score, and the ordered
// human-readable reasons the score was earned.
type Match struct {
	store.Summary
	Score   int
	Reasons []string
}

// Options bound the candidate pool and the result size. Only the most recent
// PoolSize cases are scored, never the full store.
type Options struct {
	PoolSize int // default 200
	TopK     int // default 3
}

func (o Options) withDefaults() Options {
	if o.PoolSize <= 0 {
		o.PoolSize = 200
	}
	if o.TopK <= 0 {
		o.TopK = 3
	}
	return o
}

// norm lowercases and trims one facet for comparison.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// channelSet tokenizes a comma-separated channel list into a normalized set.
func channelSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Split(s, ",") {
		if t := norm(tok); t != "" {
			set[t] = true
		}
	}
	return set
}

// Score computes the pairwise similarity of a query and one stored case.
// Comparisons are case-insensitive and whitespace-trimmed; a facet empty on
// either side contributes nothing. Reasons come back in scoring order.
func Score(q Query, c store.Summary) (int, []string) {
	score := 0
	var reasons []string

	if qv, cv := norm(q.Category), norm(c.Category); qv != "" && cv != "" && qv == cv {
		score += weightCategory
		reasons = append(reasons, "Same category")
	}
	if qv, cv := norm(q.Market), norm(c.Market); qv != "" && cv != "" && qv == cv {
		score += weightMarket
		reasons = append(reasons, "Same market")
	}
	if qv, cv := norm(q.DecisionType), norm(c.DecisionType); qv != "" && cv != "" && qv == cv {
		score += weightDecisionType
		reasons = append(reasons, "Same decision type")
	}
	if qv, cv := norm(q.DecisionWindow), norm(c.DecisionWindow); qv != "" && cv != "" && qv == cv {
		score += weightWindow
		reasons = append(reasons, "Same decision window")
	}

	qch, cch := channelSet(q.Channels), channelSet(c.Channels)
	var overlap []string
	for ch := range qch {
		if cch[ch] {
			overlap = append(overlap, ch)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		pts := weightPerChannel * len(overlap)
		if pts > channelCap {
			pts = channelCap
		}
		score += pts
		reasons = append(reasons, "Channel overlap: "+strings.Join(overlap, ", "))
	}

	return score, reasons
}

// Find pulls the most recent pool of cases from the store, scores each
// against the query, and returns the top-K matches. Cases scoring zero are
// omitted entirely, not ranked last. Ties keep the store's native order
// (creation time descending) because the sort is stable.
func Find(s *store.Store, q Query, opt Options) ([]Match, error) {
	opt = opt.withDefaults()

	pool, _, err := s.List(store.Filter{Limit: opt.PoolSize})
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, c := range pool {
		score, reasons := Score(q, c)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Summary: c, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > opt.TopK {
		matches = matches[:opt.TopK]
	}
	return matches, nil
}
