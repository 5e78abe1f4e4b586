package match

import "strings"

// Policy selects how a remote listing entry is compared to a local basename.
type Policy int

const (
	// Exact requires the normalized names to be equal.
	Exact Policy = iota
	// Prefix requires the normalized remote name to be a prefix of the
	// normalized local name.
	Prefix
)

// Normalize strips a trailing extension, trims surrounding whitespace and
// lowercases the name for comparison.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		name = name[:idx]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Matches reports whether a remote label matches a local basename under the
// given policy. Both sides are normalized before comparison.
func Matches(policy Policy, localBasename, remoteLabel string) bool {
	local := Normalize(localBasename)
	remote := Normalize(remoteLabel)
	if local == "" || remote == "" {
		return false
	}
	switch policy {
	case Prefix:
		return strings.HasPrefix(local, remote)
	default:
		return local == remote
	}
}

// Candidate is a local asset awaiting a remote match.
type Candidate struct {
	// ID is the local asset identifier.
	ID string
	// Basename is the uploaded basename used for matching.
	Basename string
}

// Pool tracks which candidates are still unmatched during a discovery pass.
// It is not safe for concurrent use; discovery is single-threaded.
type Pool struct {
	candidates []Candidate
	claimed    map[string]struct{}
}

// NewPool creates a pool over the given candidates. Listing order of the
// candidates is preserved for tie-breaking.
func NewPool(candidates []Candidate) *Pool {
	return &Pool{
		candidates: candidates,
		claimed:    make(map[string]struct{}),
	}
}

// Claim finds the first unmatched candidate whose basename matches the
// remote label under the policy, removes it from the pool and returns it.
// A remote label claims at most one candidate per call.
func (p *Pool) Claim(policy Policy, remoteLabel string) (Candidate, bool) {
	for _, c := range p.candidates {
		if _, done := p.claimed[c.ID]; done {
			continue
		}
		if Matches(policy, c.Basename, remoteLabel) {
			p.claimed[c.ID] = struct{}{}
			return c, true
		}
	}
	return Candidate{}, false
}

// Lookup behaves like Claim for an exact-keyed source (e.g. a status export
// indexed by basename): it claims the candidate whose normalized basename
// equals the given key.
func (p *Pool) Lookup(key string) (Candidate, bool) {
	return p.Claim(Exact, key)
}

// Remaining returns the candidates that have not been claimed, in their
// original order.
func (p *Pool) Remaining() []Candidate {
	var left []Candidate
	for _, c := range p.candidates {
		if _, done := p.claimed[c.ID]; !done {
			left = append(left, c)
		}
	}
	return left
}

// Empty reports whether every candidate has been claimed.
func (p *Pool) Empty() bool {
	return len(p.claimed) == len(p.candidates)
}
