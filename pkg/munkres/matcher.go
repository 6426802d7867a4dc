package munkres

// Matcher is an optimal drop-in for a many-to-many pairing resolver
// that otherwise defaults to a greedy nearest-center heuristic. Cost
// is indexed [source][target]; the returned slice gives, for each
// source index, the target index it is paired with, or -1 if sources
// outnumber targets and that source goes unpaired.
type Matcher struct{}

// Match runs the Hungarian algorithm over cost and returns the
// minimum-total-cost pairing.
func (Matcher) Match(cost [][]float64) []int {
	return Solve(cost)
}
