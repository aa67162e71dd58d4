package parser

import "regexp"

var (
	functionCallPattern = regexp.MustCompile(`[A-Z]+\(`)
	conditionalPattern  = regexp.MustCompile(`(IFERROR|IF)\(`)
)

// ComplexityScore computes the audit score for a formula: +2 per
// function call, +3 times the maximum parenthesis nesting depth, and
// +5 per conditional function. The score gates no behavior; it is
// persisted for audit and analytics.
func ComplexityScore(formula string) int {
	score := 2 * len(functionCallPattern.FindAllString(formula, -1))

	depth, maxDepth := 0, 0
	for _, ch := range formula {
		switch ch {
		case '(':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')':
			depth--
		}
	}
	score += 3 * maxDepth

	score += 5 * len(conditionalPattern.FindAllString(formula, -1))
	return score
}
