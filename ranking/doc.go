// Package ranking scores full-text candidates with business boosts.
//
// Each candidate's raw text relevance is combined with four boolean
// features (exact claim number match, exact policy number match, recent
// submission, denied status when the query asks about denials) into a
// weighted total. Totals are normalized against the best candidate to
// give a confidence in [0, 1], which is then bucketed as HIGH, MEDIUM or
// LOW.
//
// Ranking is a pure function of the query, the candidates and the clock;
// permuting the candidates does not change the output.
package ranking
