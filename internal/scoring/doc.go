// Package scoring converts chat messages and reactions into bounded
// sentiment records. A message's final score is the clamped sum of a
// lexicon-based text score, an emoji boost, a workplace-keyword modifier and
// an accumulated reaction boost, each bounded on its own.
package scoring
