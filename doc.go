// Package rewrite extracts the control features that steer a controllable
// text simplification model and renders them as control tokens.
//
// # Quick Start
//
//	ex, err := rewrite.New("en", "data_auxiliary/en/ranks.json",
//	    rewrite.WithCoNLLU("data_auxiliary/en/parses.conllu"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ex.Close()
//
//	binned, exact, err := ex.ExtractBinned(ctx, src, tgt, features.Canonical)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(features.FormatPrefix(binned) + tokenized)
//
// # Resources
//
// The rank table, the bin table and the dependency parser are loaded once by
// New and shared by every call until Close. Extractor is safe for concurrent
// use when its parser is; both bundled parsers are.
//
// # Features
//
//   - dependency: ratio of maximum dependency tree depths
//   - frequency: ratio of third-quartile log frequency ranks of content words
//   - length: ratio of character counts
//   - levenshtein: weighted Levenshtein similarity of source and target
package rewrite
