// Package pipeline sequences the eDNA analysis stages (quality filter,
// ASV clustering, taxonomic assignment, diversity, contamination) over
// immutable inputs and merges their outputs into one report.
//
// The only external collaborator is the matcher.Client interface; fakes
// satisfy it in tests, so the whole pipeline runs offline.
package pipeline
