// Package cli parses command-line arguments into a configuration record and
// an ordered list of deferred commands. Parsing runs in three cooperating
// phases (shared options, top level, compiler options); unrecognized input
// is accumulated as errors rather than stopping the walk.
package cli
