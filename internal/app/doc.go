// Package app wires the parser, dispatcher and collaborators together for a
// single CLI invocation and owns the process exit behavior.
package app
