// Package main hosts the ledgerconv CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the pipeline
// (history journal, record directory, processor, runner) and exposes it as
// one-shot runs, a directory watcher, and read-only inspection commands for
// periods, formatted output and run history.
package main
