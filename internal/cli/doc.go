// Package cli parses command-line arguments, validates user input, and owns
// process-level concerns like exit codes. It layers flags over an optional
// HCL job file and produces the pipeline configuration.
package cli
