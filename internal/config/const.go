// Package config holds the settings shared by the generator, the in-place
// rewriter and the command line.
package config

// Global constants for the application.
const (
	Application = "unimpl"
	Description = "Generate panicking bodies for unimplemented function signatures"
	WebSite     = "https://github.com/origadmin/unimpl"
	UI          = `
             _                 _
 _   _ _ __ (_)_ __ ___  _ __ | |
| | | | '_ \| | '_ ` + "`" + ` _ \| '_ \| |
| |_| | | | | | | | | | | |_) | |
 \__,_|_| |_|_|_| |_| |_| .__/|_|
                        |_|
`
)

const (
	// Directive marks a body-less function declaration for generation.
	Directive = "//go:unimpl"
	// DefaultTag is the build tag guarding files that hold bare signatures.
	DefaultTag = "unimpl"
	// DefaultSuffix is appended to a source file's base name to name its
	// generated counterpart.
	DefaultSuffix = "_unimpl.go"
	// DefaultFile is the configuration file looked up when none is given.
	DefaultFile = "unimpl.yaml"
)
