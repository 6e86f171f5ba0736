// Package errors provides coded diagnostics for the reactivity module.
//
// Every diagnostic has a stable code that maps to a registered template:
//   - R001-R099: runtime misuse reported as development-mode warnings
//   - R100-R119: scheduler failures
//   - R120-R139: configuration problems
//   - R140-R159: CLI and devtools failures
//
// # Usage
//
//	err := errors.New("R122").
//	    WithDetail("port 70000 is out of range").
//	    WithSuggestion("Use a port between 1 and 65535")
//
//	fmt.Println(err.Format())
//
// Diagnostics created from the same code compare equal under errors.Is,
// so sentinel values can be declared once and matched by callers.
package errors
