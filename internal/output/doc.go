// Package output renders command results for the terminal.
//
// # Overview
//
// Every command hands its result to a Formatter selected by the global
// --output flag: "table" (aligned tabwriter columns, the default),
// "json" (indented), or "yaml". Table output reflects over the result
// type — slices of structs become row tables, single structs and maps
// become key/value listings — so commands never hand-build tables.
//
// The package also carries the small set of lipgloss styles used for
// headings, errors, warnings, and hints, keeping color decisions in
// one place.
package output
