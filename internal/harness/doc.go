// Package harness provides conformance testing for condition compilation.
//
// A scenario pairs a configuration with one condition tree, compiles it,
// optionally indexes a small document set into both reference indexes, and
// checks the outcome against assertions and a golden snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config:
//	  dialect: modern
//	  fields:
//	    title: { type: text }
//	    year: { type: integer }
//	condition:
//	  and:
//	    - condition: { field: title, operator: contains, value: river }
//	    - condition: { field: year, operator: eq, value: "1999" }
//	documents:
//	  - id: 1
//	    fields: { title: "Old Man River", year: "1999" }
//	assertions:
//	  - type: query
//	    value: "+title:river +year:10000001999"
//	  - type: hits
//	    hits: [1]
//
// The config section has the shape of a condex configuration file and is
// decoded over the defaults.
//
// # Assertion Types
//
//   - query: the rendered query equals value
//   - degraded: the codes of the leaves that contributed nothing, in order
//   - error: compilation failed with the given error code
//   - hits: the matching document IDs, for one engine or both
//
// # Golden Snapshots
//
// RunWithGolden compares a text snapshot of the result (rendering,
// degraded leaves and hits per engine) against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
