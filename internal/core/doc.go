// Package core provides the CSV conversion engine.
//
// The engine turns CSV text into typed datasets and back. It holds no state
// between calls and does no I/O of its own, so it can be used from the CLI,
// from tests, or from any other host without modification. Reading files and
// writing downloads live in package fileio.
//
// # Data Model
//
// A [Dataset] is an ordered list of [Row] values sharing one header list.
// Each cell is a [Value]: a string, an int, a float, a bool, null, or
// missing (a key absent from a decoded JSON object).
//
// # Parsing
//
// [Parse] splits text into lines, tokenizes each line with [SplitLine],
// resolves headers, and coerces every field with [Coerce]:
//
//	d, err := core.Parse("name,age\nAda,36", core.DefaultOptions())
//	// d.Headers() == []string{"name", "age"}
//	// d.Value(0, "age") == core.Int(36)
//
// Malformed content never fails a parse. Ragged rows are padded or cut to
// the header width and unterminated quotes swallow the rest of the line.
// Set [Options].Strict to reject them with a [MalformedError] instead.
//
// # Validation
//
// Validation is advisory and returns data, not errors:
//
//   - [Validate] detects ragged rows in raw text.
//   - [ValidateContacts] checks email/phone/name columns of a contact list.
//   - [Merge] combines the results of several passes.
//
// # Serialization
//
// [Serialize] writes a Dataset back to CSV. For values free of delimiters,
// quotes and line breaks, parsing the output with the same delimiter gives
// back the same dataset.
//
// # Statistics
//
// [Summarize] infers column types, counts empty cells, and aggregates
// numeric columns.
package core
