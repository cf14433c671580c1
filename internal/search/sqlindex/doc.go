// Package sqlindex is a SQLite-backed search.Engine.
//
// Postings live in one table keyed by (field, term, doc, position). A
// compiled query.Query is translated into a single parameterized SELECT:
//
//   - Term, Prefix, Wildcard, Fuzzy and Range select from postings, using
//     GLOB for patterns, a registered levenshtein() function for fuzzy
//     terms, and COLLATE BINARY comparisons for ranges;
//   - Phrase self-joins postings on consecutive positions;
//   - Boolean combines its clauses with INTERSECT, UNION and EXCEPT.
//
// # Critical Patterns
//
// Deterministic results:
//   - Every statement ends in ORDER BY doc ASC
//
// No interpolation:
//   - Every value is bound as a ? parameter; only fixed SQL text is
//     concatenated
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package sqlindex
