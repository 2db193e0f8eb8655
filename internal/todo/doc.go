// Package todo holds the in-memory task list and its seed file format.
//
// A Store owns the authoritative, ordered sequence of tasks. Every mutation
// builds a fresh slice and swaps it in, so a snapshot handed out earlier is
// never modified underneath its reader.
//
// # Operations
//
//   - Add appends a task with a fresh id. It is the only operation that can
//     fail: a title equal to an existing task's title yields ErrDuplicateTitle.
//   - ToggleDone, Remove, SetEditing and CommitEdit address a task by id and
//     silently do nothing when the id is unknown.
//
// Titles are compared by exact string equality, and only on Add. CommitEdit
// may leave two tasks sharing a title.
//
// # Seed Files
//
// A seed file pre-populates a store at startup. It is read once and never
// written back:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"title": "Buy milk"},
//	    {"title": "Walk the dog", "done": true}
//	  ]
//	}
//
// Seed files are validated against an embedded JSON Schema (draft 2020-12)
// or, when schema validation is disabled, against a minimal set of
// structural checks.
package todo
