// Package history implements grouped undo and redo over a gapbuffer
// document.
//
// Every mutation flows through History.ReplaceSlice, which appends the
// inverse of the edit to an undo log. Checkpoints group fine-grained
// edits into user-visible steps: MakeSnapshot records the current log
// depth and cursor, and Undo reverts edits back to the most recent
// checkpoint while building the mirror-image redo log. Redo is the same
// operation run against the swapped stacks.
//
// The modified flag is a depth comparison, not a boolean: MarkSaved
// remembers the checkpoint depth at save time, and Modified reports
// whether the current depth differs. Undoing past the saved depth and
// redoing back across it both recompute correctly.
package history
