// Package harness runs habit-tracker scenarios described in YAML.
//
// A scenario drives a tracker.Tracker through a flow of steps (add, toggle,
// navigate, restart) against an in-memory store with a frozen clock and
// sequential ids, then checks assertions about the final state.
//
// # Scenario Format
//
//	name: toggle_wednesday
//	description: "Toggling Wednesday sets index 2 of the viewed week"
//	today: 2026-10-21
//	stored: '[{"id":1,"name":"Read","completionData":{}}]'
//	flow:
//	  - op: add
//	    name: Read
//	  - op: toggle
//	    habit: 0
//	    day: 2
//	  - op: toggle
//	    habit: 9
//	    day: 0
//	    expect_error: habit index out of range
//	assertions:
//	  - type: completion
//	    habit: 0
//	    days: [false, false, true, false, false, false, false]
//
// # Assertion Types
//
//   - habit_count: the collection has exactly count habits
//   - names: habit names in display order
//   - week: the viewed week key
//   - completion: one habit's vector for week (default: viewed week)
//   - stored: whether the storage slot holds a value
//   - save_error: the last save failed (error substring) or succeeded (empty)
//
// Every run is deterministic, so RunWithGolden can snapshot the viewed week
// and the stored document for comparison.
package harness
