// Package habit defines the habit-tracking data model.
//
// A Habit carries a name and a map from WeekKey to a Week, the seven
// completion flags for Monday..Sunday of one calendar week. Weeks that were
// never toggled are absent from the map and read as all-false.
//
// # Week keys
//
// A WeekKey is the YYYY-MM-DD date of the Monday that starts the week
// containing a reference time. The Monday is computed in the reference
// time's own location, so two instants in the same local week always map
// to the same key.
//
// # Identity
//
// New habits receive time-ordered UUIDv7 ids. Records written by older
// versions carry numeric ids (millisecond timestamps); ID keeps track of
// which form it was decoded from so a load/save round trip is lossless.
package habit
