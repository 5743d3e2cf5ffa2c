// Package poller drives the review status bot.
//
// A Loop repeats one cycle forever: poll the review API, validate the
// response, translate the most recent homework record into a verdict
// message and notify the chat when that message differs from the last one
// sent. Every recoverable failure (including a panic inside the cycle) is
// reported to the chat as "Program failure: ..." and the loop keeps going.
//
// Cycle evaluates and returns a CycleResult without side effects on the
// chat; Run (through Step) is the only place that acts on results. Time is
// injectable with WithClock and WithSleep.
package poller
