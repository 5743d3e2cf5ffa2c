// Package homework validates review API responses and turns homework records
// into verdict messages.
//
// Responses are handled as decoded JSON values (any) rather than typed
// structs: the API contract is loose, and distinguishing "not an object" from
// "missing key" from "wrong type" is part of the job.
package homework
