// Package pipeline fans validated records out to a Classifier and gathers
// the results back into input order.
//
// Concurrency lives only here: the Classifier is called synchronously, one
// record per call, and each call's result is keyed by the record's slot so
// completion order never leaks into the output.
package pipeline
