// Package service coordinates a discovery run.
//
// Discovery fans devices out to a collector with bounded concurrency and
// merges the returned fragments into a Topology. Progress is published on an
// EventBus so the command line can report each device as it completes.
package service
