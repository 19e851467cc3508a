// Package log is the logging seam of the NetGSM client.
//
// The client never writes to a global logger. It accepts a [Logger] and
// emits debug-level records describing each dispatched request. Credentials
// are never passed to a Logger.
//
// Wrap an existing zerolog logger:
//
//	logger := log.NewZerolog(zerolog.New(os.Stderr))
//	client, err := netgsm.New(cfg, netgsm.WithLogger(logger))
//
// Or implement [Logger] on top of any other logging library.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log
