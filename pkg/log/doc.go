// Package log provides the logging abstraction used by dvcsettings.
//
// Writers and the settings watcher log through the [Logger] interface so that
// library users can plug in their own logging. A zerolog adapter and a no-op
// logger are provided.
//
//	logger := log.NewZerologLogger(zerolog.New(os.Stderr))
//	logger.Info("settings written", log.String("path", path))
//
// # Version
//
// Current version: 0.1.0
// Minimum compatible version: 0.1.0
//
// See version.go for version constants that can be used programmatically.
package log
