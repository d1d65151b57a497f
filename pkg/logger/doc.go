/*
Package logger wraps uber-go/zap behind the small Logger interface used by
every asimeow package.

Verbosity levels:

	0: Info, Warn, Error (default)
	1: Debug + level 0
	2: Trace + level 1

Structured fields:

	log.WithFields(logger.Fields{
	    "path": "/Users/me/src/app",
	    "rule": "node",
	}).Debug("Rule matched")

The CLI writes console-encoded entries to stderr so that event lines on stdout
stay clean; tests use the JSON encoding and decode entries back.

Loggers are safe for concurrent use by the scanner's workers.
*/
package logger
