// Package logger provides the structured logging interface used across igprofile.
//
// It wraps zerolog behind a small Logger interface so components can accept a
// logger, derive children with fields, and be tested with TestLogger.
//
// Basic usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("username", "janedoe").Info("Looking up profile")
//
// Components take a Logger in their constructor and fall back to GetLogger()
// when given nil. Pure packages use OrNop instead so they never write output
// unless asked to.
//
// Console output is written to stderr. When LoggingConfig.File is set, JSON
// lines are additionally appended to that file.
package logger
