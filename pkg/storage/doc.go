// Package storage saves lookup reports to disk.
//
// Manager writes each report as indented JSON into its output directory. Writes
// go to a temporary file in the same directory and are renamed into place, so a
// reader never observes a partially written report. The manager remembers
// which report names already exist, including files present when it was
// created.
//
// Usage:
//
//	manager, err := storage.NewManager("reports", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := manager.SaveJSON("cristiano", reports)
//	if err != nil {
//	    log.Printf("Failed to save report: %v", err)
//	}
package storage
