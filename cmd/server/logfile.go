package main

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log files roll over past maxLogSizeMB, keeping one uncompressed backup.
const (
	maxLogSizeMB  = 6
	maxLogBackups = 1
)

// newLogFile returns a rotating writer for path. The directory and file are
// created on first write.
func newLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	}
}
