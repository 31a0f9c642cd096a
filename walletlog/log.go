// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walletlog provides the wallet's shared logging backend.
// Each subsystem package holds its own `log slog.Logger`, defaulted to
// slog.Disabled, and is wired to a live logger by a call to its
// UseLogger during start-up. This package owns the backend those
// loggers are created from.
package walletlog

import (
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// backendLog is the shared slog backend every subsystem logger is
// created from.
var backendLog = slog.NewBackend(os.Stdout)

// logRotator, once InitLogRotator is called, writes rotated log files
// alongside stdout.
var logRotator *rotator.Rotator

// InitLogRotator initializes a rotating file log writer at logFile and
// directs backendLog's output to both stdout and the rotator. It must
// be called at most once, during start-up, before any SubsystemLogger
// call.
func InitLogRotator(logFile string, maxRolls int) error {
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return err
	}
	logRotator = r
	backendLog = slog.NewBackend(io.MultiWriter(os.Stdout, r))
	return nil
}

// SubsystemLogger returns a new slog.Logger tagged with subsystemTag,
// backed by the shared rotating file/stdout sink.
func SubsystemLogger(subsystemTag string) slog.Logger {
	return backendLog.Logger(subsystemTag)
}

// Close releases the underlying log rotator, if one was initialized.
func Close() {
	if logRotator != nil {
		logRotator.Close()
	}
}
