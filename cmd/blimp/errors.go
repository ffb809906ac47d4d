package main

import (
	"errors"
	"strings"

	"github.com/srg/blimp/internal/goble"
	"github.com/srg/blimp/internal/peripheral"
	"github.com/srg/blimp/pkg/config"
)

// FormatUserError turns known failures into actionable one-line messages
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, goble.ErrBluetoothOff):
		return "Bluetooth is turned off. Enable Bluetooth and try again."
	case errors.Is(err, goble.ErrUnsupportedPlatform):
		return "BLE peripheral mode is not supported on this platform (Linux and macOS only)."
	case errors.Is(err, goble.ErrAdvertise):
		return "Failed to advertise: " + innermost(err) + ". Is another process advertising, or does blimp lack permission to use the adapter?"
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, peripheral.ErrInvalidOptions):
		return "Configuration error: " + strings.TrimPrefix(err.Error(), config.ErrInvalidConfig.Error()+": ")
	default:
		return err.Error()
	}
}

// innermost returns the message of the deepest wrapped cause, following the
// last branch of multi-%w errors
func innermost(err error) string {
	for {
		var next error
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			if errs := e.Unwrap(); len(errs) > 0 {
				next = errs[len(errs)-1]
			}
		case interface{ Unwrap() error }:
			next = e.Unwrap()
		}
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
