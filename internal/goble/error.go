package goble

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBluetoothOff        = errors.New("bluetooth is turned off")
	ErrUnsupportedPlatform = errors.New("no BLE backend for this platform")
	ErrAdvertise           = errors.New("advertising failed")
	ErrNotSubscribed       = errors.New("peer has no notification subscription")
)

// NormalizeError maps known go-ble error strings to package sentinels.
// Returns wrapped errors to preserve original context.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case msg == "central manager has invalid state: have=4 want=5: is Bluetooth turned on?",
		msg == "peripheral manager has invalid state: have=4 want=5: is Bluetooth turned on?":
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "bluetooth is turned off"),
		containsIgnoreCase(msg, "powered off"):
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	default:
		return err
	}
}

// containsIgnoreCase checks the substring case-insensitively
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
