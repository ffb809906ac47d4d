//go:build darwin

package goble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

// DeviceFactory creates the CoreBluetooth-backed ble.Device (can be overridden in tests)
//
//nolint:revive // DeviceFactory name is intentional for test mocking as goble.DeviceFactory
var DeviceFactory = func() (ble.Device, error) {
	return darwin.NewDevice()
}
