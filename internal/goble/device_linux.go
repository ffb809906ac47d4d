//go:build linux

package goble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// DeviceFactory creates the HCI-backed ble.Device (can be overridden in tests)
//
//nolint:revive // DeviceFactory name is intentional for test mocking as goble.DeviceFactory
var DeviceFactory = func() (ble.Device, error) {
	return linux.NewDevice()
}
