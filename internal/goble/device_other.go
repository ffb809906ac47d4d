//go:build !linux && !darwin

package goble

import "github.com/go-ble/ble"

// DeviceFactory reports that no BLE backend exists for this platform
//
//nolint:revive // DeviceFactory name is intentional for test mocking as goble.DeviceFactory
var DeviceFactory = func() (ble.Device, error) {
	return nil, ErrUnsupportedPlatform
}
