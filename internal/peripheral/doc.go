// Package peripheral implements the transport-independent core of a BLE
// peripheral exposing a single read/notify characteristic.
//
// The package provides:
//   - Payload encoding for the 4-byte little-endian characteristic value
//   - A thread-safe random ValueSource feeding both reads and notifications
//   - A Registry of connected peers whose empty/non-empty edges drive the scheduler
//   - A Scheduler that pushes one shared value to every peer each period
//   - A Peripheral facade wiring the above to a Transport
//
// The BLE stack itself (advertising, attribute table, MTU, bonding) lives
// behind the Transport interface; see package goble for the go-ble adapter.
package peripheral
