// Package goble adapts the peripheral core to the go-ble GATT server.
//
// A central's notification subscription on the exposed characteristic is the
// connect event; the end of its notifier context (unsubscribe, link loss or
// server shutdown) is the disconnect event. Reads are answered synchronously
// from the core's value source.
package goble
