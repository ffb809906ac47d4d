package mocks

import (
	"github.com/srg/blimp/internal/peripheral"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a testify mock of peripheral.Transport
type MockTransport struct {
	mock.Mock
}

// Notify provides a mock function with given fields: peer, payload
func (m *MockTransport) Notify(peer peripheral.Peer, payload peripheral.Payload) error {
	ret := m.Called(peer, payload)

	if fn, ok := ret.Get(0).(func(peripheral.Peer, peripheral.Payload) error); ok {
		return fn(peer, payload)
	}
	return ret.Error(0)
}

// MockTransitionListener is a testify mock of peripheral.TransitionListener
type MockTransitionListener struct {
	mock.Mock
}

func (m *MockTransitionListener) Start() { m.Called() }
func (m *MockTransitionListener) Stop()  { m.Called() }
