package mocks

import (
	"context"
	"sync"

	"github.com/go-ble/ble"
	"github.com/stretchr/testify/mock"
)

// MockDevice mocks the peripheral half of ble.Device. Methods not overridden
// panic through the nil embedded interface.
type MockDevice struct {
	ble.Device
	mock.Mock
}

func (m *MockDevice) AddService(svc *ble.Service) error {
	args := m.Called(svc)
	return args.Error(0)
}

func (m *MockDevice) AdvertiseNameAndServices(ctx context.Context, name string, uuids ...ble.UUID) error {
	args := m.Called(ctx, name, uuids)
	if fn, ok := args.Get(0).(func(context.Context) error); ok {
		return fn(ctx)
	}
	return args.Error(0)
}

func (m *MockDevice) Stop() error {
	args := m.Called()
	return args.Error(0)
}

// MockNotifier is a ble.Notifier whose subscription ends on Unsubscribe
type MockNotifier struct {
	mock.Mock

	ctx    context.Context
	cancel context.CancelFunc
}

func NewMockNotifier() *MockNotifier {
	ctx, cancel := context.WithCancel(context.Background())
	return &MockNotifier{ctx: ctx, cancel: cancel}
}

func (m *MockNotifier) Context() context.Context { return m.ctx }

// Unsubscribe simulates the central disabling notifications or disconnecting
func (m *MockNotifier) Unsubscribe() { m.cancel() }

func (m *MockNotifier) Write(b []byte) (int, error) {
	args := m.Called(b)
	return args.Int(0), args.Error(1)
}

func (m *MockNotifier) Close() error {
	m.cancel()
	return nil
}

func (m *MockNotifier) Cap() int { return 20 }

// MockConn reports a fixed remote address
type MockConn struct {
	ble.Conn
	Addr ble.Addr
}

func (c *MockConn) RemoteAddr() ble.Addr { return c.Addr }

// MockRequest is a ble.Request originating from a central at addr
type MockRequest struct {
	conn *MockConn
}

func NewMockRequest(addr string) *MockRequest {
	return &MockRequest{conn: &MockConn{Addr: ble.NewAddr(addr)}}
}

func (r *MockRequest) Conn() ble.Conn { return r.conn }
func (r *MockRequest) Data() []byte   { return nil }
func (r *MockRequest) Offset() int    { return 0 }

// ResponseRecorder captures what a read handler wrote
type ResponseRecorder struct {
	mu     sync.Mutex
	buf    []byte
	status ble.ATTError
}

func (r *ResponseRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, b...)
	return len(b), nil
}

func (r *ResponseRecorder) Status() ble.ATTError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *ResponseRecorder) SetStatus(status ble.ATTError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *ResponseRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

func (r *ResponseRecorder) Cap() int { return 512 }

func (r *ResponseRecorder) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.buf...)
}
