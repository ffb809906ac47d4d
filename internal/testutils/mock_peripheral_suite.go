package testutils

import (
	"context"
	"sync"
	"time"

	blelib "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/blimp/internal/goble"
	"github.com/srg/blimp/internal/peripheral"
	"github.com/srg/blimp/internal/testutils/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBLEDeviceSuite runs a goble.Server against a mocked ble.Device.
//
// The suite swaps goble.DeviceFactory for each test. The default device accepts
// the service, advertises until the serve context ends, and stops cleanly.
// Override Device expectations in SetupTest before calling the parent:
//
//	func (s *AdvertiseFailureSuite) SetupTest() {
//	    s.MockBLEDeviceSuite.SetupTest()
//	    s.Device.ExpectedCalls = nil
//	    s.Device.On("AddService", mock.Anything).Return(errors.New("busy"))
//	}
type MockBLEDeviceSuite struct {
	suite.Suite

	Helper *TestHelper
	Logger *logrus.Logger

	OriginalDeviceFactory func() (blelib.Device, error)
	TestTimeout           time.Duration

	Device     *mocks.MockDevice
	Server     *goble.Server
	Peripheral *peripheral.Peripheral
	Clock      *ManualClock

	mu      sync.Mutex
	service *blelib.Service
	cancel  context.CancelFunc
	done    chan error
}

// SetupSuite is called once before all tests in the suite
func (s *MockBLEDeviceSuite) SetupSuite() {
	s.Helper = NewTestHelper(s.T())
	s.Logger = s.Helper.Logger
	s.TestTimeout = 2 * time.Second
	s.OriginalDeviceFactory = goble.DeviceFactory

	s.T().Cleanup(func() {
		if s.OriginalDeviceFactory != nil {
			goble.DeviceFactory = s.OriginalDeviceFactory
			s.Logger.Debug("Device factory restored via t.Cleanup")
		}
	})
}

// SetupTest installs a fresh mock device and wires a Peripheral to a Server
func (s *MockBLEDeviceSuite) SetupTest() {
	s.Device = &mocks.MockDevice{}
	s.Device.On("AddService", mock.Anything).Run(func(args mock.Arguments) {
		s.mu.Lock()
		s.service = args.Get(0).(*blelib.Service)
		s.mu.Unlock()
	}).Return(nil)
	s.Device.On("AdvertiseNameAndServices", mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	s.Device.On("Stop").Return(nil)

	goble.DeviceFactory = func() (blelib.Device, error) {
		return s.Device, nil
	}

	server, err := goble.NewServer(goble.ServerOptions{
		DeviceName:         "blimp-test",
		ServiceUUID:        TestServiceUUID,
		CharacteristicUUID: TestCharacteristicUUID,
	}, s.Logger)
	s.Require().NoError(err, "server creation MUST succeed")
	s.Server = server

	s.Clock = &ManualClock{}
	p, err := peripheral.New(peripheral.Options{
		ServiceUUID:        TestServiceUUID,
		CharacteristicUUID: TestCharacteristicUUID,
		SchedulerOptions:   []peripheral.SchedulerOption{peripheral.WithTicker(s.Clock.NewTicker)},
	}, server, s.Logger)
	s.Require().NoError(err, "peripheral creation MUST succeed")
	s.Peripheral = p

	s.service = nil
	s.cancel = nil
	s.done = nil
}

// TearDownTest stops serving and releases the peripheral
func (s *MockBLEDeviceSuite) TearDownTest() {
	s.StopServing()
	if s.Peripheral != nil {
		s.Require().NoError(s.Peripheral.Close())
	}
	goble.DeviceFactory = s.OriginalDeviceFactory
}

// StartServing runs Server.Serve in the background and waits for the service
// to be registered
func (s *MockBLEDeviceSuite) StartServing() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)

	go func() {
		s.done <- s.Server.Serve(ctx, s.Peripheral)
	}()

	s.Require().Eventually(func() bool {
		return s.Service() != nil
	}, s.TestTimeout, time.Millisecond, "service MUST be registered with the device")
}

// StopServing cancels Serve and returns its result; nil when not serving
func (s *MockBLEDeviceSuite) StopServing() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	s.cancel = nil

	select {
	case err := <-s.done:
		return err
	case <-time.After(s.TestTimeout):
		s.Fail("Serve MUST return after cancellation")
		return nil
	}
}

// Service returns the service registered with the mock device
func (s *MockBLEDeviceSuite) Service() *blelib.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service
}

// Characteristic returns the single exposed characteristic
func (s *MockBLEDeviceSuite) Characteristic() *blelib.Characteristic {
	svc := s.Service()
	s.Require().NotNil(svc, "service MUST be registered")
	s.Require().Len(svc.Characteristics, 1, "service MUST expose exactly one characteristic")
	return svc.Characteristics[0]
}

// Subscribe simulates addr enabling notifications and returns its notifier
func (s *MockBLEDeviceSuite) Subscribe(addr string) *mocks.MockNotifier {
	n := mocks.NewMockNotifier()
	s.Characteristic().NotifyHandler.ServeNotify(mocks.NewMockRequest(addr), n)
	return n
}

// Read simulates addr reading the characteristic
func (s *MockBLEDeviceSuite) Read(addr string) *mocks.ResponseRecorder {
	rsp := &mocks.ResponseRecorder{}
	s.Characteristic().ReadHandler.ServeRead(mocks.NewMockRequest(addr), rsp)
	return rsp
}
