package testutils

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/blimp/internal/peripheral"
	"github.com/stretchr/testify/suite"
)

// Default identifiers of the exposed GATT profile used across tests
const (
	TestServiceUUID        = "1706BBC0-88AB-4B8D-877E-2237916EE929"
	TestCharacteristicUUID = "275348FB-C14D-4FD5-B434-7C3F351DEA5F"
)

// PeripheralSuite provides a Peripheral wired to a RecordingTransport and a
// ManualClock, so notification cycles fire only when the test ticks.
//
//	type SchedulerSuite struct {
//	    testutils.PeripheralSuite
//	}
//
//	func (s *SchedulerSuite) TestOneCycle() {
//	    s.Peripheral.OnConnected(testutils.TestPeer1)
//	    s.TickCycle()
//	    s.Len(s.Transport.SentTo(testutils.TestPeer1), 1)
//	}
type PeripheralSuite struct {
	suite.Suite

	Helper *TestHelper
	Logger *logrus.Logger

	// Per-test fixtures, rebuilt by SetupTest
	Clock      *ManualClock
	Transport  *RecordingTransport
	Peripheral *peripheral.Peripheral

	// Source overrides the value source for the next SetupTest when set
	Source peripheral.ValueSource

	TickTimeout time.Duration
}

// SetupSuite is called once before all tests in the suite
func (s *PeripheralSuite) SetupSuite() {
	s.Helper = NewTestHelper(s.T())
	s.Logger = s.Helper.Logger
	s.TickTimeout = 2 * time.Second
	s.Logger.Debug("Suite setup completed")
}

// SetupTest builds fresh fixtures before each test
func (s *PeripheralSuite) SetupTest() {
	s.Clock = &ManualClock{}
	s.Transport = NewRecordingTransport()

	p, err := peripheral.New(peripheral.Options{
		ServiceUUID:        TestServiceUUID,
		CharacteristicUUID: TestCharacteristicUUID,
		NotifyPeriod:       peripheral.DefaultNotifyPeriod,
		Source:             s.Source,
		SchedulerOptions:   []peripheral.SchedulerOption{peripheral.WithTicker(s.Clock.NewTicker)},
	}, s.Transport, s.Logger)
	s.Require().NoError(err, "peripheral creation MUST succeed")
	s.Peripheral = p
}

// TearDownTest releases the peripheral so no scheduler goroutine leaks
func (s *PeripheralSuite) TearDownTest() {
	if s.Peripheral != nil {
		s.Require().NoError(s.Peripheral.Close())
	}
	s.Peripheral = nil
	s.Source = nil
}

// TickCycle fires the current ticker and waits until that cycle has finished
// all of its sends (or found no peers).
func (s *PeripheralSuite) TickCycle() {
	t := s.Clock.Last()
	s.Require().NotNil(t, "scheduler MUST have created a ticker")

	before := s.cyclesDone()
	s.Require().True(t.Tick(s.TickTimeout), "scheduler MUST receive the tick")
	s.Require().Eventually(func() bool {
		return s.cyclesDone() > before
	}, s.TickTimeout, time.Millisecond, "cycle MUST complete")
}

func (s *PeripheralSuite) cyclesDone() uint64 {
	st := s.Peripheral.Stats()
	return st.Cycles + st.CyclesSkipped
}
