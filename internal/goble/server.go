package goble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cornelk/hashmap"
	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/blimp/internal/groutine"
	"github.com/srg/blimp/internal/peripheral"
)

// EventSink receives transport events; *peripheral.Peripheral implements it
type EventSink interface {
	OnConnected(peer peripheral.Peer)
	OnDisconnected(peer peripheral.Peer)
	HandleRead(characteristicUUID string) (peripheral.Payload, error)
}

// ServerOptions configures the exposed GATT profile and advertisement
type ServerOptions struct {
	DeviceName         string
	ServiceUUID        string
	CharacteristicUUID string
}

// subscription is one central's notifier; compared by pointer so a stale
// watcher never removes a newer subscription of the same peer
type subscription struct {
	peer     peripheral.Peer
	notifier ble.Notifier
}

// Server is a go-ble GATT server exposing one read/notify characteristic.
// It implements peripheral.Transport.
type Server struct {
	opts     ServerOptions
	svcUUID  ble.UUID
	charUUID ble.UUID
	logger   *logrus.Logger

	// subs is read lock-free on every notification; subMu serializes
	// subscribe/unsubscribe so replacement checks are atomic
	subs  *hashmap.Map[string, *subscription]
	subMu sync.Mutex
	wg    sync.WaitGroup

	// stopping is guarded by subMu; once set no new watcher joins wg
	stopping bool
}

// NewServer validates the profile identifiers and creates a server
func NewServer(opts ServerOptions, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logrus.New()
	}

	svcUUID, err := ble.Parse(opts.ServiceUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid service UUID %q: %w", opts.ServiceUUID, err)
	}
	charUUID, err := ble.Parse(opts.CharacteristicUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid characteristic UUID %q: %w", opts.CharacteristicUUID, err)
	}

	return &Server{
		opts:     opts,
		svcUUID:  svcUUID,
		charUUID: charUUID,
		logger:   logger,
		subs:     hashmap.New[string, *subscription](),
	}, nil
}

// Serve creates the BLE device, registers the service and advertises until
// ctx is done. Remaining subscriptions are reported as disconnected before
// Serve returns.
func (s *Server) Serve(ctx context.Context, sink EventSink) error {
	dev, err := DeviceFactory()
	if err != nil {
		return fmt.Errorf("failed to create BLE device: %w", NormalizeError(err))
	}

	s.subMu.Lock()
	s.stopping = false
	s.subMu.Unlock()

	serveCtx, cancel := context.WithCancel(ctx)
	defer s.shutdown(dev, cancel)

	if err := dev.AddService(s.NewService(serveCtx, sink)); err != nil {
		return fmt.Errorf("failed to add service: %w", NormalizeError(err))
	}

	s.logger.WithFields(logrus.Fields{
		"name":           s.opts.DeviceName,
		"service":        s.svcUUID.String(),
		"characteristic": s.charUUID.String(),
	}).Info("Advertising")

	err = dev.AdvertiseNameAndServices(serveCtx, s.opts.DeviceName, s.svcUUID)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrAdvertise, NormalizeError(err))
	}

	s.logger.Info("Advertising stopped")
	return nil
}

// NewService builds the GATT service routing reads and subscriptions to sink.
// Subscriptions end no later than ctx.
func (s *Server) NewService(ctx context.Context, sink EventSink) *ble.Service {
	svc := ble.NewService(s.svcUUID)
	char := svc.NewCharacteristic(s.charUUID)
	char.NewDescriptor(ble.UUID16(0x2901)).SetValue([]byte("Random value between 0 and 99"))

	char.HandleRead(ble.ReadHandlerFunc(func(req ble.Request, rsp ble.ResponseWriter) {
		s.serveRead(sink, peerOf(req), rsp)
	}))
	char.HandleNotify(ble.NotifyHandlerFunc(func(req ble.Request, n ble.Notifier) {
		s.serveNotify(ctx, sink, peerOf(req), n)
	}))

	return svc
}

// Notify implements peripheral.Transport
func (s *Server) Notify(peer peripheral.Peer, payload peripheral.Payload) error {
	sub, ok := s.subs.Get(string(peer))
	if !ok {
		return peripheral.NewSendError(peer, ErrNotSubscribed)
	}
	if _, err := sub.notifier.Write(payload.Bytes()); err != nil {
		return peripheral.NewSendError(peer, NormalizeError(err))
	}
	return nil
}

// Subscribers returns the number of live notification subscriptions
func (s *Server) Subscribers() int {
	return s.subs.Len()
}

func (s *Server) serveRead(sink EventSink, peer peripheral.Peer, rsp ble.ResponseWriter) {
	payload, err := sink.HandleRead(s.opts.CharacteristicUUID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"peer":  peer,
			"error": err,
		}).Warn("Read rejected")
		if errors.Is(err, peripheral.ErrClosed) {
			rsp.SetStatus(ble.ErrUnlikely)
			return
		}
		rsp.SetStatus(ble.ErrAttrNotFound)
		return
	}

	if _, err := rsp.Write(payload.Bytes()); err != nil {
		s.logger.WithFields(logrus.Fields{
			"peer":  peer,
			"error": err,
		}).Warn("Failed to write read response")
		rsp.SetStatus(ble.ErrUnlikely)
	}
}

// shutdown refuses new subscriptions, stops the device and then waits for
// every watcher, so no subscription outlives Serve
func (s *Server) shutdown(dev ble.Device, cancel context.CancelFunc) {
	s.subMu.Lock()
	s.stopping = true
	s.subMu.Unlock()

	cancel()
	if err := dev.Stop(); err != nil {
		s.logger.WithError(err).Debug("Failed to stop BLE device")
	}
	s.wg.Wait()
}

func (s *Server) serveNotify(ctx context.Context, sink EventSink, peer peripheral.Peer, n ble.Notifier) {
	sub := &subscription{peer: peer, notifier: n}

	s.subMu.Lock()
	if s.stopping {
		s.subMu.Unlock()
		s.logger.WithField("peer", peer).Debug("Subscription refused: server stopping")
		return
	}
	s.subs.Set(string(peer), sub)
	s.wg.Add(1)
	s.subMu.Unlock()

	s.logger.WithField("peer", peer).Debug("Notification subscription started")
	sink.OnConnected(peer)

	// go-ble may invoke this handler on its ATT loop, so never block here
	groutine.Go(ctx, "notify-watch-"+string(peer), func(ctx context.Context) {
		defer s.wg.Done()
		select {
		case <-n.Context().Done():
		case <-ctx.Done():
		}
		s.unsubscribe(sink, sub)
	})
}

func (s *Server) unsubscribe(sink EventSink, sub *subscription) {
	s.subMu.Lock()
	current, ok := s.subs.Get(string(sub.peer))
	stale := !ok || current != sub
	if !stale {
		s.subs.Del(string(sub.peer))
	}
	s.subMu.Unlock()

	if stale {
		s.logger.WithField("peer", sub.peer).Debug("Stale subscription ended")
		return
	}

	s.logger.WithField("peer", sub.peer).Debug("Notification subscription ended")
	sink.OnDisconnected(sub.peer)
}

// peerOf identifies the central behind a request by its remote address
func peerOf(req ble.Request) peripheral.Peer {
	if req == nil || req.Conn() == nil || req.Conn().RemoteAddr() == nil {
		return "unknown"
	}
	return peripheral.Peer(req.Conn().RemoteAddr().String())
}
