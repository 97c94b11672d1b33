// Package monitor follows VaultGuard contract notifications and turns them
// into an append-only stream of typed domain events.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
	"go.uber.org/zap"
)

// Notification names emitted by VaultGuard contract.
const (
	VaultCreated       = "VaultCreated"
	FundsDeposited     = "FundsDeposited"
	SubmissionCreated  = "SubmissionCreated"
	SubmissionVoted    = "SubmissionVoted"
	SubmissionApproved = "SubmissionApproved"
	SubmissionRejected = "SubmissionRejected"
	PayoutSent         = "PayoutSent"
	VaultClosed        = "VaultClosed"
	YieldStrategySet   = "YieldStrategySet"
)

// ErrUnknownEvent is returned by Decode for notifications VaultGuard contract
// does not declare.
var ErrUnknownEvent = errors.New("unknown event")

// Subscriber opens notification streams of the blockchain. It is implemented
// by neo-go WebSocket RPC client.
type Subscriber interface {
	// ReceiveExecutionNotifications sends matching notifications into the
	// channel. The channel is closed when connection to the blockchain is lost.
	ReceiveExecutionNotifications(flt *neorpc.NotificationFilter, rcvr chan<- *state.ContainedNotificationEvent) (string, error)
	// Unsubscribe closes the stream opened with the given ID.
	Unsubscribe(id string) error
}

// Event is a decoded VaultGuard notification.
type Event struct {
	// Transaction (or block) which emitted the notification.
	Container util.Uint256
	Name      string
	// One of vaultguard.*Event pointers matching Name.
	Value any
}

// Handler receives every event accepted by the Monitor in the emission order.
type Handler func(Event)

// Prm groups Monitor parameters.
type Prm struct {
	Logger *zap.Logger

	Subscriber Subscriber

	// VaultGuard contract address.
	Contract util.Uint160

	// Registerer for the Monitor metrics. Metrics are not exported if nil.
	Registerer prometheus.Registerer
}

// Monitor keeps the audit log of VaultGuard events.
type Monitor struct {
	log        *zap.Logger
	subscriber Subscriber
	contract   util.Uint160
	metrics    *metrics

	mtx      sync.RWMutex
	events   []Event
	handlers []Handler
}

// New creates Monitor of the contract.
func New(prm Prm) *Monitor {
	reg := prm.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Monitor{
		log:        prm.Logger,
		subscriber: prm.Subscriber,
		contract:   prm.Contract,
		metrics:    newMetrics(reg),
	}
}

// AddHandler registers h for all events accepted after the call.
func (m *Monitor) AddHandler(h Handler) {
	m.mtx.Lock()
	m.handlers = append(m.handlers, h)
	m.mtx.Unlock()
}

// Events returns copy of the audit log.
func (m *Monitor) Events() []Event {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	res := make([]Event, len(m.events))
	copy(res, m.events)

	return res
}

// Replay passes all logged events to h.
func (m *Monitor) Replay(h Handler) {
	for _, ev := range m.Events() {
		h(ev)
	}
}

// Run subscribes to the contract notifications and processes them until the
// context is done or the subscription is lost.
func (m *Monitor) Run(ctx context.Context) error {
	ch := make(chan *state.ContainedNotificationEvent)

	id, err := m.subscriber.ReceiveExecutionNotifications(&neorpc.NotificationFilter{Contract: &m.contract}, ch)
	if err != nil {
		return fmt.Errorf("subscribe to contract notifications: %w", err)
	}

	m.log.Info("listening to contract notifications", zap.Stringer("contract", m.contract))

	defer m.unsubscribe(id, ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return errors.New("notification channel closed")
			}

			err = m.Process(ev)
			if err != nil {
				m.log.Warn("skip contract notification",
					zap.String("name", ev.Name), zap.Stringer("container", ev.Container), zap.Error(err))
			}
		}
	}
}

// unsubscribe cancels the subscription. Client keeps sending notifications
// until unsubscription is done, so the channel is drained meanwhile.
func (m *Monitor) unsubscribe(id string, ch <-chan *state.ContainedNotificationEvent) {
	done := make(chan struct{})
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
			}
		}
	}()

	err := m.subscriber.Unsubscribe(id)
	close(done)
	<-drained

	if err != nil {
		m.log.Warn("failed to unsubscribe from notifications", zap.Error(err))
	}
}

// Process decodes the notification and appends it to the audit log.
// Notifications of other contracts are ignored.
func (m *Monitor) Process(ev *state.ContainedNotificationEvent) error {
	if !ev.ScriptHash.Equals(m.contract) {
		return nil
	}

	v, err := Decode(ev.NotificationEvent)
	if err != nil {
		m.metrics.decodeErrors.Inc()
		return err
	}

	e := Event{Container: ev.Container, Name: ev.Name, Value: v}

	m.mtx.Lock()
	m.events = append(m.events, e)
	handlers := m.handlers
	m.mtx.Unlock()

	m.metrics.events.WithLabelValues(e.Name).Inc()

	switch v := v.(type) {
	case *vaultguard.PayoutSentEvent:
		m.metrics.payouts.Add(amount(v.Amount))
	case *vaultguard.VaultClosedEvent:
		m.metrics.refunds.Add(amount(v.Refund))
	}

	m.log.Debug("contract event", zap.String("name", e.Name), zap.Stringer("container", e.Container))

	for _, h := range handlers {
		h(e)
	}

	return nil
}

// Decode converts the notification into one of vaultguard.*Event types.
func Decode(ev state.NotificationEvent) (any, error) {
	var v interface {
		FromStackItem(*stackitem.Array) error
	}

	switch ev.Name {
	case VaultCreated:
		v = new(vaultguard.VaultCreatedEvent)
	case FundsDeposited:
		v = new(vaultguard.FundsDepositedEvent)
	case SubmissionCreated:
		v = new(vaultguard.SubmissionCreatedEvent)
	case SubmissionVoted:
		v = new(vaultguard.SubmissionVotedEvent)
	case SubmissionApproved:
		v = new(vaultguard.SubmissionApprovedEvent)
	case SubmissionRejected:
		v = new(vaultguard.SubmissionRejectedEvent)
	case PayoutSent:
		v = new(vaultguard.PayoutSentEvent)
	case VaultClosed:
		v = new(vaultguard.VaultClosedEvent)
	case YieldStrategySet:
		v = new(vaultguard.YieldStrategySetEvent)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Name)
	}

	err := v.FromStackItem(ev.Item)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ev.Name, err)
	}

	return v, nil
}

func amount(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
