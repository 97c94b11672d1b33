package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
	"go.uber.org/zap/zaptest"
)

var (
	testContract   = util.Uint160{1, 2, 3}
	testResearcher = util.Uint160{4, 5, 6}
)

type testSubscriber struct {
	mtx          sync.Mutex
	rcvr         chan<- *state.ContainedNotificationEvent
	flt          *neorpc.NotificationFilter
	unsubscribed []string
	// Delivered during unsubscription, as the client does with events
	// received before the subscription is removed.
	pending []*state.ContainedNotificationEvent

	subscribed chan struct{}
}

func newTestSubscriber() *testSubscriber {
	return &testSubscriber{subscribed: make(chan struct{})}
}

func (s *testSubscriber) ReceiveExecutionNotifications(flt *neorpc.NotificationFilter, rcvr chan<- *state.ContainedNotificationEvent) (string, error) {
	s.mtx.Lock()
	s.flt = flt
	s.rcvr = rcvr
	s.mtx.Unlock()

	close(s.subscribed)

	return "sub", nil
}

func (s *testSubscriber) Unsubscribe(id string) error {
	s.mtx.Lock()
	s.unsubscribed = append(s.unsubscribed, id)
	rcvr, pending := s.rcvr, s.pending
	s.mtx.Unlock()

	for _, ev := range pending {
		rcvr <- ev
	}

	return nil
}

func notification(contract util.Uint160, name string, items ...stackitem.Item) *state.ContainedNotificationEvent {
	return &state.ContainedNotificationEvent{
		Container: util.Uint256{byte(len(name))},
		NotificationEvent: state.NotificationEvent{
			ScriptHash: contract,
			Name:       name,
			Item:       stackitem.NewArray(items),
		},
	}
}

func newTestMonitor(t *testing.T, sub Subscriber) (*Monitor, *prometheus.Registry) {
	reg := prometheus.NewRegistry()

	return New(Prm{
		Logger:     zaptest.NewLogger(t),
		Subscriber: sub,
		Contract:   testContract,
		Registerer: reg,
	}), reg
}

func TestDecode(t *testing.T) {
	ev := notification(testContract, PayoutSent,
		stackitem.Make(7), stackitem.NewByteArray(testResearcher.BytesBE()), stackitem.Make(975))

	v, err := Decode(ev.NotificationEvent)
	require.NoError(t, err)

	payout, ok := v.(*vaultguard.PayoutSentEvent)
	require.True(t, ok)
	require.EqualValues(t, 7, payout.SubmissionID.Int64())
	require.Equal(t, testResearcher, payout.Researcher)
	require.EqualValues(t, 975, payout.Amount.Int64())

	_, err = Decode(notification(testContract, "Transfer").NotificationEvent)
	require.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode(notification(testContract, VaultClosed, stackitem.Make(1)).NotificationEvent)
	require.Error(t, err)
}

func TestMonitor_Process(t *testing.T) {
	m, _ := newTestMonitor(t, newTestSubscriber())

	var handled []string
	m.AddHandler(func(e Event) { handled = append(handled, e.Name) })

	require.NoError(t, m.Process(notification(testContract, SubmissionRejected, stackitem.Make(3))))
	require.NoError(t, m.Process(notification(testContract, PayoutSent,
		stackitem.Make(1), stackitem.NewByteArray(testResearcher.BytesBE()), stackitem.Make(975))))
	require.NoError(t, m.Process(notification(testContract, VaultClosed, stackitem.Make(0), stackitem.Make(25))))

	// Foreign notifications are skipped silently.
	require.NoError(t, m.Process(notification(util.Uint160{9}, PayoutSent, stackitem.Make(1))))

	require.Error(t, m.Process(notification(testContract, SubmissionVoted, stackitem.Make(1))))

	require.Equal(t, []string{SubmissionRejected, PayoutSent, VaultClosed}, handled)

	events := m.Events()
	require.Len(t, events, 3)
	require.Equal(t, util.Uint256{byte(len(PayoutSent))}, events[1].Container)

	rejected, ok := events[0].Value.(*vaultguard.SubmissionRejectedEvent)
	require.True(t, ok)
	require.EqualValues(t, 3, rejected.SubmissionID.Int64())

	require.EqualValues(t, 1, testutil.ToFloat64(m.metrics.events.WithLabelValues(PayoutSent)))
	require.EqualValues(t, 0, testutil.ToFloat64(m.metrics.events.WithLabelValues(SubmissionVoted)))
	require.EqualValues(t, 1, testutil.ToFloat64(m.metrics.decodeErrors))
	require.EqualValues(t, 975, testutil.ToFloat64(m.metrics.payouts))
	require.EqualValues(t, 25, testutil.ToFloat64(m.metrics.refunds))

	t.Run("replay", func(t *testing.T) {
		var replayed []string
		m.Replay(func(e Event) { replayed = append(replayed, e.Name) })
		require.Equal(t, handled, replayed)
	})
}

func TestMonitor_Run(t *testing.T) {
	sub := newTestSubscriber()
	m, reg := newTestMonitor(t, sub)

	handled := make(chan Event, 1)
	m.AddHandler(func(e Event) { handled <- e })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case <-sub.subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor has not subscribed")
	}

	sub.mtx.Lock()
	rcvr := sub.rcvr
	require.Equal(t, testContract, *sub.flt.Contract)
	sub.mtx.Unlock()

	rcvr <- notification(testContract, FundsDeposited, stackitem.Make(0), stackitem.Make(100))

	select {
	case e := <-handled:
		deposited, ok := e.Value.(*vaultguard.FundsDepositedEvent)
		require.True(t, ok)
		require.EqualValues(t, 100, deposited.Amount.Int64())
	case <-time.After(5 * time.Second):
		t.Fatal("event has not been handled")
	}

	cancel()

	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("monitor has not stopped")
	}

	sub.mtx.Lock()
	require.Equal(t, []string{"sub"}, sub.unsubscribed)
	sub.mtx.Unlock()

	n, err := testutil.GatherAndCount(reg, "vaultguard_events_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestMonitor_RunShutdownWithPendingNotifications(t *testing.T) {
	sub := newTestSubscriber()
	sub.pending = []*state.ContainedNotificationEvent{
		notification(testContract, FundsDeposited, stackitem.Make(0), stackitem.Make(1)),
		notification(testContract, FundsDeposited, stackitem.Make(0), stackitem.Make(2)),
	}

	m, _ := newTestMonitor(t, sub)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case <-sub.subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor has not subscribed")
	}

	cancel()

	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("monitor is blocked on unsubscription")
	}

	sub.mtx.Lock()
	require.Equal(t, []string{"sub"}, sub.unsubscribed)
	sub.mtx.Unlock()

	require.Empty(t, m.Events())
}
