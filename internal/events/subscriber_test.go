package events

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func newTestPair(t *testing.T) (*NATSPublisher, *NATSSubscriber) {
	t.Helper()
	url := startTestNATS(t)
	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	t.Cleanup(func() { pub.Close() })
	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	t.Cleanup(func() { sub.Close() })
	return pub, sub
}

func TestNATSSubscriber_WildcardDelivery(t *testing.T) {
	pub, sub := newTestPair(t)

	ch, cancel, err := sub.Subscribe(AllTopics)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	topics := []string{TopicConfigSaved, TopicScheduleCreated, TopicDashboardResynced}
	for _, topic := range topics {
		if err := pub.conn.Publish(topic, []byte(`{"topic":"`+topic+`"}`)); err != nil {
			t.Fatalf("publishing to %s: %v", topic, err)
		}
	}
	pub.conn.Flush()

	for i, topic := range topics {
		select {
		case msg := <-ch:
			if want := `{"topic":"` + topic + `"}`; string(msg.Data) != want {
				t.Errorf("message %d = %s, want %s", i, msg.Data, want)
			}
			if msg.Topic != topic {
				t.Errorf("message %d topic = %q, want %q", i, msg.Topic, topic)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestNATSSubscriber_NarrowTopic(t *testing.T) {
	pub, sub := newTestPair(t)

	ch, cancel, err := sub.Subscribe("reelcast.schedule.*")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	_ = pub.conn.Publish(TopicProductAdded, []byte(`{}`))
	_ = pub.conn.Publish(TopicScheduleDeleted, []byte(`{"schedule_id":1}`))
	pub.conn.Flush()

	select {
	case msg := <-ch:
		if msg.Topic != TopicScheduleDeleted || string(msg.Data) != `{"schedule_id":1}` {
			t.Errorf("got %s %s, want the schedule event only", msg.Topic, msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_Cancel(t *testing.T) {
	_, sub := newTestPair(t)

	ch, cancel, err := sub.Subscribe(AllTopics)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()
	cancel() // second call must not panic

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestNATSSubscriber_CancelDuringMessages(t *testing.T) {
	pub, sub := newTestPair(t)

	ch, cancel, err := sub.Subscribe(AllTopics)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = pub.conn.Publish(TopicDashboardToggled, []byte(`{"is_split_mode":true}`))
		}
		pub.conn.Flush()
	}()

	cancel()
	<-done

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestNATSPublisher_RoundTrip(t *testing.T) {
	pub, sub := newTestPair(t)

	ch, cancel, err := sub.Subscribe(AllTopics)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	if err := pub.Publish(context.Background(), TopicScheduleDeleted, ScheduleDeleted{ScheduleID: 7}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-ch:
		if msg.Topic != TopicScheduleDeleted || string(msg.Data) != `{"schedule_id":7}` {
			t.Errorf("got %s %s", msg.Topic, msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSPublisher_RejectsForeignTopic(t *testing.T) {
	pub, _ := newTestPair(t)
	if err := pub.Publish(context.Background(), "billing.invoice.created", struct{}{}); err == nil {
		t.Fatal("expected error for topic outside the namespace")
	}
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	pub, _ := newTestPair(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicConfigSaved, struct{}{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
