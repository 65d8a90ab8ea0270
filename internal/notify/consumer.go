package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartActivityConsumer connects to RabbitMQ, declares the event.activity
// queue and consumes envelopes, appending one human-readable line per
// message to logs/activity.log.  It runs a reconnect loop with exponential
// backoff and never returns under normal operation; processing errors are
// logged and the offending message rejected so the service keeps running.
func StartActivityConsumer(url string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("activity-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeActivity(conn); err != nil {
			log.Printf("activity-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeActivity(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(activityQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(activityQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendActivityLine(d.Body); err != nil {
			log.Printf("activity-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendActivityLine(body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	var line string
	switch env.Kind {
	case KindEventUpdated:
		if env.Event == nil {
			return fmt.Errorf("event.updated envelope without event")
		}
		state := "open"
		if env.Event.Closed != nil {
			state = "closed"
		}
		line = fmt.Sprintf("%s event %d %q updated (%s)", env.At, env.Event.ID, env.Event.Name, state)
	case KindEventRemoved:
		line = fmt.Sprintf("%s event %d removed", env.At, env.EventID)
	case KindRosterUpdated:
		if env.SignIn == nil {
			return fmt.Errorf("roster.updated envelope without sign-in")
		}
		line = fmt.Sprintf("%s member %d (%s) sign-in %d on event %d",
			env.At, env.SignIn.MemberID, env.SignIn.Name, env.SignIn.ID, env.SignIn.EventID)
	default:
		return fmt.Errorf("unknown envelope kind %q", env.Kind)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "activity.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = fmt.Fprintln(f, line)
	return err
}
