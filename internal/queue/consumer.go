package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartEventConsumer connects to RabbitMQ, declares the event queues
// (durable), and consumes both.  Each message is appended to
// logs/events.log in a single-line, human-friendly format.  The
// function runs a reconnect loop so the server keeps operating across
// broker restarts; processing errors are logged and the offending
// message is rejected without requeueing to avoid tight loops.
func StartEventConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("event-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("event-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("event-consumer: set QoS failed: %v", err)
	}

	deliveries := make(chan delivery)
	var forwarders sync.WaitGroup
	for _, name := range []string{UserRegisteredQueue, QuestionAnsweredQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		forwarders.Add(1)
		go func(queueName string, msgs <-chan amqp.Delivery) {
			defer forwarders.Done()
			for d := range msgs {
				deliveries <- delivery{queue: queueName, d: d}
			}
		}(name, msgs)
	}
	// Close the merged stream once both per-queue channels end, so the
	// loop below returns and the reconnect logic takes over.
	go func() {
		forwarders.Wait()
		close(deliveries)
	}()

	for dv := range deliveries {
		if err := handleMessage(dv.queue, dv.d.Body); err != nil {
			log.Printf("event-consumer: handle message failed: %v", err)
			_ = dv.d.Nack(false, false)
			continue
		}
		_ = dv.d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

type delivery struct {
	queue string
	d     amqp.Delivery
}

func handleMessage(queueName string, body []byte) error {
	var line string
	switch queueName {
	case UserRegisteredQueue:
		var ev UserRegisteredEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] User registered | user_id=%d | email=%s | role=%s\n",
			ev.At.Format(time.RFC3339), ev.UserID, ev.Email, ev.Role)
	case QuestionAnsweredQueue:
		var ev QuestionAnsweredEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] Question answered | question_id=%d | answer_id=%d | admin_id=%d\n",
			ev.At.Format(time.RFC3339), ev.QuestionID, ev.AnswerID, ev.AdminID)
	default:
		return fmt.Errorf("unknown queue %s", queueName)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "events.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
