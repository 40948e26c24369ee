package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

var reminderDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reminder_dispatch_total",
		Help: "Total number of reminder dispatch events published",
	},
	[]string{"status"},
)

// RabbitMQDispatcher implements ReminderDispatcher by publishing dispatch
// events to a durable queue consumed by the notification worker
// Includes retry logic and circuit breaker for resilience
type RabbitMQDispatcher struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	queueName     string
	cb            *gobreaker.CircuitBreaker
	maxRetries    int
	retryDelay    time.Duration
	connMutex     sync.RWMutex
	reconnectCh   chan bool
	stopReconnect chan bool
}

// ReminderEvent is the dispatch payload consumed by the notification worker
// Channel selection (email vs SMS) happens downstream from the contact fields
type ReminderEvent struct {
	ReminderID uuid.UUID `json:"reminder_id"`
	UserID     uuid.UUID `json:"user_id"`
	Type       string    `json:"reminder_type"`
	Time       string    `json:"reminder_time"`
	Email      string    `json:"reminder_email,omitempty"`
	Phone      string    `json:"reminder_phone,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRabbitMQDispatcher creates a new RabbitMQ dispatcher with circuit breaker
func NewRabbitMQDispatcher(rabbitMQURL string, queueName string) (*RabbitMQDispatcher, error) {
	if queueName == "" {
		queueName = "wellness_reminders"
	}

	dispatcher := &RabbitMQDispatcher{
		queueName:     queueName,
		maxRetries:    3,
		retryDelay:    1 * time.Second,
		reconnectCh:   make(chan bool, 1),
		stopReconnect: make(chan bool),
	}

	settings := gobreaker.Settings{
		Name:        "rabbitmq",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	dispatcher.cb = gobreaker.NewCircuitBreaker(settings)

	if err := dispatcher.connect(rabbitMQURL); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go dispatcher.handleReconnection(rabbitMQURL)

	return dispatcher, nil
}

// connect establishes connection to RabbitMQ
func (d *RabbitMQDispatcher) connect(rabbitMQURL string) error {
	var err error
	for i := 0; i < d.maxRetries; i++ {
		d.conn, err = amqp091.Dial(rabbitMQURL)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v", i+1, d.maxRetries, err)
		if i < d.maxRetries-1 {
			time.Sleep(d.retryDelay)
		}
	}

	if err != nil {
		return err
	}

	d.channel, err = d.conn.Channel()
	if err != nil {
		d.conn.Close()
		return err
	}

	// Declare queue (idempotent)
	_, err = d.channel.QueueDeclare(
		d.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)

	if err != nil {
		d.channel.Close()
		d.conn.Close()
		return err
	}

	log.Println("Connected to RabbitMQ successfully")
	return nil
}

// handleReconnection handles automatic reconnection to RabbitMQ
func (d *RabbitMQDispatcher) handleReconnection(rabbitMQURL string) {
	for {
		select {
		case <-d.reconnectCh:
			log.Println("Attempting to reconnect to RabbitMQ...")
			d.connMutex.Lock()
			if d.channel != nil {
				d.channel.Close()
			}
			if d.conn != nil {
				d.conn.Close()
			}
			d.connMutex.Unlock()

			if err := d.connect(rabbitMQURL); err != nil {
				log.Printf("Reconnection failed: %v", err)
			}
		case <-d.stopReconnect:
			return
		}
	}
}

// PublishReminder publishes a dispatch event for a newly created reminder
// Implements ReminderDispatcher interface
func (d *RabbitMQDispatcher) PublishReminder(ctx context.Context, reminder *domain.Reminder) error {
	_, err := d.cb.Execute(func() (interface{}, error) {
		return nil, d.publishWithRetry(ctx, reminder)
	})
	if err != nil {
		reminderDispatchTotal.WithLabelValues("failed").Inc()
		return err
	}
	reminderDispatchTotal.WithLabelValues("published").Inc()
	return nil
}

// publishWithRetry publishes with retry logic
func (d *RabbitMQDispatcher) publishWithRetry(ctx context.Context, reminder *domain.Reminder) error {
	event := ReminderEvent{
		ReminderID: reminder.ID,
		UserID:     reminder.UserID,
		Type:       reminder.Type,
		Time:       reminder.Time,
		Email:      reminder.Email,
		Phone:      reminder.Phone,
		Timestamp:  time.Now(),
	}

	logEntry := map[string]interface{}{
		"event":         "reminder_publish_attempt",
		"reminder_id":   reminder.ID.String(),
		"reminder_type": reminder.Type,
		"timestamp":     time.Now().Format(time.RFC3339),
	}
	jsonBytes, _ := json.Marshal(logEntry)
	log.Printf("%s", string(jsonBytes))

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder event: %w", err)
	}

	var lastErr error
	for i := 0; i < d.maxRetries; i++ {
		d.connMutex.RLock()
		ch := d.channel
		conn := d.conn
		d.connMutex.RUnlock()

		if ch == nil || conn == nil || conn.IsClosed() {
			select {
			case d.reconnectCh <- true:
			default:
			}
			time.Sleep(d.retryDelay)
			continue
		}

		err = ch.PublishWithContext(
			ctx,
			"",          // exchange
			d.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				Body:         body,
				DeliveryMode: amqp091.Persistent,
				Timestamp:    time.Now(),
			},
		)

		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("Failed to publish reminder event (attempt %d/%d): %v", i+1, d.maxRetries, err)

		if i < d.maxRetries-1 {
			select {
			case d.reconnectCh <- true:
			default:
			}
			time.Sleep(d.retryDelay)
		}
	}

	return fmt.Errorf("failed to publish reminder event after %d retries: %w", d.maxRetries, lastErr)
}

// Close closes the RabbitMQ connection
func (d *RabbitMQDispatcher) Close() error {
	close(d.stopReconnect)
	d.connMutex.Lock()
	defer d.connMutex.Unlock()

	if d.channel != nil {
		d.channel.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// Ensure RabbitMQDispatcher implements the interface
var _ ports.ReminderDispatcher = (*RabbitMQDispatcher)(nil)
