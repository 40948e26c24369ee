package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// UserProvisioningEvent represents a message from the identity service
// announcing a new or updated account
// Identity service sends: { "user_id": "uuid-string", "name": "string", "email": "string", "gender": "string", "role": "string", "is_active": bool }
type UserProvisioningEvent struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// UserConsumer mirrors identity-service accounts into the local users table
// Runs in background as a goroutine within the wellness-service pod
// (For multi-replica deployments, RabbitMQ distributes messages across replicas)
type UserConsumer struct {
	conn           *amqp091.Connection
	channel        *amqp091.Channel
	queueName      string
	userRepo       ports.UserRepository
	connMutex      sync.RWMutex
	reconnectCh    chan bool
	stopReconnect  chan bool
	maxRetries     int
	retryDelay     time.Duration
	consumingCtx   context.Context
	consumingMutex sync.Mutex
	isConsuming    bool
}

// NewUserConsumer creates a new RabbitMQ consumer for user provisioning
func NewUserConsumer(rabbitMQURL string, queueName string, userRepo ports.UserRepository) (*UserConsumer, error) {
	if queueName == "" {
		queueName = "user.provisioning.events"
	}

	consumer := &UserConsumer{
		queueName:     queueName,
		userRepo:      userRepo,
		maxRetries:    3,
		retryDelay:    1 * time.Second,
		reconnectCh:   make(chan bool, 1),
		stopReconnect: make(chan bool),
	}

	if err := consumer.connect(rabbitMQURL); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go consumer.handleReconnection(rabbitMQURL)

	return consumer, nil
}

// connect establishes connection to RabbitMQ
func (c *UserConsumer) connect(rabbitMQURL string) error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		c.conn, err = amqp091.Dial(rabbitMQURL)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v", i+1, c.maxRetries, err)
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay)
		}
	}

	if err != nil {
		return err
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return err
	}

	// Declare queue (idempotent)
	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)

	if err != nil {
		c.channel.Close()
		c.conn.Close()
		return err
	}

	log.Println("User consumer connected to RabbitMQ successfully")
	return nil
}

// handleReconnection handles automatic reconnection to RabbitMQ
func (c *UserConsumer) handleReconnection(rabbitMQURL string) {
	for {
		select {
		case <-c.reconnectCh:
			log.Println("Attempting to reconnect to RabbitMQ...")
			c.connMutex.Lock()
			if c.conn != nil && !c.conn.IsClosed() {
				c.conn.Close()
			}
			if c.channel != nil && !c.channel.IsClosed() {
				c.channel.Close()
			}
			c.connMutex.Unlock()

			if err := c.connect(rabbitMQURL); err != nil {
				log.Printf("Reconnection failed: %v", err)
				time.Sleep(5 * time.Second)
				c.reconnectCh <- true
			} else {
				// Restart consuming after reconnection using the original context
				c.consumingMutex.Lock()
				if c.consumingCtx != nil && c.consumingCtx.Err() == nil {
					if !c.isConsuming {
						go c.StartConsuming(c.consumingCtx)
					}
				}
				c.consumingMutex.Unlock()
			}
		case <-c.stopReconnect:
			return
		}
	}
}

// StartConsuming starts consuming messages from the queue in a background goroutine
// Duplicate prevention: ensures only one consumer per pod instance
// (In multi-replica scenarios, RabbitMQ distributes messages round-robin)
func (c *UserConsumer) StartConsuming(ctx context.Context) error {
	c.consumingMutex.Lock()
	if c.isConsuming {
		c.consumingMutex.Unlock()
		log.Println("User consumer is already running in this pod, skipping duplicate start")
		return nil
	}
	c.isConsuming = true
	c.consumingCtx = ctx
	c.consumingMutex.Unlock()

	c.connMutex.RLock()
	channel := c.channel
	conn := c.conn
	c.connMutex.RUnlock()

	if channel == nil || channel.IsClosed() || conn == nil || conn.IsClosed() {
		c.consumingMutex.Lock()
		c.isConsuming = false
		c.consumingMutex.Unlock()
		return fmt.Errorf("RabbitMQ connection is closed")
	}

	// One unacknowledged message at a time
	err := channel.Qos(1, 0, false)
	if err != nil {
		c.consumingMutex.Lock()
		c.isConsuming = false
		c.consumingMutex.Unlock()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	consumerTag := fmt.Sprintf("user-consumer-%d", time.Now().UnixNano())
	msgs, err := channel.Consume(
		c.queueName, // queue
		consumerTag, // consumer tag (unique identifier)
		false,       // auto-ack (manual ack after a successful upsert)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		c.consumingMutex.Lock()
		c.isConsuming = false
		c.consumingMutex.Unlock()
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("User consumer started (tag: %s), waiting for messages on queue: %s", consumerTag, c.queueName)

	go func() {
		defer func() {
			c.consumingMutex.Lock()
			c.isConsuming = false
			c.consumingMutex.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				log.Println("User consumer context cancelled")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("User consumer channel closed, attempting reconnection...")
					c.reconnectCh <- true
					return
				}

				c.processMessage(ctx, msg)
			}
		}
	}()

	return nil
}

// processMessage processes a single provisioning event
// Message is acknowledged ONLY after a successful upsert; failures nack and
// requeue so the profile mirror eventually converges (upsert is idempotent)
func (c *UserConsumer) processMessage(ctx context.Context, msg amqp091.Delivery) {
	var event UserProvisioningEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Failed to unmarshal user provisioning event: %v", err)
		// Invalid message format - reject and don't requeue
		msg.Nack(false, false)
		return
	}

	if event.UserID == "" {
		log.Printf("Invalid user provisioning event: user_id is required")
		msg.Nack(false, false)
		return
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		log.Printf("Invalid user provisioning event: user_id is not a valid UUID: %v", err)
		msg.Nack(false, false)
		return
	}

	user := &domain.User{
		ID:        userID,
		Name:      event.Name,
		Email:     event.Email,
		Gender:    event.Gender,
		Role:      event.Role,
		IsActive:  event.IsActive,
		CreatedAt: time.Now(),
	}

	if err := c.userRepo.UpsertUser(ctx, user); err != nil {
		log.Printf("Failed to upsert user from provisioning event: %v", err)
		// Upsert failed - requeue for retry
		msg.Nack(false, true)
		return
	}

	log.Printf("Mirrored user profile from identity service: id=%s, role=%s", user.ID, user.Role)

	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to acknowledge provisioning event: %v", err)
		// Redelivery is safe, the upsert is idempotent
	}
}

// Close closes the RabbitMQ connection and stops consuming
// The consuming context is cancelled by main.go during graceful shutdown
func (c *UserConsumer) Close() error {
	close(c.stopReconnect)

	c.consumingMutex.Lock()
	c.isConsuming = false
	c.consumingMutex.Unlock()

	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		if err := c.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}

	log.Println("User consumer closed")
	return nil
}
