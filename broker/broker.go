package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-stomp/stomp/v3"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/fulfillment"
	"github.com/mcmanyika/Musika/realtime"
)

const (
	TransactionStatusQueue = "transaction-status"
	ChangesTopic           = "/topic/musika-changes"
)

var conn *stomp.Conn

func Connect(network, host, user, password string) error {
	opts := []func(*stomp.Conn) error{
		stomp.ConnOpt.HeartBeat(30*time.Second, 30*time.Second),
	}
	if user != "" {
		opts = append(opts, stomp.ConnOpt.Login(user, password))
	}

	c, err := stomp.Dial(network, host, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker %s: %w", host, err)
	}
	conn = c
	log.Infof("Connected to message broker at %s", host)
	return nil
}

func Connected() bool {
	return conn != nil
}

func Disconnect() {
	if conn == nil {
		return
	}
	if err := conn.Disconnect(); err != nil {
		log.Warnf("Broker disconnect failed: %v", err)
	}
	conn = nil
}

// sendReliable waits for the broker receipt before returning.
func sendReliable(destination string, payload any) error {
	if conn == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.Send(destination, "application/json", body, stomp.SendOpt.Receipt)
}

type StatusUpdate struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// HandleStatusUpdate applies one message from the transaction-status queue.
func HandleStatusUpdate(ctx context.Context, txs fulfillment.Transactions, body []byte) error {
	var m StatusUpdate
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("malformed status update: %w", err)
	}
	if m.TransactionID == "" {
		return errors.New("status update without transactionId")
	}
	status, err := fulfillment.ParseStatus(m.Status)
	if err != nil {
		return err
	}
	_, err = fulfillment.ApplyStatus(ctx, txs, m.TransactionID, status)
	return err
}

func handleChange(hub *realtime.Hub, body []byte) error {
	var c realtime.Change
	if err := json.Unmarshal(body, &c); err != nil {
		return err
	}
	if c.Table == "" {
		return errors.New("change without table")
	}
	hub.Deliver(c)
	return nil
}

// listen feeds messages to handle until the channel closes or reports an
// error. ack is nil for auto-acknowledged subscriptions; it is bound to the
// connection that created the subscription, not to the package connection.
func listen(destination string, messages <-chan *stomp.Message, ack func(*stomp.Message) error, handle func([]byte) error) {
	for msg := range messages {
		if msg.Err != nil {
			log.Errorf("Broker subscription %s failed: %v", destination, msg.Err)
			return
		}
		if err := handle(msg.Body); err != nil {
			log.Warnf("Message on %s rejected: %v", destination, err)
		}
		if ack != nil {
			if err := ack(msg); err != nil {
				log.Warnf("Ack on %s failed: %v", destination, err)
			}
		}
	}
}

// StartListeners subscribes to the status queue and, when hub is set, to the
// shared changes topic.
func StartListeners(txs fulfillment.Transactions, hub *realtime.Hub) error {
	c := conn
	if c == nil {
		return errors.New("broker is not connected")
	}

	statusSub, err := c.Subscribe(TransactionStatusQueue, stomp.AckClientIndividual)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TransactionStatusQueue, err)
	}
	go listen(TransactionStatusQueue, statusSub.C, c.Ack, func(body []byte) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return HandleStatusUpdate(ctx, txs, body)
	})

	if hub != nil {
		changesSub, err := c.Subscribe(ChangesTopic, stomp.AckAuto)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", ChangesTopic, err)
		}
		go listen(ChangesTopic, changesSub.C, nil, func(body []byte) error {
			return handleChange(hub, body)
		})
	}
	return nil
}
