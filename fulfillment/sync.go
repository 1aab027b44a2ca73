// Package fulfillment pulls delivery statuses from the external fulfillment
// service and applies them to transactions.
package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/shared"
	"github.com/mcmanyika/Musika/types"
)

var ErrUnknownShipment = errors.New("shipment not known to fulfillment")

type TokenSource interface {
	GetAuthorizationHeader(ctx context.Context) (string, error)
	Invalidate()
}

type Transactions interface {
	OpenTransactions(ctx context.Context) ([]types.TransactionHistory, error)
	AdvanceTransaction(ctx context.Context, transactionID string, status types.TransactionStatus) (*types.TransactionHistory, error)
}

type Syncer struct {
	baseURL   string
	tokens    TokenSource
	txs       Transactions
	ignoreSSL bool
}

func NewSyncer(baseURL string, tokens TokenSource, txs Transactions, ignoreSSL bool) *Syncer {
	return &Syncer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		txs:       txs,
		ignoreSSL: ignoreSSL,
	}
}

type shipmentResponse struct {
	Status string `json:"status"`
}

// ParseStatus accepts the fulfillment service's spelling of a status
// ("In Transit", "in-transit", "DELIVERED").
func ParseStatus(raw string) (types.TransactionStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	status := types.TransactionStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown shipment status %q", raw)
	}
	return status, nil
}

// ApplyStatus moves a transaction to the reported status. A pending
// transaction reported as delivered passes through in_transit first.
func ApplyStatus(ctx context.Context, txs Transactions, transactionID string, status types.TransactionStatus) (*types.TransactionHistory, error) {
	t, err := txs.AdvanceTransaction(ctx, transactionID, status)
	var conflict *market.ConflictError
	if errors.As(err, &conflict) && status == types.StatusDelivered {
		if _, err = txs.AdvanceTransaction(ctx, transactionID, types.StatusInTransit); err != nil {
			return nil, err
		}
		return txs.AdvanceTransaction(ctx, transactionID, types.StatusDelivered)
	}
	return t, err
}

func (s *Syncer) FetchStatus(ctx context.Context, transactionID string) (types.TransactionStatus, error) {
	header, err := s.tokens.GetAuthorizationHeader(ctx)
	if err != nil {
		return "", err
	}

	agent := shared.FiberAgent(s.ignoreSSL)
	req := agent.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(s.baseURL + "/shipments/" + url.PathEscape(transactionID))
	agent.Set(fiber.HeaderAuthorization, header)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return "", err
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("shipment request failed: %w", errors.Join(errs...))
	}
	switch {
	case code == fiber.StatusNotFound:
		return "", ErrUnknownShipment
	case code == fiber.StatusUnauthorized:
		s.tokens.Invalidate()
		return "", fmt.Errorf("fulfillment rejected token")
	case code >= 300:
		return "", fmt.Errorf("fulfillment returned %d: %s", code, strings.TrimSpace(string(body)))
	}

	var resp shipmentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid shipment response: %w", err)
	}
	return ParseStatus(resp.Status)
}

// Sync checks every open transaction once and returns how many changed.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	open, err := s.txs.OpenTransactions(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, t := range open {
		status, err := s.FetchStatus(ctx, t.ID)
		if errors.Is(err, ErrUnknownShipment) {
			continue
		}
		if err != nil {
			log.Warnf("Fulfillment status for transaction %s unavailable: %v", t.ID, err)
			continue
		}
		if status == t.Status {
			continue
		}
		if _, err := ApplyStatus(ctx, s.txs, t.ID, status); err != nil {
			log.Warnf("Cannot apply status %s to transaction %s: %v", status, t.ID, err)
			continue
		}
		changed++
	}
	if changed > 0 {
		log.Infof("Fulfillment sync updated %d of %d open transactions", changed, len(open))
	}
	return changed, nil
}
