package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

type fingerprintLine struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type fingerprintDraft struct {
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	Lines       []fingerprintLine `json:"lines"`
	TotalAmount int64             `json:"totalAmount"`
}

// FingerprintDraft hashes a normalized draft. Line order is significant.
func FingerprintDraft(draft domain.Draft) (string, error) {
	draft.Lines = append([]domain.Line(nil), draft.Lines...)
	draft.Normalize()
	fp := fingerprintDraft{
		Name:        draft.Customer.Name,
		Phone:       draft.Customer.Phone,
		Address:     draft.Customer.Address,
		Lines:       make([]fingerprintLine, 0, len(draft.Lines)),
		TotalAmount: draft.TotalAmount,
	}
	for _, l := range draft.Lines {
		fp.Lines = append(fp.Lines, fingerprintLine(l))
	}
	payload, err := json.Marshal(fp)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// PlaceOrder places draft once per idempotency key. Without a key, or without
// an idempotency store, it behaves like CreateOrder.
func (s *Service) PlaceOrder(ctx context.Context, idempotencyKey string, draft domain.Draft) (*domain.Order, bool, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" || s.idempotency == nil {
		order, err := s.CreateOrder(ctx, draft)
		return order, false, err
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, false, mapError(err)
	}
	hash, err := FingerprintDraft(draft)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return s.replay(ctx, existing, hash)
	}

	order, err := s.repo.Insert(ctx, draft, domain.StatusPending, s.now())
	if err != nil {
		return nil, false, err
	}
	saved, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: order.ID, CreatedAt: s.now()})
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrIdempotencyConflict) && saved != nil:
		// A concurrent request with the same key won; drop the duplicate.
		if delErr := s.repo.Delete(ctx, order.ID); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove duplicate order",
				slog.String("order.id", order.ID), slog.String("error", delErr.Error()))
		}
		return s.replay(ctx, saved, hash)
	default:
		s.logger.WarnContext(ctx, "failed to record idempotency key, order placed without it",
			slog.String("order.id", order.ID), slog.String("error", err.Error()))
	}
	s.publishPlaced(ctx, order)
	return order, false, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, hash string) (*domain.Order, bool, error) {
	if record.RequestHash != hash {
		return nil, false, ports.ErrIdempotencyConflict
	}
	order, err := s.GetOrder(ctx, record.OrderID)
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}
