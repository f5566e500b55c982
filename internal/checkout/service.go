package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
)

// Service checks out the draft owned by a cashier session.
type Service interface {
	Preview(ctx context.Context, session string, kind enums.DraftKind) (*Outcome, error)
	Checkout(ctx context.Context, session string, kind enums.DraftKind, confirm bool) (*Outcome, error)
}

type service struct {
	drafts       cart.Service
	orchestrator *Orchestrator
	logg         *logger.Logger
}

// NewService builds the checkout service. The orchestrator should be wired
// with RequestConfirmer so the confirm flag reaches it.
func NewService(drafts cart.Service, orchestrator *Orchestrator, logg *logger.Logger) (Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orchestrator == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{drafts: drafts, orchestrator: orchestrator, logg: logg}, nil
}

func (s *service) Preview(ctx context.Context, session string, kind enums.DraftKind) (*Outcome, error) {
	view, err := s.drafts.Get(ctx, session, kind)
	if err != nil {
		return nil, err
	}
	out, err := s.orchestrator.Preview(ctx, view.Draft)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Checkout(ctx context.Context, session string, kind enums.DraftKind, confirm bool) (*Outcome, error) {
	view, err := s.drafts.Get(ctx, session, kind)
	if err != nil {
		return nil, err
	}
	out, err := s.orchestrator.Run(WithAnswer(ctx, confirm), view.Draft)
	if err != nil {
		return nil, err
	}
	if out.State == enums.CheckoutStateSucceeded {
		if _, err := s.drafts.Reset(ctx, session, kind); err != nil {
			s.logg.Error(s.logg.WithInvoice(ctx, out.Invoice), "reset draft after checkout", err)
		}
	}
	return &out, nil
}
