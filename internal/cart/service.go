package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/rentpos-backend/internal/adjustments"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/google/uuid"
)

const lockStripes = 64

// View is what every cart operation returns: the saved draft, its totals and
// the adjustment corrections the edit caused.
type View struct {
	Draft       *Draft                 `json:"draft"`
	Totals      Totals                 `json:"totals"`
	Corrections []adjustments.Result   `json:"corrections,omitempty"`
	Adjustment  *adjustments.SetResult `json:"adjustment,omitempty"`
}

// Service exposes draft cart operations keyed by cashier session.
type Service interface {
	Get(ctx context.Context, session string, kind enums.DraftKind) (*View, error)
	AddProduct(ctx context.Context, session string, kind enums.DraftKind, p Product) (*View, error)
	ChangeQty(ctx context.Context, session string, kind enums.DraftKind, lineID uuid.UUID, delta int) (*View, error)
	RemoveLine(ctx context.Context, session string, kind enums.DraftKind, lineID uuid.UUID) (*View, error)
	SetDates(ctx context.Context, session string, kind enums.DraftKind, lineID uuid.UUID, start, end types.Date) (*View, error)
	SetCustomer(ctx context.Context, session string, kind enums.DraftKind, c Customer) (*View, error)
	ClearCustomer(ctx context.Context, session string, kind enums.DraftKind) (*View, error)
	SetTaxVariant(ctx context.Context, session string, kind enums.DraftKind, v enums.TaxVariant) (*View, error)
	SetAdjustment(ctx context.Context, session string, kind enums.DraftKind, field pricing.Field, value pricing.Input) (*View, error)
	Reset(ctx context.Context, session string, kind enums.DraftKind) (*View, error)
	Replace(ctx context.Context, d *Draft) (*View, error)
	Quote(ctx context.Context, d *Draft) (*View, error)
}

type service struct {
	store    Store
	guard    *adjustments.Guard
	catalog  Catalog
	defaults Defaults
	now      func() time.Time
	locks    [lockStripes]sync.Mutex
}

// NewService builds the cart service. catalog may be nil, in which case the
// caller's product snapshot is trusted.
func NewService(store Store, guard *adjustments.Guard, catalog Catalog, defaults Defaults) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("adjustment guard required")
	}
	if defaults.SaleVariant != "" && !defaults.SaleVariant.IsValid() {
		return nil, fmt.Errorf("invalid default sale variant %q", defaults.SaleVariant)
	}
	return &service{
		store:    store,
		guard:    guard,
		catalog:  catalog,
		defaults: defaults,
		now:      time.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, session string, kind enums.DraftKind) (*View, error) {
	if err := validateKey(session, kind); err != nil {
		return nil, err
	}
	d, err := s.load(ctx, session, kind)
	if err != nil {
		return nil, err
	}
	return s.view(d, nil, nil)
}

func (s *service) AddProduct(ctx context.Context, session string, kind enums.DraftKind, p Product) (*View, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if s.catalog != nil {
		found, err := s.catalog.Product(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": p.ID})
		}
		p = *found
	}
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		_, err := d.AddProduct(p)
		return err
	})
}

func (s *service) ChangeQty(ctx context.Context, session string, kind enums.DraftKind, lineID uuid.UUID, delta int) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		return d.ChangeQty(lineID, delta)
	})
}

func (s *service) RemoveLine(ctx context.Context, session string, kind enums.DraftKind, lineID uuid.UUID) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		return d.Remove(lineID)
	})
}

func (s *service) SetDates(ctx context.Context, session string, kind enums.DraftKind, lineID uuid.UUID, start, end types.Date) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		return d.SetDates(lineID, start, end)
	})
}

func (s *service) SetCustomer(ctx context.Context, session string, kind enums.DraftKind, c Customer) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		return d.SetCustomer(c)
	})
}

func (s *service) ClearCustomer(ctx context.Context, session string, kind enums.DraftKind) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		d.ClearCustomer()
		return nil
	})
}

func (s *service) SetTaxVariant(ctx context.Context, session string, kind enums.DraftKind, v enums.TaxVariant) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		return d.SetTaxVariant(v)
	})
}

func (s *service) SetAdjustment(ctx context.Context, session string, kind enums.DraftKind, field pricing.Field, value pricing.Input) (*View, error) {
	if err := validateKey(session, kind); err != nil {
		return nil, err
	}
	if !field.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown adjustment %q", field)
	}

	unlock := s.lock(session, kind)
	defer unlock()

	d, err := s.load(ctx, session, kind)
	if err != nil {
		return nil, err
	}
	st, err := d.GuardState()
	if err != nil {
		return nil, err
	}
	res, err := s.guard.Set(ctx, st, field, value)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return s.view(d, nil, &res)
}

func (s *service) Reset(ctx context.Context, session string, kind enums.DraftKind) (*View, error) {
	return s.mutate(ctx, session, kind, func(d *Draft) error {
		d.Reset(s.defaults)
		return nil
	})
}

// Replace overwrites the session's draft, e.g. with one rebuilt from a stored
// record, and revalidates it.
func (s *service) Replace(ctx context.Context, d *Draft) (*View, error) {
	if d == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft is required")
	}
	if err := validateKey(d.Session, d.Kind); err != nil {
		return nil, err
	}
	unlock := s.lock(d.Session, d.Kind)
	defer unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Lines == nil {
		d.Lines = []Line{}
	}
	corrections, err := s.revalidate(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return s.view(d, corrections, nil)
}

// Quote prices d without storing it. Adjustments are corrected exactly as
// they would be on a stored draft.
func (s *service) Quote(ctx context.Context, d *Draft) (*View, error) {
	if d == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft is required")
	}
	if !d.Kind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid draft kind %q", d.Kind)
	}
	if d.Kind == enums.DraftKindSale && d.TaxVariant == "" {
		d.TaxVariant = NewDraft("", d.Kind, s.defaults).TaxVariant
	}
	if d.Lines == nil {
		d.Lines = []Line{}
	}
	corrections, err := s.revalidate(ctx, d)
	if err != nil {
		return nil, err
	}
	return s.view(d, corrections, nil)
}

func (s *service) mutate(ctx context.Context, session string, kind enums.DraftKind, fn func(d *Draft) error) (*View, error) {
	if err := validateKey(session, kind); err != nil {
		return nil, err
	}
	unlock := s.lock(session, kind)
	defer unlock()

	d, err := s.load(ctx, session, kind)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	corrections, err := s.revalidate(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return s.view(d, corrections, nil)
}

func (s *service) revalidate(ctx context.Context, d *Draft) ([]adjustments.Result, error) {
	st, err := d.GuardState()
	if err != nil {
		return nil, err
	}
	return s.guard.Revalidate(ctx, st), nil
}

func (s *service) load(ctx context.Context, session string, kind enums.DraftKind) (*Draft, error) {
	d, err := s.store.Load(ctx, session, kind)
	if err == nil {
		return d, nil
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return NewDraft(session, kind, s.defaults), nil
	}
	return nil, err
}

func (s *service) save(ctx context.Context, d *Draft) error {
	d.UpdatedAt = s.now().UTC()
	return s.store.Save(ctx, d)
}

func (s *service) view(d *Draft, corrections []adjustments.Result, res *adjustments.SetResult) (*View, error) {
	totals, err := d.Compute()
	if err != nil {
		return nil, err
	}
	return &View{Draft: d, Totals: totals, Corrections: corrections, Adjustment: res}, nil
}

// lock serializes edits to one draft within this process.
func (s *service) lock(session string, kind enums.DraftKind) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(kind.String() + ":" + session))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func validateKey(session string, kind enums.DraftKind) error {
	if strings.TrimSpace(session) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if !kind.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid draft kind %q", kind)
	}
	return nil
}
