package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/notify"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/metrics"
)

const (
	defaultSaleDismiss   = 2000 * time.Millisecond
	defaultRentalDismiss = 1800 * time.Millisecond
	defaultWarnDismiss   = 1500 * time.Millisecond
	defaultLockTTL       = 30 * time.Second
	defaultStatus        = "proses"
)

// ErrCheckoutInProgress is returned when a draft already has a run in flight.
var ErrCheckoutInProgress = pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")

// Result is what the persistence collaborator reports for a stored record.
type Result struct {
	ID      string `json:"id"`
	Invoice string `json:"invoice"`
}

// Submitter persists confirmed payloads.
type Submitter interface {
	CreateTransaction(ctx context.Context, p SalePayload) (*Result, error)
	UpdateTransaction(ctx context.Context, id string, p SalePayload) (*Result, error)
	CreateRental(ctx context.Context, p RentalPayload) (*Result, error)
	UpdateRental(ctx context.Context, id string, p RentalPayload) (*Result, error)
}

// Locker extends the reentrancy guard across processes.
type Locker interface {
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	CheckoutLockKey(sessionID, kind string) string
}

// RunObserver records run outcomes.
type RunObserver interface {
	ObserveRun(kind, outcome string, duration time.Duration)
}

// UserMessager is implemented by collaborator errors carrying a message meant
// for the cashier.
type UserMessager interface {
	UserMessage() string
}

// Options wires an Orchestrator.
type Options struct {
	Confirmer            Confirmer
	Submitter            Submitter
	Notifier             notify.Notifier
	Locker               Locker
	Metrics              RunObserver
	Logger               *logger.Logger
	LockTTL              time.Duration
	SubmitTimeout        time.Duration
	DefaultSaleStatus    string
	DefaultRentalStatus  string
	SaleSuccessDismiss   time.Duration
	RentalSuccessDismiss time.Duration
	WarningDismiss       time.Duration
	Now                  func() time.Time
}

// Outcome reports how a run ended. State is the terminal state of the run;
// the draft itself is back to Idle once Run returns.
type Outcome struct {
	State        enums.CheckoutState  `json:"state"`
	Operation    string               `json:"operation"`
	Rejection    *Rejection           `json:"rejection,omitempty"`
	Declined     bool                 `json:"declined,omitempty"`
	Summary      *Summary             `json:"summary,omitempty"`
	Invoice      string               `json:"invoice,omitempty"`
	RecordID     string               `json:"record_id,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// Rejected reports whether validation blocked the run.
func (o Outcome) Rejected() bool {
	return o.Rejection != nil
}

// Orchestrator runs the checkout state machine for drafts.
type Orchestrator struct {
	opts Options

	mu     sync.Mutex
	states map[string]enums.CheckoutState
}

// NewOrchestrator validates opts and fills defaults.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Confirmer == nil {
		return nil, fmt.Errorf("confirmer required")
	}
	if opts.Submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	if opts.DefaultSaleStatus == "" {
		opts.DefaultSaleStatus = defaultStatus
	}
	if opts.DefaultRentalStatus == "" {
		opts.DefaultRentalStatus = defaultStatus
	}
	if opts.SaleSuccessDismiss <= 0 {
		opts.SaleSuccessDismiss = defaultSaleDismiss
	}
	if opts.RentalSuccessDismiss <= 0 {
		opts.RentalSuccessDismiss = defaultRentalDismiss
	}
	if opts.WarningDismiss <= 0 {
		opts.WarningDismiss = defaultWarnDismiss
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{opts: opts, states: map[string]enums.CheckoutState{}}, nil
}

// State returns the current state of a draft's checkout.
func (o *Orchestrator) State(session string, kind enums.DraftKind) enums.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.states[stateKey(session, kind)]; ok {
		return st
	}
	return enums.CheckoutStateIdle
}

// Preview validates d and builds its summary without asking or submitting.
func (o *Orchestrator) Preview(ctx context.Context, d *cart.Draft) (Outcome, error) {
	if err := checkDraft(d); err != nil {
		return Outcome{}, err
	}
	op := operationFor(d)
	q, rej := validate(d, op)
	if rej != nil {
		return Outcome{State: enums.CheckoutStateIdle, Operation: op.String(), Rejection: rej}, nil
	}
	s := buildSummary(d, op, q)
	return Outcome{State: enums.CheckoutStateIdle, Operation: op.String(), Summary: &s}, nil
}

// Run drives one checkout of d. A concurrent Run for the same draft is
// refused with ErrCheckoutInProgress.
func (o *Orchestrator) Run(ctx context.Context, d *cart.Draft) (Outcome, error) {
	if err := checkDraft(d); err != nil {
		return Outcome{}, err
	}
	key := stateKey(d.Session, d.Kind)
	if !o.enter(key) {
		return Outcome{}, ErrCheckoutInProgress
	}
	defer o.leave(key)

	release, err := o.acquire(ctx, d)
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	started := o.opts.Now()
	op := operationFor(d)
	ctx = o.opts.Logger.WithFields(ctx, map[string]any{"draft_kind": d.Kind.String(), "operation": op.String()})

	out, outcome, err := o.run(ctx, key, d, op)
	if o.opts.Metrics != nil {
		o.opts.Metrics.ObserveRun(d.Kind.String(), outcome, o.opts.Now().Sub(started))
	}
	return out, err
}

func (o *Orchestrator) run(ctx context.Context, key string, d *cart.Draft, op enums.CheckoutOperation) (Outcome, string, error) {
	base := Outcome{State: enums.CheckoutStateIdle, Operation: op.String()}

	q, rej := validate(d, op)
	if rej != nil {
		n := notify.Warning(rej.Title, rej.Message, o.opts.WarningDismiss)
		o.opts.Notifier.Notify(ctx, n)
		base.Rejection = rej
		base.Notification = &n
		return base, metrics.OutcomeInvalid, nil
	}

	o.setState(key, enums.CheckoutStateConfirming)
	summary := buildSummary(d, op, q)
	base.Summary = &summary
	confirmed, err := o.opts.Confirmer.Confirm(ctx, summary)
	if err != nil {
		return base, metrics.OutcomeFailed, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm checkout")
	}
	if !confirmed {
		base.Declined = true
		return base, metrics.OutcomeDeclined, nil
	}

	o.setState(key, enums.CheckoutStateSubmitting)
	submitCtx := ctx
	if o.opts.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, o.opts.SubmitTimeout)
		defer cancel()
	}
	res, err := o.submit(submitCtx, d, op, q)
	if err != nil {
		o.setState(key, enums.CheckoutStateFailed)
		o.opts.Logger.Error(ctx, "checkout submission failed", err)
		n := notify.Error(failureTitle(d.Kind, op), failureMessage(err, genericFailure(d.Kind)))
		o.opts.Notifier.Notify(ctx, n)
		base.State = enums.CheckoutStateFailed
		base.Notification = &n
		return base, metrics.OutcomeFailed, nil
	}

	o.setState(key, enums.CheckoutStateSucceeded)
	base.State = enums.CheckoutStateSucceeded
	base.Invoice = res.Invoice
	base.RecordID = res.ID
	o.opts.Logger.Info(o.opts.Logger.WithInvoice(ctx, res.Invoice), "checkout succeeded")
	n := notify.Success(successTitle(d.Kind, op), "Invoice: "+res.Invoice, o.successDismiss(d.Kind))
	o.opts.Notifier.Notify(ctx, n)
	base.Notification = &n
	return base, metrics.OutcomeSucceeded, nil
}

func (o *Orchestrator) submit(ctx context.Context, d *cart.Draft, op enums.CheckoutOperation, q quote) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch d.Kind {
	case enums.DraftKindRental:
		p := buildRentalPayload(d, q.rental, statusOr(d.Status, o.opts.DefaultRentalStatus))
		if op == enums.CheckoutOperationUpdate {
			res, err = o.opts.Submitter.UpdateRental(ctx, d.EditingID, p)
		} else {
			res, err = o.opts.Submitter.CreateRental(ctx, p)
		}
	default:
		p := buildSalePayload(d, q.variant, q.sale, statusOr(d.Status, o.opts.DefaultSaleStatus))
		if op == enums.CheckoutOperationUpdate {
			res, err = o.opts.Submitter.UpdateTransaction(ctx, d.EditingID, p)
		} else {
			res, err = o.opts.Submitter.CreateTransaction(ctx, p)
		}
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "persistence returned no result")
	}
	if res.Invoice == "" {
		res.Invoice = d.Invoice
	}
	return res, nil
}

func (o *Orchestrator) enter(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.states[key]; ok && st != enums.CheckoutStateIdle {
		return false
	}
	o.states[key] = enums.CheckoutStateValidating
	return true
}

func (o *Orchestrator) leave(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.states, key)
}

func (o *Orchestrator) setState(key string, st enums.CheckoutState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states[key] = st
}

func (o *Orchestrator) acquire(ctx context.Context, d *cart.Draft) (func(), error) {
	if o.opts.Locker == nil {
		return func() {}, nil
	}
	lockKey := o.opts.Locker.CheckoutLockKey(d.Session, d.Kind.String())
	ok, err := o.opts.Locker.AcquireLock(ctx, lockKey, d.ID.String(), o.opts.LockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !ok {
		return nil, ErrCheckoutInProgress
	}
	return func() {
		// the request context may already be cancelled
		if err := o.opts.Locker.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			o.opts.Logger.Warn(ctx, "release checkout lock: "+err.Error())
		}
	}, nil
}

func (o *Orchestrator) successDismiss(kind enums.DraftKind) time.Duration {
	if kind == enums.DraftKindRental {
		return o.opts.RentalSuccessDismiss
	}
	return o.opts.SaleSuccessDismiss
}

func checkDraft(d *cart.Draft) error {
	if d == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft is required")
	}
	if !d.Kind.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid draft kind %q", d.Kind)
	}
	return nil
}

func operationFor(d *cart.Draft) enums.CheckoutOperation {
	if d.IsEditing() {
		return enums.CheckoutOperationUpdate
	}
	return enums.CheckoutOperationCreate
}

func stateKey(session string, kind enums.DraftKind) string {
	return kind.String() + ":" + session
}

func statusOr(status, fallback string) string {
	if strings.TrimSpace(status) == "" {
		return fallback
	}
	return status
}

func successTitle(kind enums.DraftKind, op enums.CheckoutOperation) string {
	switch {
	case kind == enums.DraftKindRental && op == enums.CheckoutOperationUpdate:
		return "Rental berhasil diperbarui"
	case kind == enums.DraftKindRental:
		return "Rental berhasil dibuat"
	case op == enums.CheckoutOperationUpdate:
		return "Transaksi berhasil diperbarui"
	default:
		return "Transaksi Berhasil!"
	}
}

func failureTitle(kind enums.DraftKind, op enums.CheckoutOperation) string {
	switch {
	case op == enums.CheckoutOperationUpdate:
		return "Gagal update"
	case kind == enums.DraftKindRental:
		return "Gagal checkout"
	default:
		return "Gagal melakukan checkout"
	}
}

func genericFailure(kind enums.DraftKind) string {
	if kind == enums.DraftKindRental {
		return "Terjadi kesalahan"
	}
	return "Terjadi kesalahan saat memproses transaksi."
}

// failureMessage prefers the collaborator's own message, then a client-facing
// typed error message, then fallback.
func failureMessage(err error, fallback string) string {
	var um UserMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation, pkgerrors.CodeConflict, pkgerrors.CodeNotFound, pkgerrors.CodeStateConflict:
			if msg := strings.TrimSpace(typed.Message()); msg != "" {
				return msg
			}
		}
	}
	return fallback
}
