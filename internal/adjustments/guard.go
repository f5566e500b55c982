package adjustments

import (
	"context"
	"time"

	"github.com/angelmondragon/rentpos-backend/internal/notify"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
)

const defaultWarningDismiss = 1500 * time.Millisecond

// ClampObserver counts clamps per field.
type ClampObserver interface {
	IncClamp(field string)
}

// Result reports what happened to one field.
type Result struct {
	Field     pricing.Field        `json:"field"`
	Accepted  bool                 `json:"accepted"`
	Value     pricing.Input        `json:"value"`
	ClampedTo pricing.Input        `json:"clamped_to"`
	Warning   *notify.Notification `json:"warning,omitempty"`
}

// SetResult is the outcome of a validated setter call. Cascade lists other
// fields corrected because the new value moved their bound.
type SetResult struct {
	Result
	Cascade []Result `json:"cascade,omitempty"`
}

// Guard keeps adjustments within their legal ranges.
type Guard struct {
	notifier notify.Notifier
	observer ClampObserver
	dismiss  time.Duration
}

// NewGuard wires the guard. A zero dismiss falls back to 1500ms.
func NewGuard(notifier notify.Notifier, observer ClampObserver, dismiss time.Duration) *Guard {
	if notifier == nil {
		notifier = notify.Nop
	}
	if dismiss <= 0 {
		dismiss = defaultWarningDismiss
	}
	return &Guard{notifier: notifier, observer: observer, dismiss: dismiss}
}

// Set stores value into field then re-runs every rule of the pipeline.
func (g *Guard) Set(ctx context.Context, st State, field pricing.Field, value pricing.Input) (SetResult, error) {
	if st.Adjustments == nil {
		return SetResult{}, pkgerrors.New(pkgerrors.CodeInternal, "adjustments missing from draft")
	}
	rules := RulesFor(st.Kind, st.Variant)
	if !hasField(rules, field) {
		return SetResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "adjustment %q does not apply to this draft", field).
			WithDetails(map[string]any{"field": field.String(), "kind": st.Kind.String()})
	}

	st.Adjustments.Set(field, value)
	corrections := g.run(ctx, st, rules)

	out := SetResult{Result: Result{Field: field, Accepted: true, Value: value}}
	for _, res := range corrections {
		if res.Field == field {
			out.Result = res
			continue
		}
		out.Cascade = append(out.Cascade, res)
	}
	return out, nil
}

// Revalidate re-runs every rule after the dependent totals changed and
// returns only the corrections it made.
func (g *Guard) Revalidate(ctx context.Context, st State) []Result {
	if st.Adjustments == nil {
		return nil
	}
	return g.run(ctx, st, RulesFor(st.Kind, st.Variant))
}

func (g *Guard) run(ctx context.Context, st State, rules []Rule) []Result {
	var corrections []Result
	for _, rule := range rules {
		current := st.Adjustments.Get(rule.Field)
		v, ok := current.Decimal()
		if !ok {
			continue
		}
		corrected, warn := rule.correct(v, st)
		if corrected.Equal(v) {
			continue
		}
		st.Adjustments.Set(rule.Field, pricing.Value(corrected))
		res := Result{
			Field:     rule.Field,
			Value:     current,
			ClampedTo: pricing.Value(corrected),
		}
		if warn {
			n := notify.Warning(rule.Title, rule.Message, g.dismiss)
			res.Warning = &n
			g.notifier.Notify(ctx, n)
		}
		if g.observer != nil {
			g.observer.IncClamp(rule.Field.String())
		}
		corrections = append(corrections, res)
	}
	return corrections
}

func hasField(rules []Rule, field pricing.Field) bool {
	for _, r := range rules {
		if r.Field == field {
			return true
		}
	}
	return false
}
