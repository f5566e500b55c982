package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/redis"
)

const counterTTL = 48 * time.Hour

var invoicePrefixes = map[enums.DraftKind]string{
	enums.DraftKindSale:   "TRX",
	enums.DraftKindRental: "RNT",
	enums.DraftKindRepair: "SRV",
}

// Counter is the daily sequence store, normally Redis.
type Counter interface {
	Get(ctx context.Context, key string) (string, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(parts ...string) string
}

// Invoices numbers records as PREFIX-YYYYMMDD-NNNN with a per-day sequence.
type Invoices struct {
	counter Counter
	repo    Repository
	logg    *logger.Logger
	now     func() time.Time
}

// NewInvoices builds the generator. A nil counter numbers from the database.
func NewInvoices(counter Counter, repo Repository, logg *logger.Logger) (*Invoices, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Invoices{counter: counter, repo: repo, logg: logg, now: time.Now}, nil
}

// Peek returns the number the next allocation would hand out.
func (i *Invoices) Peek(ctx context.Context, kind enums.DraftKind) (string, error) {
	prefix, day, err := i.parts(kind)
	if err != nil {
		return "", err
	}
	if i.counter != nil {
		raw, err := i.counter.Get(ctx, i.counter.CounterKey("invoice", kind.String(), day))
		switch {
		case err == nil:
			if n, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
				return format(prefix, day, n+1), nil
			}
		case redis.IsMiss(err):
		default:
			i.logg.Warn(ctx, fmt.Sprintf("invoice counter unavailable: %v", err))
		}
	}
	n, err := i.repo.CountInvoices(ctx, prefix+"-"+day)
	if err != nil {
		return "", err
	}
	return format(prefix, day, n+1), nil
}

// Next allocates a fresh invoice number.
func (i *Invoices) Next(ctx context.Context, kind enums.DraftKind) (string, error) {
	prefix, day, err := i.parts(kind)
	if err != nil {
		return "", err
	}
	if i.counter != nil {
		n, err := i.counter.IncrWithTTL(ctx, i.counter.CounterKey("invoice", kind.String(), day), counterTTL)
		if err == nil {
			return format(prefix, day, n), nil
		}
		i.logg.Warn(ctx, fmt.Sprintf("invoice counter unavailable, counting stored invoices: %v", err))
	}
	n, err := i.repo.CountInvoices(ctx, prefix+"-"+day)
	if err != nil {
		return "", err
	}
	return format(prefix, day, n+1), nil
}

// fromCount allocates past every stored invoice for the day. Used after a
// counter collision.
func (i *Invoices) fromCount(ctx context.Context, kind enums.DraftKind, offset int64) (string, error) {
	prefix, day, err := i.parts(kind)
	if err != nil {
		return "", err
	}
	n, err := i.repo.CountInvoices(ctx, prefix+"-"+day)
	if err != nil {
		return "", err
	}
	return format(prefix, day, n+1+offset), nil
}

func (i *Invoices) parts(kind enums.DraftKind) (string, string, error) {
	prefix, ok := invoicePrefixes[kind]
	if !ok {
		return "", "", fmt.Errorf("invalid draft kind %q", kind)
	}
	return prefix, i.now().Format("20060102"), nil
}

func format(prefix, day string, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, n)
}
