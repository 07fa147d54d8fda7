package classify

import (
	"context"
	"fmt"
)

// Store persists encoded bundles keyed by (sequence, maxScan).
type Store interface {
	Get(ctx context.Context, seq string, maxScan int) ([]byte, bool, error)
	Put(ctx context.Context, seq string, maxScan int, payload []byte) error
}

// Cached consults Store before calling Inner. The classifier is a pure
// function of its inputs, so a hit is returned as-is.
//
// Store failures never fail a classification: they are passed to OnError
// (if set) and the call falls through to Inner.
type Cached struct {
	Inner   Classifier
	Store   Store
	OnError func(error)
}

func NewCached(inner Classifier, st Store, onError func(error)) *Cached {
	return &Cached{Inner: inner, Store: st, OnError: onError}
}

func (c *Cached) Classify(ctx context.Context, seq string, maxScan int) (Bundle, error) {
	payload, ok, err := c.Store.Get(ctx, seq, maxScan)
	switch {
	case err != nil:
		c.report(fmt.Errorf("cache get: %w", err))
	case ok:
		b, derr := Decode(payload)
		if derr == nil {
			return b, nil
		}
		c.report(fmt.Errorf("cache entry unreadable: %w", derr))
	}

	b, err := c.Inner.Classify(ctx, seq, maxScan)
	if err != nil {
		return Bundle{}, err
	}
	enc, err := Encode(b)
	if err != nil {
		c.report(fmt.Errorf("cache encode: %w", err))
		return b, nil
	}
	if err := c.Store.Put(ctx, seq, maxScan, enc); err != nil {
		c.report(fmt.Errorf("cache put: %w", err))
	}
	return b, nil
}

func (c *Cached) report(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}
