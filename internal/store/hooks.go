// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package store

import (
	"context"
	"time"

	"github.com/hades-rt/hades-core/pkg/log"
)

type queryTimingKey struct{}

// Hooks satisfies sqlhooks.Hooks; every query is logged at DEBUG with its
// elapsed time.
type Hooks struct{}

func (h *Hooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	log.Debugf("sql query %s %q", query, args)
	return context.WithValue(ctx, queryTimingKey{}, time.Now()), nil
}

func (h *Hooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	begin, ok := ctx.Value(queryTimingKey{}).(time.Time)
	if ok {
		log.Debugf("sql query took %s", time.Since(begin))
	}
	return ctx, nil
}
