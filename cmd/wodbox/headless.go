package main

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/app/engine"
	"github.com/osa030/wodbox/internal/app/notification"
	"github.com/osa030/wodbox/internal/domain/workout"
)

// completionGrace lets the final cue finish before audio is shut down.
const completionGrace = 1500 * time.Millisecond

// runHeadless logs state changes until the run completes or ctx ends.
func runHeadless(ctx context.Context, eng *engine.Engine, updates <-chan notification.Notification) error {
	for {
		select {
		case <-ctx.Done():
			zlog.Info().Msg("Received shutdown signal...")
			return eng.Reset()

		case n, ok := <-updates:
			if !ok {
				return nil
			}
			s := n.State

			switch n.Type {
			case notification.EventTick:
				zlog.Debug().
					Str("phase", s.Phase.String()).
					Str("clock", workout.FormatClock(s.Seconds)).
					Msg("tick")
			case notification.EventCompleted:
				zlog.Info().
					Str("elapsed", workout.FormatClock(s.ElapsedTotal)).
					Msg("workout complete")
				select {
				case <-time.After(completionGrace):
				case <-ctx.Done():
				}
				return nil
			case notification.EventReset:
				return nil
			default:
				zlog.Info().
					Str("event", n.Type.String()).
					Str("phase", s.Phase.String()).
					Str("clock", workout.FormatClock(s.Seconds)).
					Int("round", s.Round).
					Int("step", s.Index+1).
					Msg("update")
			}
		}
	}
}
