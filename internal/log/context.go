// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package log

import (
	"context"

	"github.com/rs/zerolog"
)

type fieldEnvelope struct{}
type fieldTrigger struct{}
type fieldOrigin struct{}

// WithEnvelope adds the envelope identifier to the context.
func WithEnvelope(ctx context.Context, envelope string) context.Context {
	return context.WithValue(ctx, fieldEnvelope{}, envelope)
}

// WithTrigger adds the trigger type to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, fieldTrigger{}, trigger)
}

// WithOrigin adds the origin of processing to the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, fieldOrigin{}, origin)
}

// appendContextFields adds defined fields in the context to the log event.
func appendContextFields(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if envelope, ok := ctx.Value(fieldEnvelope{}).(string); ok {
		event.Str("envelope", envelope)
	}

	if trigger, ok := ctx.Value(fieldTrigger{}).(string); ok {
		event.Str("trigger", trigger)
	}

	if origin, ok := ctx.Value(fieldOrigin{}).(string); ok {
		event.Str("origin", origin)
	}

	return event
}
