package envfile

import (
	"context"
	"errors"
)

// Sink stores a single key/value pair.
type Sink interface {
	Set(ctx context.Context, key, value string) error
}

// Tee returns a Sink that writes to every sink in order. All sinks are
// attempted; the returned error joins the individual failures.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Set(ctx context.Context, key, value string) error {
	var errs []error
	for _, s := range t {
		if err := s.Set(ctx, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
