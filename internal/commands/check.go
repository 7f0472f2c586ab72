package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/okra-platform/tagstream/internal/conformance"
	"github.com/okra-platform/tagstream/internal/shapes"
)

// ErrViolations is returned by Check when any sample breaks a stream property
var ErrViolations = errors.New("conformance violations")

// Check runs the stream properties over every sample of the built-in shapes
// and of the project IDL shape. --shape or --schema restrict it to one shape.
func (c *Controller) Check(ctx context.Context) error {
	entries, err := c.checkEntries()
	if err != nil {
		return err
	}

	failed := 0
	for _, e := range entries {
		for _, s := range e.Samples {
			events, err := conformance.Drain(e.Name, s.Iterator(), conformance.DefaultLimit)
			if err == nil {
				err = conformance.Check(e.Name, s.Iterator)
			}
			if err != nil {
				failed++
				fmt.Fprintf(c.out(), "FAIL %s/%s: %v\n", e.Name, s.Name, err)
				continue
			}
			fmt.Fprintf(c.out(), "ok   %s/%s (%d events)\n", e.Name, s.Name, len(events))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d failed", ErrViolations, failed)
	}
	return nil
}

func (c *Controller) checkEntries() ([]shapes.Entry, error) {
	f := c.flags()
	if f.Shape != "" || f.Schema != "" {
		tgt, err := c.loadTarget()
		if err != nil {
			return nil, err
		}
		return []shapes.Entry{tgt.entry}, nil
	}

	r := shapes.Default()
	var entries []shapes.Entry
	for _, name := range r.Names() {
		e, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	cfg, root, err := c.project()
	if err != nil {
		log.Debug().Err(err).Msg("no project shape to check")
		return entries, nil
	}
	e, err := loadIDLEntry(cfg, root)
	if err != nil {
		return nil, err
	}
	return append(entries, e), nil
}
