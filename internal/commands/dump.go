package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okra-platform/tagstream/internal/drain"
	"github.com/okra-platform/tagstream/internal/tagstream"
)

// Dump drains every sample of the target shape in the chosen format. With
// --select the drained tree is queried and the matches are printed as JSON.
func (c *Controller) Dump(ctx context.Context) error {
	tgt, err := c.loadTarget()
	if err != nil {
		return err
	}

	enc, err := drain.NewRegistry().Get(tgt.format)
	if err != nil {
		return err
	}

	expr := c.flags().Select
	for _, s := range tgt.entry.Samples {
		if len(tgt.entry.Samples) > 1 {
			fmt.Fprintf(c.out(), "# %s/%s\n", tgt.entry.Name, s.Name)
		}

		var out []byte
		if expr != "" {
			out, err = selectJSON(s.Iterator, expr)
		} else {
			out, err = enc.Encode(s.Iterator())
		}
		if err != nil {
			return fmt.Errorf("%s/%s: %w", tgt.entry.Name, s.Name, err)
		}

		if _, err := c.out().Write(out); err != nil {
			return err
		}
		binary := expr == "" && tgt.format == "protobuf"
		if !binary && len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Fprintln(c.out())
		}
	}
	return nil
}

func selectJSON(newIter func() tagstream.Iterator, expr string) ([]byte, error) {
	tree, err := drain.Tree(newIter())
	if err != nil {
		return nil, err
	}
	matches, err := drain.Select(tree, expr)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(matches, "", "  ")
}
