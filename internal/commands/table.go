package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okra-platform/tagstream/internal/shapes"
	"github.com/okra-platform/tagstream/internal/tagstream"
)

// Shapes lists the built-in shapes with their table sizes and samples
func (c *Controller) Shapes(ctx context.Context) error {
	r := shapes.Default()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SHAPE", "ROWS", "DEPTH", "VALUES", "ARRAYS", "SAMPLES")
	for _, name := range r.Names() {
		e, err := r.Get(name)
		if err != nil {
			return err
		}
		samples := make([]string, len(e.Samples))
		for i, s := range e.Samples {
			samples[i] = s.Name
		}
		t.Row(name,
			strconv.Itoa(len(e.Table.Rows)),
			strconv.Itoa(e.Table.Depth),
			strconv.Itoa(e.Table.Values),
			strconv.Itoa(e.Table.Arrays),
			strings.Join(samples, ", "))
	}

	fmt.Fprintln(c.out(), t.Render())
	return nil
}

// Table prints the compiled transition table of the target shape
func (c *Controller) Table(ctx context.Context) error {
	tgt, err := c.loadTarget()
	if err != nil {
		return err
	}
	tbl := tgt.entry.Table

	fmt.Fprintf(c.out(), "shape %s: start %d, depth %d, %d value selectors, %d array selectors\n",
		tgt.entry.Name, tbl.Start, tbl.Depth, tbl.Values, tbl.Arrays)
	fmt.Fprintln(c.out(), renderTable(tbl))
	return nil
}

func renderTable(tbl *tagstream.Table) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STATE", "TAG", "NEXT", "SKIP", "EXIT", "KIND", "NAME", "VALUE", "LEVEL")

	for i, r := range tbl.Rows {
		exit, value, name := "-", "-", "-"
		switch {
		case r.Tag == tagstream.Index:
			exit = strconv.Itoa(r.Exit)
			value = strconv.Itoa(r.Value)
		case r.Kind == tagstream.KindComputed:
			value = strconv.Itoa(r.Value)
		case r.Kind == tagstream.KindName:
			name = tbl.Names.Name(r.Name)
		}
		level := "-"
		if r.Level != tagstream.NoLevel {
			level = strconv.Itoa(r.Level)
		}
		t.Row(strconv.Itoa(i), r.Tag.String(), strconv.Itoa(r.Next), strconv.Itoa(r.Skip),
			exit, r.Kind.String(), name, value, level)
	}
	return t.Render()
}
