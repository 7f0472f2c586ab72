package commands

import (
	"context"
	"fmt"
	"go/format"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/okra-platform/tagstream/internal/codegen"
	"github.com/okra-platform/tagstream/internal/schema"
)

// Gen renders the project schema, or the one given by --schema, with the
// generator of --lang. Output goes to --out or the command output.
func (c *Controller) Gen(ctx context.Context) error {
	f := c.flags()
	cfg, root, err := c.project()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(cfg.Path(root, cfg.Schema))
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	s, err := schema.ParseSchema(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	lang := f.Lang
	if lang == "" {
		lang = "go"
	}
	gen, err := codegen.DefaultRegistry.Get(lang, f.Package)
	if err != nil {
		return err
	}

	code, err := gen.Generate(s)
	if err != nil {
		return fmt.Errorf("failed to generate %s code: %w", gen.Language(), err)
	}
	if gen.Language() == "go" {
		if code, err = format.Source(code); err != nil {
			return fmt.Errorf("failed to format generated code: %w", err)
		}
	}

	if f.Out == "" {
		_, err = c.out().Write(code)
		return err
	}
	if err := os.WriteFile(f.Out, code, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Out, err)
	}
	log.Info().Str("file", f.Out).Str("language", gen.Language()).Msg("generated code")
	return nil
}
