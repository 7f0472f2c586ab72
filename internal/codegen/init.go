package codegen

import (
	"github.com/okra-platform/tagstream/internal/codegen/golang"
	"github.com/okra-platform/tagstream/internal/codegen/protobuf"
	"github.com/okra-platform/tagstream/internal/codegen/typescript"
)

// DefaultRegistry holds the built-in generators
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("go", func(packageName string) Generator {
		return golang.NewGenerator(packageName)
	})

	DefaultRegistry.Register("proto", func(packageName string) Generator {
		return protobuf.NewGenerator(packageName)
	})

	DefaultRegistry.Register("typescript", func(packageName string) Generator {
		return typescript.NewGenerator(packageName)
	})

	// Register ts as an alias for typescript
	DefaultRegistry.Register("ts", func(packageName string) Generator {
		return typescript.NewGenerator(packageName)
	})
}
