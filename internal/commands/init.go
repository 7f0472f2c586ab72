package commands

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/tagstream/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

var identifierRe = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

type InitOptions struct {
	ProjectName string
	Root        string
	Format      string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem  FileSystem
	templatesFS fs.FS
	out         io.Writer
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand(out io.Writer) *InitCommand {
	return &InitCommand{
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		out:         out,
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand(c.out())
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	if err := validateProjectName(ic.filesystem, options.ProjectName); err != nil {
		return err
	}
	if err := validateRoot(options.Root); err != nil {
		return err
	}

	if err := ic.scaffold(options); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Fprintf(ic.out, "Created project %s with shape %s\n", options.ProjectName, options.Root)
	fmt.Fprintf(ic.out, "Run `cd %s && tagstream check` to verify it\n", options.ProjectName)
	return nil
}

// scaffold writes the project file, the schema and a sample document
func (ic *InitCommand) scaffold(options *InitOptions) error {
	dir := options.ProjectName
	if err := ic.filesystem.MkdirAll(dir, 0755); err != nil {
		return err
	}

	cfg := &config.Config{
		Name:   options.ProjectName,
		Schema: "./shapes.graphql",
		Root:   options.Root,
		Data:   "./data.json",
		Format: options.Format,
	}
	cfg.ApplyDefaults()
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(filepath.Join(dir, config.FileName), data, 0644); err != nil {
		return err
	}

	files := map[string]string{
		"shapes.graphql": "templates/shapes.graphql.tmpl",
		"data.json":      "templates/data.json.tmpl",
	}
	for name, tmpl := range files {
		rendered, err := ic.render(tmpl, options)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		if err := ic.filesystem.WriteFile(filepath.Join(dir, name), rendered, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (ic *InitCommand) render(path string, options *InitOptions) ([]byte, error) {
	tmpl, err := template.ParseFS(ic.templatesFS, path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name, Root string }{options.ProjectName, options.Root}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{Root: "Document", Format: "json"}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Directory of your new tagstream project").
				Value(&options.ProjectName).
				Validate(func(s string) error {
					return validateProjectName(ic.filesystem, s)
				}),

			huh.NewInput().
				Title("Root shape").
				Description("Name of the shape the cursor starts at").
				Value(&options.Root).
				Validate(validateRoot),

			huh.NewSelect[string]().
				Title("Output format").
				Description("Encoding used by dump and watch").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
					huh.NewOption("Protobuf JSON", "protojson"),
					huh.NewOption("Event trace", "trace"),
				).
				Value(&options.Format),
		),
	)
}

func validateProjectName(filesystem FileSystem, name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if _, err := filesystem.Stat(name); err == nil {
		return fmt.Errorf("directory %s already exists", name)
	}
	return nil
}

func validateRoot(root string) error {
	if !identifierRe.MatchString(root) {
		return fmt.Errorf("root shape %q is not a GraphQL name", root)
	}
	return nil
}
