package config

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaFS embed.FS

// addrRegex validates host:port listen addresses.
var addrRegex = regexp.MustCompile(`^[^\s]+:[0-9]+$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate validates the given configuration.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Server.Addr != "" && !addrRegex.MatchString(cfg.Server.Addr) {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Message: "must be a host:port listen address",
		})
	}

	if cfg.Engine.Python != "" && strings.TrimSpace(cfg.Engine.Python) == "" {
		errs = append(errs, ValidationError{
			Field:   "engine.python",
			Message: "must not be whitespace only",
		})
	}

	// Unify against the schema for field-level checks beyond the above.
	if err := v.unify(cfg); err != nil {
		errs = append(errs, ValidationError{
			Field:   "config",
			Message: err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// unify encodes the config into CUE and checks it against #Config.
func (v *Validator) unify(cfg *Config) error {
	val := v.ctx.Encode(cfg)
	if val.Err() != nil {
		return fmt.Errorf("encoding config: %w", val.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath("#Config"))
	if def.Err() != nil {
		return fmt.Errorf("looking up schema definition: %w", def.Err())
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return err
	}

	return nil
}

// ValidateFile validates a configuration file at the given path.
func (v *Validator) ValidateFile(path string) error {
	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	return v.Validate(cfg)
}
