package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/marmos91/dirsnap/internal/telemetry"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and the cross-field rules the tags
// cannot express. All problems are reported together.
func Validate(cfg *Config) error {
	var result *multierror.Error

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			result = multierror.Append(result, fieldError(fe))
		}
	}

	if cfg.Telemetry.Profiling.Enabled {
		if cfg.Telemetry.Profiling.Endpoint == "" {
			result = multierror.Append(result, errors.New("telemetry.profiling.endpoint: required when profiling is enabled"))
		}
		if err := telemetry.ValidateProfileTypes(cfg.Telemetry.Profiling.ProfileTypes); err != nil {
			result = multierror.Append(result, fmt.Errorf("telemetry.profiling.profile_types: %w", err))
		}
	}

	if cfg.Scan.Timeout > 0 && cfg.Server.WriteTimeout > 0 && cfg.Scan.Timeout > cfg.Server.WriteTimeout {
		result = multierror.Append(result, fmt.Errorf("scan.timeout: %s exceeds server.write_timeout %s",
			cfg.Scan.Timeout, cfg.Server.WriteTimeout))
	}

	for _, root := range cfg.Scan.AllowedRoots {
		if root != "" && !filepath.IsAbs(root) {
			result = multierror.Append(result, fmt.Errorf("scan.allowed_roots: %q is not an absolute path", root))
		}
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return result
}

// fieldError renders a validator failure as "section.key: failed 'tag' rule".
func fieldError(fe validator.FieldError) error {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if fe.Param() != "" {
		return fmt.Errorf("%s: failed '%s=%s' rule (got %v)", ns, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s: failed '%s' rule", ns, fe.Tag())
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  - " + err.Error()
	}
	return fmt.Sprintf("%d problems:\n%s", len(errs), strings.Join(lines, "\n"))
}
