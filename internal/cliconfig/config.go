package cliconfig

import (
	"errors"
	"fmt"

	"github.com/dvc-tools/dvcsettings/pkg/container"
	"github.com/dvc-tools/dvcsettings/pkg/settings"
)

// Config holds CLI configuration for dvcsettings.
type Config struct {
	Params settings.ParameterSet
	Model  settings.ModelSet

	// Out is the container path to write.
	Out string

	// Yes answers the overwrite confirmation without prompting.
	Yes bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Params: settings.DefaultParameterSet(),
		Model:  settings.DefaultModelSet(),
		Out:    container.DefaultFileName,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Out == "" {
		errs = append(errs, fmt.Errorf("out is required"))
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Model.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if present and flag not changed.
func (s *configSetter) setString(flag string, value *string, dst *string) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInt sets an int value if present and flag not changed.
// Zero and negative values are applied too; restart = 0 and roi ends of -1 are meaningful.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setFloat sets a float64 value if present and flag not changed.
func (s *configSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInts copies a fixed-length list if present and flag not changed.
func (s *configSetter) setInts(flag string, value []int, dst []int) error {
	if value == nil || s.changed[flag] {
		return nil
	}
	return copyInts(flag, value, dst)
}

func copyInts(flag string, value []int, dst []int) error {
	if len(value) != len(dst) {
		return fmt.Errorf("%s: want %d values, got %d", flag, len(dst), len(value))
	}
	copy(dst, value)
	return nil
}
