// Package kind provides the registry of timer kinds that can be built
// from free-form settings, as found in preset files.
package kind

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/wodbox/internal/domain/workout"
)

// Kind builds timer configurations of one workout kind.
type Kind interface {
	// Name returns the kind name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// Decode converts settings into a validated timer configuration.
	Decode(settings map[string]any) (workout.TimerConfig, error)
}

// registry holds registered kind factories.
var registry = make(map[string]func() Kind)

// Register registers a kind factory.
func Register(name string, factory func() Kind) {
	registry[name] = factory
}

// GetRegistered returns all registered kind factories.
func GetRegistered() map[string]func() Kind {
	return registry
}

// Names returns the registered kind names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the kind registered under name. Names are matched the
// way workout.ParseKind matches them, so "for-time" finds "fortime".
func Lookup(name string) (Kind, error) {
	k, err := workout.ParseKind(name)
	if err != nil {
		return nil, err
	}
	factory, ok := registry[k.String()]
	if !ok {
		return nil, errors.Wrapf(workout.ErrInvalidConfig, "kind %q is not registered", name)
	}
	return factory(), nil
}

// Decode is a shortcut for Lookup followed by Kind.Decode.
func Decode(name string, settings map[string]any) (workout.TimerConfig, error) {
	k, err := Lookup(name)
	if err != nil {
		return workout.TimerConfig{}, err
	}
	return k.Decode(settings)
}

// decodeSettings applies default tags, fills out from settings and runs
// validation. Failures wrap workout.ErrInvalidConfig.
func decodeSettings(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	// Defaults go in first so explicit zeros in settings survive and get rejected.
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrapf(workout.ErrInvalidConfig, "failed to decode settings: %v", err)
	}

	validate := validator.New()
	if err := validate.Struct(out); err != nil {
		return errors.Wrapf(workout.ErrInvalidConfig, "validation failed: %v", err)
	}
	return nil
}
