package render

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

// Defaults used until the first successful settings refresh.
const (
	DefaultRadiusPerUnit float32 = 80.0
	DefaultMaxPressure   float32 = 360.0
)

// ErrInvalidSetting is reported for numeric settings that parse but cannot
// be used, such as a non-positive maximum pressure.
var ErrInvalidSetting = errors.New("invalid numeric setting")

// Dimensions supplies the sizing settings. An error means the stored value
// is malformed.
type Dimensions interface {
	RadiusPerUnit() (float32, error)
	MaxPressure() (float32, error)
}

// Notifier surfaces non-fatal problems to the user.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, error) {}

// RefreshSettings re-reads the sizing settings. A value that cannot be used
// leaves the previous one in place and is reported to the notifier.
func (e *Engine) RefreshSettings(ctx context.Context, d Dimensions) {
	if radius, err := d.RadiusPerUnit(); err != nil {
		e.reject(ctx, "size", err)
	} else if math.IsNaN(float64(radius)) || math.IsInf(float64(radius), 0) {
		e.reject(ctx, "size", fmt.Errorf("%w: size %v", ErrInvalidSetting, radius))
	} else {
		e.radiusPerUnit = radius * e.density
	}

	if pressure, err := d.MaxPressure(); err != nil {
		e.reject(ctx, "pressure", err)
	} else if !(pressure > 0) || math.IsInf(float64(pressure), 0) {
		e.reject(ctx, "pressure", fmt.Errorf("%w: pressure %v", ErrInvalidSetting, pressure))
	} else {
		e.maxPressure = pressure
	}
}

func (e *Engine) reject(ctx context.Context, key string, err error) {
	e.log.Warn(ctx, "keeping previous setting", logger.String("key", key), logger.Error(err))
	e.observer.SettingRejected()
	e.notify.Notify(ctx, err)
}

// RadiusPerUnit returns the radius in pixels of a contact of size 1.
func (e *Engine) RadiusPerUnit() float32 { return e.radiusPerUnit }

// MaxPressure returns the pressure drawn as a full ring.
func (e *Engine) MaxPressure() float32 { return e.maxPressure }
