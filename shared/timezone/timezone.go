package timezone

import (
	"sync"
	"sync/atomic"
	"time"

	"cowork/config"
	"cowork/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	locationOnce sync.Once
	appLocation  = time.UTC

	clock atomic.Pointer[func() time.Time]
)

func location() *time.Location {
	locationOnce.Do(func() {
		name := config.Get().App.Timezone
		if name == constant.Empty {
			log.Warn().Msg("No timezone configured, using UTC as default")

			return
		}

		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

			return
		}

		appLocation = loc

		log.Info().Str("timezone", name).Msg("Application timezone initialized")
	})

	return appLocation
}

// SetLocation pins the location without reading configuration.
func SetLocation(loc *time.Location) {
	locationOnce.Do(func() {})

	appLocation = loc
}

// Freeze makes Now return t until the returned restore func runs.
func Freeze(t time.Time) (restore func()) {
	fixed := func() time.Time { return t }
	previous := clock.Swap(&fixed)

	return func() { clock.Store(previous) }
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	if fn := clock.Load(); fn != nil {
		return (*fn)().In(location())
	}

	return time.Now().In(location())
}

// ToAppTime converts a time to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	return location()
}

// Parse reads value in the application timezone unless the layout carries an offset.
func Parse(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, location())

	return t, err //nolint:wrapcheck
}

// Format renders t in the application timezone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
