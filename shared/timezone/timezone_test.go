package timezone_test

import (
	"testing"
	"time"

	"cowork/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		bangkok = time.FixedZone("ICT", 7*60*60)
	}

	timezone.SetLocation(bangkok)

	m.Run()
}

func TestFreeze(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)

	restore := timezone.Freeze(fixed)

	assert.True(t, timezone.Now().Equal(fixed))
	assert.Equal(t, 9, timezone.Now().Hour())

	restore()

	assert.WithinDuration(t, time.Now(), timezone.Now(), time.Minute)
}

func TestFormatAndParse(t *testing.T) {
	instant := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-02T09:00:00+07:00", timezone.Format(instant, time.RFC3339))

	parsed, err := timezone.Parse("2006-01-02 15:04", "2026-03-02 09:00")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(instant))

	// an explicit offset wins over the application location
	parsed, err = timezone.Parse(time.RFC3339, "2026-03-02T02:00:00Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(instant))
}
