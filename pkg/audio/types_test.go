package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAudioData(t *testing.T) {
	d := NewAudioData(make([]float32, 8000), 16000)
	assert.Equal(t, 16000, d.SampleRate)
	assert.Equal(t, 1, d.Channels)
	assert.Equal(t, 500*time.Millisecond, d.Duration)
}

func TestDurationForSamples(t *testing.T) {
	assert.Equal(t, time.Second, DurationForSamples(16000, 16000))
	assert.Equal(t, time.Duration(0), DurationForSamples(100, 0))
}

func TestTimeWindowValidate(t *testing.T) {
	assert.NoError(t, TimeWindow{Start: 1, End: 2}.Validate())
	assert.Error(t, TimeWindow{Start: -1, End: 2}.Validate())
	assert.Error(t, TimeWindow{Start: 3, End: 2}.Validate())
}

func TestTimeWindowClamp(t *testing.T) {
	w := TimeWindow{Start: 0.5, End: 5}.Clamp(2)
	assert.Equal(t, TimeWindow{Start: 0.5, End: 2}, w)

	// A window entirely past the source collapses to a point.
	w = TimeWindow{Start: 3, End: 4}.Clamp(2)
	assert.Equal(t, TimeWindow{Start: 2, End: 2}, w)
	assert.Zero(t, w.Seconds())
}

func TestTimeWindowSampleRange(t *testing.T) {
	start, end := TimeWindow{Start: 0.5, End: 1}.SampleRange(16000, 16000)
	assert.Equal(t, 8000, start)
	assert.Equal(t, 16000, end)

	start, end = TimeWindow{Start: 0, End: 10}.SampleRange(16000, 4000)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4000, end)
}
