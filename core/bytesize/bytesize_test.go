package bytesize_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/bytesize"
)

func TestLimitString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit bytesize.Limit
		want  string
	}{
		{bytesize.B(512), "512b"},
		{bytesize.Kb(100), "100kb"},
		{bytesize.Kb(1.5), "1.5kb"},
		{bytesize.Mb(1.5), "1.5mb"},
		{bytesize.Gb(2), "2gb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.limit.String())
	}
}

func TestLimitBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(512), bytesize.B(512).Bytes())
	assert.Equal(t, int64(1536), bytesize.Kb(1.5).Bytes())
	assert.Equal(t, bytesize.MB, bytesize.Mb(1).Bytes())
	assert.Equal(t, 2*bytesize.GB, bytesize.Gb(2).Bytes())
	assert.Equal(t, "1.5 MiB", bytesize.Mb(1.5).Human())
}

func TestLimitLargeValues(t *testing.T) {
	t.Parallel()

	t.Run("byte counts stay exact", func(t *testing.T) {
		t.Parallel()
		const n = 1<<53 + 1
		assert.Equal(t, int64(n), bytesize.B(n).Bytes())
		assert.Equal(t, "9007199254740993b", bytesize.B(n).String())

		parsed, err := bytesize.Parse("9007199254740993b")
		require.NoError(t, err)
		assert.Equal(t, int64(n), parsed.Bytes())
	})

	t.Run("overflow is clamped", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(math.MaxInt64), bytesize.Gb(1e12).Bytes())
		assert.Equal(t, int64(math.MinInt64), bytesize.Gb(-1e12).Bytes())
		assert.Equal(t, int64(math.MaxInt64), bytesize.Mb(math.Inf(1)).Bytes())
		assert.Equal(t, int64(0), bytesize.Kb(math.NaN()).Bytes())

		parsed, err := bytesize.Parse("1e30b")
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), parsed.Bytes())
	})
}

func TestLimitMonotonic(t *testing.T) {
	t.Parallel()

	constructors := map[string]func(float64) bytesize.Limit{
		"b":  func(f float64) bytesize.Limit { return bytesize.B(int(f)) },
		"kb": bytesize.Kb,
		"mb": bytesize.Mb,
		"gb": bytesize.Gb,
	}
	for name, build := range constructors {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			prev := build(1).Bytes()
			for _, v := range []float64{2, 3, 10, 100} {
				cur := build(v).Bytes()
				assert.Greater(t, cur, prev)
				prev = cur
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("units", func(t *testing.T) {
		t.Parallel()
		for in, want := range map[string]bytesize.Limit{
			"100kb": bytesize.Kb(100),
			"1.5MB": bytesize.Mb(1.5),
			" 2gb ": bytesize.Gb(2),
			"512b":  bytesize.B(512),
			"42":    bytesize.B(42),
		} {
			got, err := bytesize.Parse(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"", "mb", "abc", "1.2.3kb"} {
			_, err := bytesize.Parse(in)
			assert.ErrorIs(t, err, bytesize.ErrInvalidFormat, in)
		}
	})

	t.Run("text unmarshal", func(t *testing.T) {
		t.Parallel()
		var l bytesize.Limit
		require.NoError(t, l.UnmarshalText([]byte("10mb")))
		assert.Equal(t, bytesize.Mb(10), l)
		text, err := l.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "10mb", string(text))
	})
}
