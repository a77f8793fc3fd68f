package strip_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledstrip/internal/driver/fake"
	"github.com/coreman2200/ledstrip/strip"
)

func newStrip(t *testing.T, n int, m strip.Model) (*strip.Strip, *fake.Driver) {
	t.Helper()
	d := &fake.Driver{}
	s, err := strip.New(n, m, d)
	require.NoError(t, err)
	return s, d
}

// seed gives every pixel a distinct color: pixel i is (i+1, i+2, i+3[, i+4]).
func seed(t *testing.T, s *strip.Strip) []strip.Color {
	t.Helper()
	for i := 0; i < s.Len(); i++ {
		c := strip.Color{R: uint8(i + 1), G: uint8(i + 2), B: uint8(i + 3)}
		if s.Model() == strip.RGBW {
			c.W = uint8(i + 4)
		}
		require.NoError(t, s.SetColor(i, c))
	}
	return s.Pixels()
}

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := strip.New(0, strip.RGB, &fake.Driver{})
	assert.ErrorIs(t, err, strip.ErrInvalidArgument)
	_, err = strip.New(4, strip.Model(9), &fake.Driver{})
	assert.ErrorIs(t, err, strip.ErrInvalidArgument)
	_, err = strip.New(4, strip.RGB, nil)
	assert.ErrorIs(t, err, strip.ErrInvalidArgument)
}

func TestNewStripIsBlankAndClean(t *testing.T) {
	s, _ := newStrip(t, 4, strip.RGBW)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, strip.RGBW, s.Model())
	assert.False(t, s.Dirty())
	assert.Equal(t, make([]strip.Color, 4), s.Pixels())
}

func TestSetPixelThenRead(t *testing.T) {
	for _, m := range []strip.Model{strip.RGB, strip.RGBW} {
		t.Run(m.String(), func(t *testing.T) {
			s, _ := newStrip(t, 8, m)
			if m == strip.RGBW {
				require.NoError(t, s.Fill(strip.Color{W: 99}))
			}
			for i := 0; i < s.Len(); i++ {
				require.NoError(t, s.SetPixel(i, uint8(i), uint8(2*i), uint8(3*i)))
				got, err := s.Pixel(i)
				require.NoError(t, err)
				assert.Equal(t, strip.Color{R: uint8(i), G: uint8(2 * i), B: uint8(3 * i)}, got, "white must be forced to zero")
			}
			assert.True(t, s.Dirty())
		})
	}
}

func TestSetPixelRGBW(t *testing.T) {
	s, _ := newStrip(t, 3, strip.RGBW)
	require.NoError(t, s.SetPixelRGBW(1, 1, 2, 3, 4))
	got, err := s.Pixel(1)
	require.NoError(t, err)
	assert.Equal(t, strip.Color{R: 1, G: 2, B: 3, W: 4}, got)
}

func TestInvalidIndexLeavesBufferUntouched(t *testing.T) {
	for _, m := range []strip.Model{strip.RGB, strip.RGBW} {
		s, d := newStrip(t, 5, m)
		want := seed(t, s)
		require.NoError(t, s.Refresh())
		require.False(t, s.Dirty())

		ops := map[string]func(i int) error{
			"SetPixel":               func(i int) error { return s.SetPixel(i, 9, 9, 9) },
			"SetPixelRGBW":           func(i int) error { return s.SetPixelRGBW(i, 9, 9, 9, 9) },
			"InsertPixel":            func(i int) error { return s.InsertPixel(i, 9, 9, 9) },
			"InsertPixelRGBW":        func(i int) error { return s.InsertPixelRGBW(i, 9, 9, 9, 9) },
			"ReversePixelInsert":     func(i int) error { return s.ReversePixelInsert(i, 9, 9, 9) },
			"ReversePixelInsertRGBW": func(i int) error { return s.ReversePixelInsertRGBW(i, 9, 9, 9, 9) },
		}
		for name, op := range ops {
			for _, idx := range []int{5, 6, 1000, -1} {
				t.Run(m.String()+"/"+name+"/"+strconv.Itoa(idx), func(t *testing.T) {
					err := op(idx)
					assert.ErrorIs(t, err, strip.ErrInvalidArgument)
					assert.Equal(t, strip.InvalidArgument, strip.ResultOf(err))
					assert.Equal(t, want, s.Pixels())
					assert.False(t, s.Dirty())
				})
			}
		}
		_, err := s.Pixel(5)
		assert.ErrorIs(t, err, strip.ErrInvalidArgument)
		assert.Equal(t, 1, d.Count())
	}
}

func TestRGBWCallsRejectedOnRGBStrip(t *testing.T) {
	s, _ := newStrip(t, 4, strip.RGB)
	want := seed(t, s)
	require.NoError(t, s.Refresh())

	assert.ErrorIs(t, s.SetPixelRGBW(0, 1, 2, 3, 4), strip.ErrInvalidArgument)
	assert.ErrorIs(t, s.InsertPixelRGBW(0, 1, 2, 3, 4), strip.ErrInvalidArgument)
	assert.ErrorIs(t, s.ReversePixelInsertRGBW(3, 1, 2, 3, 4), strip.ErrInvalidArgument)
	assert.ErrorIs(t, s.Fill(strip.Color{W: 1}), strip.ErrInvalidArgument)
	assert.Equal(t, want, s.Pixels())
	assert.False(t, s.Dirty())
}

func TestInsertPixel(t *testing.T) {
	const n = 6
	c := strip.Color{R: 200, G: 100, B: 50}
	for k := 0; k < n; k++ {
		t.Run(strconv.Itoa(k), func(t *testing.T) {
			s, _ := newStrip(t, n, strip.RGB)
			p := seed(t, s)
			require.NoError(t, s.InsertPixel(k, c.R, c.G, c.B))

			want := append(append(append([]strip.Color{}, p[:k]...), c), p[k:n-1]...)
			assert.Equal(t, want, s.Pixels())
			assert.Len(t, s.Pixels(), n)
		})
	}
}

func TestReversePixelInsert(t *testing.T) {
	const n = 6
	c := strip.Color{R: 200, G: 100, B: 50}
	for k := 0; k < n; k++ {
		t.Run(strconv.Itoa(k), func(t *testing.T) {
			s, _ := newStrip(t, n, strip.RGB)
			p := seed(t, s)
			require.NoError(t, s.ReversePixelInsert(k, c.R, c.G, c.B))

			want := append(append(append([]strip.Color{}, p[1:k+1]...), c), p[k+1:]...)
			assert.Equal(t, want, s.Pixels())
		})
	}
}

func TestInsertRGBWKeepsWhite(t *testing.T) {
	s, _ := newStrip(t, 4, strip.RGBW)
	p := seed(t, s)
	require.NoError(t, s.InsertPixelRGBW(1, 7, 7, 7, 7))
	assert.Equal(t, []strip.Color{p[0], {R: 7, G: 7, B: 7, W: 7}, p[1], p[2]}, s.Pixels())

	require.NoError(t, s.ReversePixelInsert(2, 5, 5, 5))
	assert.Equal(t, []strip.Color{{R: 7, G: 7, B: 7, W: 7}, p[1], {R: 5, G: 5, B: 5}, p[2]}, s.Pixels())
}

func TestInsertThenReverseInsertRestores(t *testing.T) {
	for _, m := range []strip.Model{strip.RGB, strip.RGBW} {
		t.Run(m.String(), func(t *testing.T) {
			s, _ := newStrip(t, 7, m)
			p := seed(t, s)
			last := p[len(p)-1]

			require.NoError(t, s.InsertColor(0, strip.Color{R: 42, G: 42, B: 42}))
			require.NoError(t, s.ReverseInsertColor(s.Len()-1, last))
			assert.Equal(t, p, s.Pixels())
		})
	}
}

func TestReverseInsertAtZeroOnlyWritesPixelZero(t *testing.T) {
	s, _ := newStrip(t, 4, strip.RGB)
	p := seed(t, s)
	require.NoError(t, s.ReversePixelInsert(0, 9, 8, 7))
	assert.Equal(t, []strip.Color{{R: 9, G: 8, B: 7}, p[1], p[2], p[3]}, s.Pixels())
}

func TestSetThenInsertScenario(t *testing.T) {
	s, _ := newStrip(t, 5, strip.RGB)
	require.NoError(t, s.SetPixel(2, 10, 20, 30))
	require.NoError(t, s.InsertPixel(0, 1, 1, 1))
	assert.Equal(t, []strip.Color{
		{R: 1, G: 1, B: 1},
		{},
		{},
		{R: 10, G: 20, B: 30},
		{},
	}, s.Pixels())
}

func TestRefreshTransmitsAndCleansDirty(t *testing.T) {
	s, d := newStrip(t, 2, strip.RGBW)
	require.NoError(t, s.SetPixelRGBW(0, 1, 2, 3, 4))
	require.NoError(t, s.SetPixel(1, 5, 6, 7))
	require.True(t, s.Dirty())

	require.NoError(t, s.Refresh())
	assert.False(t, s.Dirty())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 0}, d.Last())

	// the engine got a snapshot, not the live buffer
	require.NoError(t, s.SetPixel(0, 0, 0, 0))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 0}, d.Last())
}

func TestRefreshFailureKeepsState(t *testing.T) {
	s, d := newStrip(t, 3, strip.RGB)
	require.NoError(t, s.SetPixel(1, 10, 20, 30))
	before := s.Pixels()

	d.Fail(nil)
	err := s.Refresh()
	require.Error(t, err)
	assert.ErrorIs(t, err, strip.ErrTransmitFailure)
	assert.ErrorIs(t, err, fake.ErrBusy)
	assert.Equal(t, strip.TransmitFailure, strip.ResultOf(err))
	assert.Equal(t, before, s.Pixels())
	assert.True(t, s.Dirty())
	assert.Equal(t, 0, d.Count())

	require.NoError(t, s.Refresh())
	assert.False(t, s.Dirty())
	require.Equal(t, 1, d.Count())
	assert.Equal(t, []byte{0, 0, 0, 10, 20, 30, 0, 0, 0}, d.Last())
}

func TestClear(t *testing.T) {
	s, d := newStrip(t, 3, strip.RGB)
	seed(t, s)
	require.NoError(t, s.Clear())
	assert.Equal(t, []strip.Color{{}, {}, {}}, s.Pixels())
	assert.False(t, s.Dirty())
	require.Equal(t, 1, d.Count())
	assert.Equal(t, make([]byte, 9), d.Last())
}

func TestClearFailsLikeRefresh(t *testing.T) {
	s, d := newStrip(t, 2, strip.RGBW)
	seed(t, s)
	d.Fail(errors.New("peripheral fault"))
	err := s.Clear()
	assert.ErrorIs(t, err, strip.ErrTransmitFailure)
	assert.Equal(t, []strip.Color{{}, {}}, s.Pixels())
	assert.True(t, s.Dirty())
}

func TestDelete(t *testing.T) {
	s, d := newStrip(t, 2, strip.RGB)
	require.NoError(t, s.Delete())
	assert.True(t, d.Released())

	assert.Panics(t, func() { _ = s.Refresh() })
	assert.Panics(t, func() { _ = s.SetPixel(0, 1, 1, 1) })
	assert.Panics(t, func() { _ = s.Delete() })
}

func TestDeleteReleaseFailure(t *testing.T) {
	d := &fake.Driver{ReleaseErr: errors.New("transmission in flight")}
	s, err := strip.New(2, strip.RGB, d)
	require.NoError(t, err)

	err = s.Delete()
	assert.ErrorIs(t, err, strip.ErrFailure)
	assert.Equal(t, strip.Failure, strip.ResultOf(err))
	assert.Panics(t, func() { s.Len() })
}
