package pricedb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/date"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func point(id string, day int, close float64) attribution.PricePoint {
	return attribution.PricePoint{Instrument: id, Date: date.New(2023, time.January, day), Close: close, AdjClose: close}
}

func TestStore_SaveAndPrices(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.Save(ctx, []attribution.PricePoint{
		point("MARUTI.BSE", 4, 8422),
		point("MARUTI.BSE", 2, 8407),
		point("HINDUNILVR.BSE", 2, 2546),
	}))

	got, err := s.Prices(ctx, "MARUTI.BSE")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, point("MARUTI.BSE", 2, 8407), got[0])
	assert.Equal(t, point("MARUTI.BSE", 4, 8422), got[1])
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.Save(ctx, []attribution.PricePoint{point("MARUTI.BSE", 2, 8407)}))
	require.NoError(t, s.Save(ctx, []attribution.PricePoint{point("MARUTI.BSE", 2, 8410)}))

	got, err := s.Prices(ctx, "MARUTI.BSE")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 8410.0, got[0].Close)
}

func TestStore_Unknown(t *testing.T) {
	s := openTest(t)
	_, err := s.Prices(context.Background(), "NOPE.BSE")
	var unavailable *attribution.PriceUnavailableError
	assert.True(t, errors.As(err, &unavailable))

	_, ok, err := s.Latest(context.Background(), "NOPE.BSE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_LatestAndInstruments(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	require.NoError(t, s.Save(ctx, []attribution.PricePoint{
		point("MARUTI.BSE", 2, 8407),
		point("MARUTI.BSE", 4, 8422),
		point("HINDUNILVR.BSE", 3, 2560),
	}))

	latest, ok, err := s.Latest(ctx, "MARUTI.BSE")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, date.New(2023, time.January, 4), latest)

	ids, err := s.Instruments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HINDUNILVR.BSE", "MARUTI.BSE"}, ids)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prices.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, []attribution.PricePoint{point("MARUTI.BSE", 2, 8407)}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Prices(ctx, "MARUTI.BSE")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
