package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rxcli/internal/errors"
	"rxcli/pkg/contracts/domain"
)

func stock(productID string, qty float64) domain.StockRecord {
	return domain.StockRecord{ProductID: productID, QtyStock: qty}
}

func TestLabel(t *testing.T) {
	t.Run("strictly above median is high", func(t *testing.T) {
		stocks := []domain.StockRecord{
			stock("P1", 50),
			stock("P2", 150),
			stock("P3", 100),
		}

		labels, median, err := Label(stocks)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, median, 1e-12)
		// Exactly equal to the median is not High
		assert.Equal(t, map[string]int{"P1": 0, "P2": 1, "P3": 0}, labels)
	})

	t.Run("even count interpolates median", func(t *testing.T) {
		stocks := []domain.StockRecord{
			stock("P1", 10),
			stock("P2", 20),
			stock("P3", 30),
			stock("P4", 40),
		}

		labels, median, err := Label(stocks)
		require.NoError(t, err)
		assert.InDelta(t, 25.0, median, 1e-12)
		assert.Equal(t, map[string]int{"P1": 0, "P2": 0, "P3": 1, "P4": 1}, labels)
	})

	t.Run("constant stock labels all low", func(t *testing.T) {
		stocks := []domain.StockRecord{
			stock("P1", 5),
			stock("P2", 5),
		}

		labels, _, err := Label(stocks)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"P1": 0, "P2": 0}, labels)
	})

	t.Run("empty stock table errors", func(t *testing.T) {
		_, _, err := Label(nil)
		assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	})

	t.Run("labels independent of transaction filtering", func(t *testing.T) {
		stocks := []domain.StockRecord{
			stock("P1", 50),
			stock("P2", 150),
			stock("P3", 100),
		}

		// Two calls, the second after any amount of reconciliation elsewhere,
		// must agree: labels are a pure function of the stock table.
		first, _, err := Label(stocks)
		require.NoError(t, err)
		second, _, err := Label(stocks)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
