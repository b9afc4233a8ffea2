package analyzertest

import (
	"testing"

	"github.com/posipaka-trade/listingsms/internal/announcement/analyzer"
	"github.com/stretchr/testify/assert"
)

func TestTickers(t *testing.T) {
	t.Run("OnlyOneCrypto", func(t *testing.T) {
		tickers := analyzer.Tickers("Binance listera Gnosis (GNO)")
		assert.Equal(t, []string{"GNO"}, tickers)
	})

	t.Run("SeveralCrypto", func(t *testing.T) {
		tickers := analyzer.Tickers("Binance listera Alpaca Finance (ALPACA) et Harvest Finance (FARM) dans la zone Innovation")
		assert.Equal(t, []string{"ALPACA", "FARM"}, tickers)
	})

	t.Run("TrailingPunctuation", func(t *testing.T) {
		tickers := analyzer.Tickers("Binance listera Sui (SUI), Sei (SEI).")
		assert.Equal(t, []string{"SUI", "SEI"}, tickers)
	})

	t.Run("DuplicateTicker", func(t *testing.T) {
		tickers := analyzer.Tickers("Binance listera Mobox (MBOX) : dépôts MBOX ouverts (MBOX)")
		assert.Equal(t, []string{"MBOX"}, tickers)
	})

	t.Run("NoTicker", func(t *testing.T) {
		assert.Empty(t, analyzer.Tickers("Binance listera de nouvelles paires de trading"))
		assert.Empty(t, analyzer.Tickers("Binance listera (bientôt) de nouveaux tokens"))
		assert.Empty(t, analyzer.Tickers(""))
	})
}
