package odds

import (
	"log/slog"
	"math"
	"strings"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/pkg/models"
	"github.com/XavierBriggs/Janus/pkg/oddsmath"
)

// Devigger annotates matches with fair prices taken from a reference bookmaker
type Devigger struct {
	Method  oddsmath.Method
	Stake   float64
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// RemoveVig sets no_vig_price on every outcome of the reference bookmaker's markets.
// Other bookmakers keep their prices and never get no_vig_price; their outcomes sharing
// a name with a reference outcome only gain expected_value.
// A market that cannot be devigged is left unmodified; matches without the
// reference bookmaker are returned as they are. matches is modified in place.
func (d *Devigger) RemoveVig(matches []models.Match, reference string) []models.Match {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stake := d.Stake
	if stake <= 0 {
		stake = oddsmath.DefaultStake
	}

	for mi := range matches {
		m := &matches[mi]

		ref := -1
		for bi, b := range m.Bookmakers {
			if strings.EqualFold(b.Name, reference) {
				ref = bi
				break
			}
		}
		if ref < 0 {
			continue
		}

		fair := make(map[string]float64)
		for ki := range m.Bookmakers[ref].Markets {
			market := &m.Bookmakers[ref].Markets[ki]
			if len(market.Outcomes) == 0 {
				continue
			}

			prices := make([]float64, len(market.Outcomes))
			for i, o := range market.Outcomes {
				prices[i] = o.Price
			}

			noVig, err := oddsmath.DevigWith(d.Method, prices)
			if err != nil {
				logger.Warn("devig failed, leaving market unmodified",
					"match_id", m.ID, "market", market.Key, "error", err)
				d.Metrics.DevigFailed()
				continue
			}

			if margin, err := oddsmath.CalculateMargin(prices); err == nil {
				logger.Debug("devigged reference market",
					"match_id", m.ID, "market", market.Key,
					"margin", math.Round(margin*1e4)/1e4)
			}

			for i := range market.Outcomes {
				price := noVig[i]
				market.Outcomes[i].NoVigPrice = &price
				fair[market.Key+"|"+market.Outcomes[i].Name] = price
			}
		}

		if len(fair) == 0 {
			continue
		}

		for bi := range m.Bookmakers {
			if bi == ref {
				continue
			}
			for ki := range m.Bookmakers[bi].Markets {
				market := &m.Bookmakers[bi].Markets[ki]
				for oi := range market.Outcomes {
					o := &market.Outcomes[oi]
					fairPrice, ok := fair[market.Key+"|"+o.Name]
					if !ok {
						continue
					}
					ev := oddsmath.ExpectedValue(o.Price, fairPrice, stake)
					o.ExpectedValue = &ev
				}
			}
		}
	}
	return matches
}
