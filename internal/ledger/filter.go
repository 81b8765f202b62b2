package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"achadinhos/internal/model"
)

// QualityFilter gates which observations ever enter the ledger.
type QualityFilter struct {
	MinRating     float64
	MinSales      float64
	MinCommission float64
}

// DefaultQualityFilter: rating >= 4.7, sales >= 50, commission >= R$ 1,50.
var DefaultQualityFilter = QualityFilter{MinRating: 4.7, MinSales: 50, MinCommission: 1.50}

func (f QualityFilter) Accept(rating, sales, commission float64) bool {
	return rating >= f.MinRating && sales >= f.MinSales && commission >= f.MinCommission
}

// EffectiveCommission returns the commission to persist. Only an exact zero
// is recomputed as round(price * commissionRate, 2); any other value,
// negative included, is kept as sent.
func EffectiveCommission(o model.RawOffer) float64 {
	if o.Commission.Float() != 0 {
		return o.Commission.Float()
	}
	return decimal.NewFromFloat(o.Price.Float()).
		Mul(decimal.NewFromFloat(o.CommissionRate.Float())).
		Round(2).
		InexactFloat64()
}

// RowFromOffer builds the ledger row for one accepted offer.
func RowFromOffer(o model.RawOffer, commission float64, strategy string, collectedAt time.Time) Row {
	return Row{
		ColCollectedAt:          collectedAt.Format(CollectedAtLayout),
		ColStrategy:             strategy,
		ColProductName:          o.ProductName,
		ColItemID:               o.ItemID.String(),
		ColCommissionRate:       ToLedgerNumber(o.CommissionRate.Float()),
		ColCommission:           ToLedgerNumber(commission),
		ColPrice:                ToLedgerNumber(o.Price.Float()),
		ColSales:                ToLedgerNumber(o.Sales.Float()),
		ColImageURL:             o.ImageURL,
		ColShopName:             o.ShopName,
		ColProductLink:          o.ProductLink,
		ColOfferLink:            o.OfferLink,
		ColPeriodStartTime:      o.PeriodStartTime.String(),
		ColPeriodEndTime:        o.PeriodEndTime.String(),
		ColPriceMin:             ToLedgerNumber(o.PriceMin.Float()),
		ColPriceMax:             ToLedgerNumber(o.PriceMax.Float()),
		ColProductCatIDs:        o.ProductCatIDs.String(),
		ColRatingStar:           ToLedgerNumber(o.RatingStar.Float()),
		ColPriceDiscountRate:    ToLedgerNumber(o.PriceDiscountRate.Float()),
		ColShopID:               o.ShopID.String(),
		ColShopType:             o.ShopType.String(),
		ColSellerCommissionRate: ToLedgerNumber(o.SellerCommissionRate.Float()),
		ColShopeeCommissionRate: ToLedgerNumber(o.ShopeeCommissionRate.Float()),
	}
}
