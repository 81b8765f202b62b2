package ledger

// Ledger column names. The collection columns are Portuguese because the
// file is opened in spreadsheets by the people curating the site.
const (
	ColCollectedAt          = "Data Coleta"
	ColStrategy             = "Estrategia"
	ColProductName          = "productName"
	ColItemID               = "itemId"
	ColCommissionRate       = "commissionRate"
	ColCommission           = "commission"
	ColPrice                = "price"
	ColSales                = "sales"
	ColImageURL             = "imageUrl"
	ColShopName             = "shopName"
	ColProductLink          = "productLink"
	ColOfferLink            = "offerLink"
	ColPeriodStartTime      = "periodStartTime"
	ColPeriodEndTime        = "periodEndTime"
	ColPriceMin             = "priceMin"
	ColPriceMax             = "priceMax"
	ColProductCatIDs        = "productCatIds"
	ColRatingStar           = "ratingStar"
	ColPriceDiscountRate    = "priceDiscountRate"
	ColShopID               = "shopId"
	ColShopType             = "shopType"
	ColSellerCommissionRate = "sellerCommissionRate"
	ColShopeeCommissionRate = "shopeeCommissionRate"
)

// LegacyStrategy fills Estrategia for rows written before the column existed.
const LegacyStrategy = "Legado"

// CollectedAtLayout is the Data Coleta format (dd/mm/yyyy HH:MM).
const CollectedAtLayout = "02/01/2006 15:04"

// DefaultColumns is the column order of a freshly created ledger.
var DefaultColumns = []string{
	ColCollectedAt,
	ColStrategy,
	ColProductName,
	ColItemID,
	ColCommissionRate,
	ColCommission,
	ColPrice,
	ColSales,
	ColImageURL,
	ColShopName,
	ColProductLink,
	ColOfferLink,
	ColPeriodStartTime,
	ColPeriodEndTime,
	ColPriceMin,
	ColPriceMax,
	ColProductCatIDs,
	ColRatingStar,
	ColPriceDiscountRate,
	ColShopID,
	ColShopType,
	ColSellerCommissionRate,
	ColShopeeCommissionRate,
}

// Row is one ledger line keyed by column name. Values are kept exactly as
// read; nothing is coerced.
type Row map[string]string

// Schema is the ordered column list of a ledger file. Once a file exists its
// header order is authoritative for every write.
type Schema struct {
	Columns []string
}

func NewSchema(columns ...string) Schema {
	return Schema{Columns: append([]string(nil), columns...)}
}

func (s Schema) Has(col string) bool {
	return s.Index(col) >= 0
}

func (s Schema) Index(col string) int {
	for i, c := range s.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

func (s Schema) Empty() bool { return len(s.Columns) == 0 }

// With returns a copy of s with col appended at the end, unless already present.
func (s Schema) With(col string) Schema {
	if s.Has(col) {
		return NewSchema(s.Columns...)
	}
	return NewSchema(append(append([]string(nil), s.Columns...), col)...)
}

// Align lays row out in schema order. Columns the row lacks come out empty;
// row keys outside the schema are dropped.
func (s Schema) Align(row Row) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = row[c]
	}
	return out
}

// Table is a whole ledger held in memory.
type Table struct {
	Schema Schema
	Rows   []Row

	// SkippedLines counts lines that could not be parsed on read.
	SkippedLines int
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
