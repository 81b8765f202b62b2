package model

// RawOffer is one node of productOfferV2 as returned by the affiliate API.
type RawOffer struct {
	ProductName          string `json:"productName"`
	ItemID               Text   `json:"itemId"`
	CommissionRate       Number `json:"commissionRate"`
	Commission           Number `json:"commission"`
	Price                Number `json:"price"`
	Sales                Number `json:"sales"`
	ImageURL             string `json:"imageUrl"`
	ShopName             string `json:"shopName"`
	ProductLink          string `json:"productLink"`
	OfferLink            string `json:"offerLink"`
	PeriodStartTime      Text   `json:"periodStartTime"`
	PeriodEndTime        Text   `json:"periodEndTime"`
	PriceMin             Number `json:"priceMin"`
	PriceMax             Number `json:"priceMax"`
	ProductCatIDs        IDList `json:"productCatIds"`
	RatingStar           Number `json:"ratingStar"`
	PriceDiscountRate    Number `json:"priceDiscountRate"`
	ShopID               Text   `json:"shopId"`
	ShopType             IDList `json:"shopType"`
	SellerCommissionRate Number `json:"sellerCommissionRate"`
	ShopeeCommissionRate Number `json:"shopeeCommissionRate"`
}

// EnrichedOffer is one entry of the site feed. Field order is the key order
// the front-end expects.
type EnrichedOffer struct {
	ID               string `json:"id"`
	Titulo           string `json:"titulo"`
	ImagemURL        string `json:"imagem_url"`
	PrecoOriginal    string `json:"preco_original"`
	PrecoPromocional string `json:"preco_promocional"`
	Desconto         string `json:"desconto"`
	Nota             string `json:"nota"`
	Categoria        string `json:"categoria"`
	LinkAfiliado     string `json:"link_afiliado"`
	DataColeta       string `json:"data_coleta"`
	Vendas           string `json:"vendas"`
	Loja             string `json:"loja"`
	Ativo            bool   `json:"ativo"`
}

// Category is one entry of the productCategory tree.
type Category struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	ParentID     int64  `json:"parentId"`
}
