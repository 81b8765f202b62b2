package affiliate

import (
	"strings"

	"achadinhos/internal/model"
)

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"extensions"`
}

const rateLimitCode = 10030

func (e graphQLError) rateLimited() bool {
	return e.Extensions.Code == rateLimitCode ||
		strings.Contains(e.Message, "10030") ||
		strings.Contains(e.Message, "Rate limit")
}

type offerResponse struct {
	Data struct {
		ProductOfferV2 struct {
			Nodes []model.RawOffer `json:"nodes"`
		} `json:"productOfferV2"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type categoryResponse struct {
	Data struct {
		ProductCategory []model.Category `json:"productCategory"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}
