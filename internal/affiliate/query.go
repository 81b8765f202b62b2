package affiliate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Sort orders accepted by productOfferV2.
const (
	SortRelevance  = 1
	SortItemSold   = 2
	SortCommission = 5
)

// List types. Anything other than ListAll needs a category to match on.
const (
	ListAll            = 0
	ListTopPerforming  = 2
	ListDetailCategory = 4
)

const pageSize = 50

// Query selects one page of offers.
type Query struct {
	Page       int
	CategoryID int64
	SortType   int
	ListType   int
}

// effectiveListType drops listType back to ListAll when there is no
// category to pass as matchId; the API rejects that combination.
func (q Query) effectiveListType() int {
	if q.ListType != ListAll && q.CategoryID == 0 {
		return ListAll
	}
	return q.ListType
}

// Key identifies the page for caching.
func (q Query) Key() string {
	return fmt.Sprintf("p%d:c%d:s%d:l%d", q.page(), q.CategoryID, q.SortType, q.effectiveListType())
}

func (q Query) page() int {
	if q.Page <= 0 {
		return 1
	}
	return q.Page
}

var offerFields = []string{
	"productName",
	"itemId",
	"commissionRate",
	"commission",
	"price",
	"sales",
	"imageUrl",
	"shopName",
	"productLink",
	"offerLink",
	"periodStartTime",
	"periodEndTime",
	"priceMin",
	"priceMax",
	"productCatIds",
	"ratingStar",
	"priceDiscountRate",
	"shopId",
	"shopType",
	"sellerCommissionRate",
	"shopeeCommissionRate",
}

// BuildOfferQuery renders the productOfferV2 GraphQL document for q.
func BuildOfferQuery(q Query) string {
	args := []string{
		"page: " + strconv.Itoa(q.page()),
		"limit: " + strconv.Itoa(pageSize),
		"sortType: " + strconv.Itoa(q.SortType),
	}
	if lt := q.effectiveListType(); lt != ListAll {
		args = append(args, "listType: "+strconv.Itoa(lt), "matchId: "+strconv.FormatInt(q.CategoryID, 10))
	} else if q.CategoryID != 0 {
		args = append(args, "productCatId: "+strconv.FormatInt(q.CategoryID, 10))
	}

	var sb strings.Builder
	sb.WriteString("{\n  productOfferV2(")
	sb.WriteString(strings.Join(args, ", "))
	sb.WriteString(") {\n    nodes {\n")
	for _, f := range offerFields {
		sb.WriteString("      " + f + "\n")
	}
	sb.WriteString("    }\n  }\n}")
	return sb.String()
}

const categoryQuery = "{productCategory{categoryId,categoryName,parentId}}"

// Sign computes the request signature: sha256 hex of
// appId + timestamp + payload + secret.
func Sign(appID string, timestamp int64, payload, secret string) string {
	sum := sha256.Sum256([]byte(appID + strconv.FormatInt(timestamp, 10) + payload + secret))
	return hex.EncodeToString(sum[:])
}

func authorization(appID string, timestamp int64, signature string) string {
	return fmt.Sprintf("SHA256 Credential=%s, Timestamp=%d, Signature=%s", appID, timestamp, signature)
}
