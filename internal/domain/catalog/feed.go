package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Feed is a parsed supplier price list
type Feed struct {
	Shop       string
	Categories []FeedCategory
	Goods      []FeedGood
}

// FeedCategory is a category declared by a feed
type FeedCategory struct {
	ID   int64
	Name string
}

// FeedGood is one listing declared by a feed
type FeedGood struct {
	ID          int64
	Category    int64
	Model       string
	Name        string
	Description string
	Price       decimal.Decimal
	PriceRRC    decimal.Decimal
	Quantity    int
	Parameters  map[string]string
}

// ParameterNames returns the parameter names of a good in a stable order
func (g FeedGood) ParameterNames() []string {
	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryName looks up the declared name of a category id
func (f *Feed) CategoryName(id int64) (string, bool) {
	for _, c := range f.Categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
