// Package feed fetches and parses supplier price lists.
package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Column widths of the catalog tables
const (
	maxShopName      = 50
	maxCategoryName  = 40
	maxProductName   = 80
	maxModel         = 80
	maxParameterName = 40
	maxParameterVal  = 100
)

// DefaultMaxErrors bounds how many problems a ParseError keeps
const DefaultMaxErrors = 50

// document mirrors the YAML layout of a feed
type document struct {
	Shop       string         `yaml:"shop"`
	Categories []categoryNode `yaml:"categories"`
	Goods      []goodNode     `yaml:"goods"`
}

type categoryNode struct {
	ID   integer `yaml:"id"`
	Name string  `yaml:"name"`
}

type goodNode struct {
	ID          *integer          `yaml:"id"`
	Category    integer           `yaml:"category"`
	Model       string            `yaml:"model"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Price       *amount           `yaml:"price"`
	PriceRRC    *amount           `yaml:"price_rrc"`
	Quantity    *integer          `yaml:"quantity"`
	Parameters  map[string]scalar `yaml:"parameters"`
}

// amount is a price read without going through float64
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return typeError(node, "price must be a number")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return typeError(node, fmt.Sprintf("cannot read %q as a price", node.Value))
	}
	a.Decimal = d
	return nil
}

// integer only accepts whole numbers; yaml would truncate 1.5 into an int field
type integer int64

func (n *integer) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return typeError(node, fmt.Sprintf("cannot read %q as an integer", node.Value))
	}
	var v int64
	if err := node.Decode(&v); err != nil {
		return typeError(node, fmt.Sprintf("integer %q is out of range", node.Value))
	}
	*n = integer(v)
	return nil
}

func (n integer) String() string { return strconv.FormatInt(int64(n), 10) }

// typeError lets the decoder record the problem and carry on with the document
func typeError(node *yaml.Node, msg string) error {
	return &yaml.TypeError{Errors: []string{fmt.Sprintf("line %d: %s", node.Line, msg)}}
}

// scalar accepts any YAML scalar and keeps its literal text
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return typeError(node, "parameter value must be a scalar")
	}
	*s = scalar(node.Value)
	return nil
}

// Parser turns feed documents into catalog.Feed values
type Parser struct {
	maxErrors int
}

// NewParser creates a parser keeping at most maxErrors problems
func NewParser(maxErrors int) *Parser {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Parser{maxErrors: maxErrors}
}

// Parse decodes and validates data. Every problem is reported through a *ParseError.
func (p *Parser) Parse(data []byte) (*catalog.Feed, error) {
	errs := NewErrorCollection(p.maxErrors)
	if len(bytes.TrimSpace(data)) == 0 {
		errs.Add(FieldError{Code: ErrCodeSyntax, Message: ErrEmptyFeed.Error()})
		return nil, errs.Err()
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(false)
	if err := dec.Decode(&doc); err != nil {
		addDecodeError(errs, err)
		return nil, errs.Err()
	}

	validate(&doc, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return toFeed(&doc), nil
}

func addDecodeError(errs *ErrorCollection, err error) {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		for _, msg := range typeErr.Errors {
			errs.Add(FieldError{Code: ErrCodeInvalidType, Message: strings.TrimPrefix(msg, "yaml: ")})
		}
		return
	}
	errs.Add(FieldError{Code: ErrCodeSyntax, Message: strings.TrimPrefix(err.Error(), "yaml: ")})
}

func validate(doc *document, errs *ErrorCollection) {
	checkText(errs, "shop", doc.Shop, maxShopName)

	declared := make(map[integer]bool, len(doc.Categories))
	for i, c := range doc.Categories {
		path := fmt.Sprintf("categories[%d]", i)
		if c.ID <= 0 {
			errs.AddRange(path+".id", "category id must be positive", c.ID.String())
		} else if declared[c.ID] {
			errs.AddDuplicate(path+".id", c.ID.String())
		}
		declared[c.ID] = true
		checkText(errs, path+".name", c.Name, maxCategoryName)
	}

	seen := make(map[integer]bool, len(doc.Goods))
	for i, g := range doc.Goods {
		path := fmt.Sprintf("goods[%d]", i)
		switch {
		case g.ID == nil:
			errs.AddRequired(path + ".id")
		case seen[*g.ID]:
			errs.AddDuplicate(path+".id", g.ID.String())
		default:
			seen[*g.ID] = true
		}

		if !declared[g.Category] || g.Category <= 0 {
			errs.AddReference(path+".category", g.Category.String(), "category")
		}
		checkText(errs, path+".name", g.Name, maxProductName)
		if utf8.RuneCountInString(g.Model) > maxModel {
			errs.AddLength(path+".model", maxModel)
		}
		checkAmount(errs, path+".price", g.Price)
		checkAmount(errs, path+".price_rrc", g.PriceRRC)
		if g.Quantity == nil {
			errs.AddRequired(path + ".quantity")
		} else if *g.Quantity < 0 {
			errs.AddRange(path+".quantity", "quantity cannot be negative", g.Quantity.String())
		}

		for name, value := range g.Parameters {
			ppath := fmt.Sprintf("%s.parameters[%s]", path, name)
			if strings.TrimSpace(name) == "" {
				errs.AddRequired(ppath)
				continue
			}
			if utf8.RuneCountInString(name) > maxParameterName {
				errs.AddLength(ppath, maxParameterName)
			}
			if utf8.RuneCountInString(string(value)) > maxParameterVal {
				errs.AddLength(ppath, maxParameterVal)
			}
		}
	}
}

func checkText(errs *ErrorCollection, path, value string, maxLen int) {
	if strings.TrimSpace(value) == "" {
		errs.AddRequired(path)
		return
	}
	if utf8.RuneCountInString(value) > maxLen {
		errs.AddLength(path, maxLen)
	}
}

func checkAmount(errs *ErrorCollection, path string, a *amount) {
	if a == nil {
		errs.AddRequired(path)
		return
	}
	if a.IsNegative() {
		errs.AddRange(path, "price cannot be negative", a.String())
	}
}

func toFeed(doc *document) *catalog.Feed {
	feed := &catalog.Feed{
		Shop:       strings.TrimSpace(doc.Shop),
		Categories: make([]catalog.FeedCategory, 0, len(doc.Categories)),
		Goods:      make([]catalog.FeedGood, 0, len(doc.Goods)),
	}
	for _, c := range doc.Categories {
		feed.Categories = append(feed.Categories, catalog.FeedCategory{ID: int64(c.ID), Name: strings.TrimSpace(c.Name)})
	}
	for _, g := range doc.Goods {
		params := make(map[string]string, len(g.Parameters))
		for name, value := range g.Parameters {
			params[strings.TrimSpace(name)] = string(value)
		}
		feed.Goods = append(feed.Goods, catalog.FeedGood{
			ID:          int64(*g.ID),
			Category:    int64(g.Category),
			Model:       g.Model,
			Name:        strings.TrimSpace(g.Name),
			Description: g.Description,
			Price:       g.Price.Decimal,
			PriceRRC:    g.PriceRRC.Decimal,
			Quantity:    int(*g.Quantity),
			Parameters:  params,
		})
	}
	return feed
}
