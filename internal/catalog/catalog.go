package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

//go:embed data/riverwater_fishes.json data/seawater_fishes.json
var dataFS embed.FS

// Product is a catalog entry. Price keeps the display string exactly as the
// storefront shows it; PriceNum is derived once at load time.
type Product struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	PriceNum int    `json:"priceNum"`
}

// NormalizePrice turns a display price such as "₹ 1,250.00" into 1250.
// Every rune that is not a digit or decimal point is stripped before
// parsing; anything unparsable yields 0 rather than an error.
func NormalizePrice(display string) int {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

// Load merges the river and sea lists, river first, and attaches PriceNum
// to every product. The catalog is static, so this runs once at startup.
func Load() ([]Product, error) {
	river, err := loadFile("data/riverwater_fishes.json")
	if err != nil {
		return nil, err
	}
	sea, err := loadFile("data/seawater_fishes.json")
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(river)+len(sea))
	products = append(products, river...)
	products = append(products, sea...)
	for i := range products {
		products[i].PriceNum = NormalizePrice(products[i].Price)
	}
	return products, nil
}

func loadFile(name string) ([]Product, error) {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return products, nil
}
