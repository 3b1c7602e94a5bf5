package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cx-tal-miterani/flight-search/shared/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrNoAircraft = errors.New("catalog defines no aircraft")
	ErrNoHubs     = errors.New("catalog defines no connection hubs")
)

// document mirrors the YAML layout of a catalog file
type document struct {
	Airports []models.Airport `yaml:"airports"`
	Airlines []models.Airline `yaml:"airlines"`
	Aircraft []string         `yaml:"aircraft"`
	Hubs     []string         `yaml:"hubs"`
}

// Catalog holds the reference tables used to decorate generated flights.
// It is read-only after Load returns and safe to share between goroutines.
type Catalog struct {
	airports map[string]models.Airport
	airlines map[string]models.Airline
	order    []models.Airline
	aircraft []string
	hubs     []models.Airport
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from a YAML document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}

	if len(doc.Aircraft) == 0 {
		return nil, ErrNoAircraft
	}
	if len(doc.Hubs) == 0 {
		return nil, ErrNoHubs
	}

	c := &Catalog{
		airports: make(map[string]models.Airport, len(doc.Airports)),
		airlines: make(map[string]models.Airline, len(doc.Airlines)),
		order:    make([]models.Airline, 0, len(doc.Airlines)),
		aircraft: append([]string(nil), doc.Aircraft...),
	}
	for _, a := range doc.Airports {
		a.Code = strings.ToUpper(a.Code)
		c.airports[a.Code] = a
	}
	for _, a := range doc.Airlines {
		a.Code = strings.ToUpper(a.Code)
		c.airlines[a.Code] = a
		c.order = append(c.order, a)
	}
	for _, code := range doc.Hubs {
		c.hubs = append(c.hubs, c.Airport(code))
	}

	return c, nil
}

// Airport looks up an airport by code. Unknown codes get a placeholder record.
func (c *Catalog) Airport(code string) models.Airport {
	code = strings.ToUpper(strings.TrimSpace(code))
	if airport, ok := c.airports[code]; ok {
		return airport
	}
	return models.Airport{
		Code:    code,
		Name:    code + " Airport",
		City:    "Unknown",
		Country: "Unknown",
	}
}

// Airline looks up a carrier by code
func (c *Catalog) Airline(code string) (models.Airline, bool) {
	airline, ok := c.airlines[strings.ToUpper(code)]
	return airline, ok
}

// Airlines returns every carrier in catalog order
func (c *Catalog) Airlines() []models.Airline {
	return append([]models.Airline(nil), c.order...)
}

// Aircraft returns the aircraft models a segment may be flown with
func (c *Catalog) Aircraft() []string {
	return append([]string(nil), c.aircraft...)
}

// Hub returns the connecting airport for the given leg index, cycling through the hub list
func (c *Catalog) Hub(index int) models.Airport {
	return c.hubs[index%len(c.hubs)]
}

// HubCount returns the number of connection hubs
func (c *Catalog) HubCount() int {
	return len(c.hubs)
}
