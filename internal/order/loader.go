// =============================================================================
// Docflow - Order Loading
// =============================================================================
//
// Loads the open-order book from a YAML file into a MemoryStore. The order
// book is maintained by the surrounding order-management system; this loader
// only reads the export it drops next to the configuration.
//
// =============================================================================

package order

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// dateLayout is the planned-delivery-date format in the order book.
const dateLayout = "2006-01-02"

// orderSpec is the YAML shape of one order.
type orderSpec struct {
	Number   string   `yaml:"number"`
	FilePath string   `yaml:"file_path"`
	Item     itemSpec `yaml:"item"`
}

// itemSpec is the YAML shape of the order's item.
type itemSpec struct {
	Number              string  `yaml:"number"`
	Count               float64 `yaml:"count"`
	Price               float64 `yaml:"price"`
	Sum                 float64 `yaml:"sum"`
	PlannedDeliveryDate string  `yaml:"planned_delivery_date"`
}

// LoadStore reads the order book at path into a fresh MemoryStore. A missing
// file yields an empty store; an empty order book is a normal state between
// order cycles.
func LoadStore(path string) (*MemoryStore, error) {
	store := NewMemoryStore()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read order book: %w", err)
	}

	var specs []orderSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse order book: %w", err)
	}

	for _, spec := range specs {
		if spec.Number == "" {
			return nil, fmt.Errorf("order book entry without a number")
		}

		item := &Item{
			Number: spec.Item.Number,
			Count:  spec.Item.Count,
			Price:  spec.Item.Price,
			Sum:    spec.Item.Sum,
		}
		if item.Sum == 0 {
			item.Sum = item.Count * item.Price
		}
		if spec.Item.PlannedDeliveryDate != "" {
			t, err := time.Parse(dateLayout, spec.Item.PlannedDeliveryDate)
			if err != nil {
				return nil, fmt.Errorf("order %q: bad planned delivery date: %w", spec.Number, err)
			}
			item.PlannedDeliveryDate = t
		}

		store.Put(&Order{
			Number:   spec.Number,
			FilePath: spec.FilePath,
			Item:     item,
		})
	}

	return store, nil
}
