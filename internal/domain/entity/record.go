package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Record is implemented by every entity stored in a collection
type Record interface {
	GetID() string
	SetID(id string)
}

// Identity carries the store-generated key. It is embedded by every entity.
type Identity struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id,omitempty"`
}

func (i Identity) GetID() string {
	return i.ID
}

func (i *Identity) SetID(id string) {
	i.ID = id
}

// Quantity is an item count that decodes from a JSON number or a numeric
// string, since older records were written straight from form inputs.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*q = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid quantity %s: %w", data, err)
	}
	*q = Quantity(n)
	return nil
}

func (q Quantity) Int() int {
	return int(q)
}

// jsonValue and jsonScan back the jsonb columns of nested lists
func jsonValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, dest)
}
