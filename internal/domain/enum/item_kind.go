package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemKind distinguishes the two things a cart line can sell.
type ItemKind string

const (
	ItemKindService ItemKind = "service"
	ItemKindProduct ItemKind = "product"
)

func (k ItemKind) String() string {
	return string(k)
}

// IsValid reports whether k is a known item kind.
func (k ItemKind) IsValid() bool {
	return k == ItemKindService || k == ItemKindProduct
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = ItemKind(str)
	return nil
}

func (k ItemKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	if value == nil {
		*k = ItemKindService
		return nil
	}
	switch v := value.(type) {
	case string:
		*k = ItemKind(v)
	case []byte:
		*k = ItemKind(string(v))
	}
	return nil
}
