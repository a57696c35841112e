package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TaxType says whether shelf prices already contain tax (included) or tax is added on top (excluded).
type TaxType int

const (
	TaxTypeExcluded TaxType = 0
	TaxTypeIncluded TaxType = 1
)

func (t TaxType) String() string {
	names := [...]string{"excluded", "included"}
	if int(t) < 0 || int(t) >= len(names) {
		return "excluded"
	}
	return names[t]
}

func (t TaxType) IsValid() bool {
	return t == TaxTypeExcluded || t == TaxTypeIncluded
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TaxType(i)
		return nil
	}
	switch str {
	case "excluded", "":
		*t = TaxTypeExcluded
	case "included":
		*t = TaxTypeIncluded
	default:
		return fmt.Errorf("unknown tax type %q", str)
	}
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	if value == nil {
		*t = TaxTypeExcluded
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TaxType(v)
	case int:
		*t = TaxType(v)
	}
	return nil
}
