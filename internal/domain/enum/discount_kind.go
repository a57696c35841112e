package enum

import (
	"encoding/json"
	"fmt"
)

// DiscountKind says how a discount code's value is applied to the subtotal.
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFixed      DiscountKind = "fixed"
)

func (k DiscountKind) String() string {
	return string(k)
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	return k.set(str)
}

// UnmarshalYAML lets catalog files use the same names.
func (k *DiscountKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	return k.set(str)
}

func (k *DiscountKind) set(str string) error {
	switch DiscountKind(str) {
	case DiscountKindPercentage, DiscountKindFixed:
		*k = DiscountKind(str)
		return nil
	}
	return fmt.Errorf("unknown discount kind %q", str)
}
