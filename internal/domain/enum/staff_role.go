package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// StaffRole controls what an operator may do at the register.
// Employees are restricted: they can only assign sales to themselves.
type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleEmployee StaffRole = "employee"
)

func (r StaffRole) String() string {
	return string(r)
}

func (r StaffRole) IsValid() bool {
	return r == StaffRoleAdmin || r == StaffRoleEmployee
}

// IsRestricted reports whether the role is limited to self-assignment.
func (r StaffRole) IsRestricted() bool {
	return r != StaffRoleAdmin
}

func (r StaffRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *StaffRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = StaffRole(str)
	return nil
}

func (r StaffRole) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *StaffRole) Scan(value interface{}) error {
	if value == nil {
		*r = StaffRoleEmployee
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = StaffRole(v)
	case []byte:
		*r = StaffRole(string(v))
	}
	return nil
}
