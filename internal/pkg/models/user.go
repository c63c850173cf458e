package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ErrUserNotFound is returned by user stores when no record matches the requested id
var ErrUserNotFound = errors.New("user not found")

// Role of an intranet user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Wildcard matches every branch or employment type when used in an audience filter
const Wildcard = "*"

// User represents an intranet user record as stored by the document store
type User struct {
	ID             string          `json:"id" bson:"-" db:"id"`
	Name           string          `json:"name" bson:"name" db:"name"`
	Email          string          `json:"email" bson:"email" db:"email"`
	Role           Role            `json:"role" bson:"role" db:"role"`
	Branch         string          `json:"branch" bson:"branch" db:"branch"`
	EmploymentType EmploymentTypes `json:"employment_type" bson:"employment_type" db:"employment_type"`
}

// EmploymentTypes is the set of employment types of a user or an audience filter.
// Stored records hold either a single string or a list, both decode into this type.
type EmploymentTypes []string

// Contains reports whether v is one of the types
func (e EmploymentTypes) Contains(v string) bool {
	for _, t := range e {
		if t == v {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one value
func (e EmploymentTypes) Intersects(other EmploymentTypes) bool {
	for _, t := range e {
		if other.Contains(t) {
			return true
		}
	}
	return false
}

// IsWildcard reports whether the filter matches every employment type.
// An empty filter and a filter containing "*" both match everyone.
func (e EmploymentTypes) IsWildcard() bool {
	return len(e) == 0 || e.Contains(Wildcard)
}

// UnmarshalJSON accepts a string, a list of strings or null
func (e *EmploymentTypes) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = fromString(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("employment_type must be a string or a list of strings: %w", err)
	}
	*e = normalize(many)
	return nil
}

// UnmarshalBSONValue accepts a BSON string, array of strings or null
func (e *EmploymentTypes) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*e = nil
		return nil
	case bsontype.String:
		var single string
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&single); err != nil {
			return err
		}
		*e = fromString(single)
		return nil
	case bsontype.Array:
		var many []string
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&many); err != nil {
			return err
		}
		*e = normalize(many)
		return nil
	default:
		return fmt.Errorf("unsupported bson type %s for employment_type", t)
	}
}

// Scan implements sql.Scanner for JSONB columns
func (e *EmploymentTypes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*e = nil
		return nil
	case []byte:
		return e.UnmarshalJSON(v)
	case string:
		return e.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into EmploymentTypes", src)
	}
}

// Value implements driver.Valuer
func (e EmploymentTypes) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal([]string(e))
}

func fromString(s string) EmploymentTypes {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return EmploymentTypes{s}
}

func normalize(in []string) EmploymentTypes {
	out := make(EmploymentTypes, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
