package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Date is a calendar date stored in a DATE column and sent over JSON as
// "YYYY-MM-DD", the same form the API accepts.
type Date datatypes.Date

func NewDate(t time.Time) Date { return Date(datatypes.Date(t)) }

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return time.Time(d).Format(time.DateOnly) }

func (d *Date) Scan(value any) error { return (*datatypes.Date)(d).Scan(value) }

func (d Date) Value() (driver.Value, error) { return datatypes.Date(d).Value() }

func (Date) GormDataType() string { return "date" }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = NewDate(t)
	return nil
}
