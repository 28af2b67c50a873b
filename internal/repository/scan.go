package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TWRT/taskflow/internal/models"
)

// dbTime scans timestamps whether the driver hands back time.Time or text.
type dbTime struct {
	Time  time.Time
	Valid bool
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	parsed, err := models.ParseTime(s)
	if err != nil {
		return err
	}
	t.Time, t.Valid = parsed, true
	return nil
}

func (t dbTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// dbBool coerces whatever the driver returns for the completed column into a
// strict boolean. Text forms such as "0", "f" or "false" are read as
// booleans before falling back to truthiness.
type dbBool bool

func (b *dbBool) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		*b = dbBool(models.NormalizeCompleted(src))
		return nil
	}
	if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
		*b = dbBool(parsed)
		return nil
	}
	*b = dbBool(models.NormalizeCompleted(s))
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
