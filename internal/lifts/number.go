package lifts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Number accepts both JSON numbers and numeric strings, since form inputs
// are posted as strings. An empty string or null is not a number.
type Number float64

var errEmptyNumber = errors.New("empty number")

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errEmptyNumber
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return errEmptyNumber
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

// Int returns the value as an int, failing for fractional values.
func (n Number) Int() (int, error) {
	f := float64(n)
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int(f), nil
}
