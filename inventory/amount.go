package inventory

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a money value. DRF serializes decimals as strings ("12.50"),
// older endpoints as numbers; both decode.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// ParseAmount reads a form value; anything unparseable or negative is 0.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return Amount(f)
}

// String formats with two decimals, like the product table does
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}
