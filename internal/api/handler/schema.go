package handler

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexibleSeconds accepts a duration sent either as a JSON number or as a
// numeric string, the two shapes browsers actually produce for this field.
// Anything unparseable decodes to zero and fails the positive-duration check
// downstream.
type flexibleSeconds int

func (f *flexibleSeconds) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// tolerate fractional input like 5.0
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*f = 0
			return nil
		}
		n = int(fl)
	}
	*f = flexibleSeconds(n)
	return nil
}

var _ json.Unmarshaler = (*flexibleSeconds)(nil)
