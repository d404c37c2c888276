package dto

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// Amount accepts a JSON number or a numeric string that may use a comma as
// the decimal separator. Strings that do not parse decode to NaN so that
// validation reports them rather than the body decoder.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v = math.NaN()
	}
	*a = Amount(v)
	return nil
}

func (a *Amount) Float() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}
