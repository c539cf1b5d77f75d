package scan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParsedReceipt holds the fields extracted from a recognized document.
// Amount and Date are pointers: nil means the vendor did not return that
// field, which callers treat as "cannot auto-insert a transaction".
type ParsedReceipt struct {
	Amount   *float64 `json:"amount"`
	Date     *string  `json:"date"`
	Vendor   string   `json:"vendor,omitempty"`
	Category string   `json:"category,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// ParsedDate returns the receipt date as a calendar date, or false when the
// date is missing or not in a recognized format.
func (p *ParsedReceipt) ParsedDate() (time.Time, bool) {
	if p.Date == nil {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, *p.Date); err == nil {
			// Keep the stated calendar day; truncating in absolute time would
			// shift it for non-UTC offsets.
			year, month, day := t.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// receiptV5Response is the shape of the synchronous expense_receipts v5
// prediction endpoint.
type receiptV5Response struct {
	Document struct {
		Inference struct {
			Prediction struct {
				TotalAmount  *valueField  `json:"total_amount"`
				Date         *stringField `json:"date"`
				SupplierName *stringField `json:"supplier_name"`
				Category     *stringField `json:"category"`
				Subcategory  *stringField `json:"subcategory"`
				Locale       *struct {
					Currency string `json:"currency"`
				} `json:"locale"`
			} `json:"prediction"`
		} `json:"inference"`
	} `json:"document"`
}

// inferenceV2Response is the shape of the asynchronous v2 inference API,
// where predictions come back as a flat field map.
type inferenceV2Response struct {
	Inference struct {
		Result struct {
			Fields map[string]json.RawMessage `json:"fields"`
		} `json:"result"`
	} `json:"inference"`
}

type valueField struct {
	Value *float64 `json:"value"`
}

type stringField struct {
	Value string `json:"value"`
}

// Parse decodes a Mindee response body. It tries each known response shape
// in turn and returns the first that yields at least one field; unknown
// shapes are an error rather than a guess.
func Parse(raw []byte) (*ParsedReceipt, error) {
	if parsed, ok := parseReceiptV5(raw); ok {
		return parsed, nil
	}
	if parsed, ok := parseInferenceV2(raw); ok {
		return parsed, nil
	}
	return nil, fmt.Errorf("unrecognized mindee response shape")
}

func parseReceiptV5(raw []byte) (*ParsedReceipt, bool) {
	var resp receiptV5Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}

	pred := resp.Document.Inference.Prediction
	parsed := &ParsedReceipt{}

	if pred.TotalAmount != nil && pred.TotalAmount.Value != nil {
		parsed.Amount = pred.TotalAmount.Value
	}
	if pred.Date != nil && pred.Date.Value != "" {
		d := pred.Date.Value
		parsed.Date = &d
	}
	if pred.SupplierName != nil {
		parsed.Vendor = pred.SupplierName.Value
	}
	if pred.Category != nil && pred.Category.Value != "" {
		parsed.Category = pred.Category.Value
	} else if pred.Subcategory != nil {
		parsed.Category = pred.Subcategory.Value
	}
	if pred.Locale != nil {
		parsed.Currency = pred.Locale.Currency
	}

	if parsed.Amount == nil && parsed.Date == nil && parsed.Vendor == "" {
		return nil, false
	}
	return parsed, true
}

func parseInferenceV2(raw []byte) (*ParsedReceipt, bool) {
	var resp inferenceV2Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	fields := resp.Inference.Result.Fields
	if len(fields) == 0 {
		return nil, false
	}

	parsed := &ParsedReceipt{}
	for name, rawField := range fields {
		value, ok := fieldValue(rawField)
		if !ok {
			continue
		}
		switch strings.ToLower(name) {
		case "total_amount", "total", "amount":
			if n, ok := toNumber(value); ok && parsed.Amount == nil {
				parsed.Amount = &n
			}
		case "date", "invoice_date", "issued_date":
			if s, ok := value.(string); ok && parsed.Date == nil {
				parsed.Date = &s
			}
		case "supplier_name", "vendor", "merchant":
			if s, ok := value.(string); ok && parsed.Vendor == "" {
				parsed.Vendor = s
			}
		case "purchase_category", "category", "document_type":
			if s, ok := value.(string); ok && parsed.Category == "" {
				parsed.Category = s
			}
		case "currency", "locale":
			if s, ok := value.(string); ok && parsed.Currency == "" {
				parsed.Currency = s
			}
		}
	}

	if parsed.Amount == nil && parsed.Date == nil && parsed.Vendor == "" {
		return nil, false
	}
	return parsed, true
}

// fieldValue unwraps a v2 field, which is either {"value": ...} or a bare
// scalar.
func fieldValue(raw json.RawMessage) (interface{}, bool) {
	var wrapped struct {
		Value interface{} `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Value != nil {
		return wrapped.Value, true
	}

	var bare interface{}
	if err := json.Unmarshal(raw, &bare); err == nil && bare != nil {
		if _, isObject := bare.(map[string]interface{}); !isObject {
			return bare, true
		}
	}
	return nil, false
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r == ',' || r == ' ' {
				return -1
			}
			return r
		}, n)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
