// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
)

// exchangeRates is keyed "FROM_TO". Only forward pairs are defined; a pair
// with no entry (including every reverse pair) fails with
// ErrUnsupportedCurrencyPair rather than producing a non-numeric result.
var exchangeRates = map[string]float64{
	"USD_NGN": 925,
	"USD_KES": 129.5,
	"USD_GHS": 15.8,
	"USD_ZAR": 18.2,
	"EUR_NGN": 1010,
	"GBP_NGN": 1175,
}

// ConvertCurrencyInput is the argument payload for convert_currency.
type ConvertCurrencyInput struct {
	Amount       float64 `json:"amount" jsonschema_description:"Amount to convert"`
	FromCurrency string  `json:"from_currency" jsonschema_description:"ISO currency code to convert from"`
	ToCurrency   string  `json:"to_currency" jsonschema_description:"ISO currency code to convert to"`
}

// CurrencyConversion is the result shape for convert_currency.
type CurrencyConversion struct {
	AmountConverted float64 `json:"amount_converted"`
	Currency        string  `json:"currency"`
}

// ConvertCurrencyTool converts an amount between currencies using a fixed
// rate table.
type ConvertCurrencyTool struct{}

// NewConvertCurrencyTool creates the currency conversion tool.
func NewConvertCurrencyTool() *ConvertCurrencyTool {
	return &ConvertCurrencyTool{}
}

func (t *ConvertCurrencyTool) Name() string {
	return "convert_currency"
}

func (t *ConvertCurrencyTool) Description() string {
	return "Converts an amount from one currency to another using fixed exchange rates"
}

func (t *ConvertCurrencyTool) Parameters() map[string]interface{} {
	return reflectParameters[ConvertCurrencyInput]()
}

func (t *ConvertCurrencyTool) Call(ctx context.Context, argsJSON string) (string, error) {
	var in ConvertCurrencyInput
	if err := json.Unmarshal([]byte(argsJSON), &in); err != nil {
		return "", errors.MalformedArguments(t.Name(), err)
	}

	from := strings.ToUpper(in.FromCurrency)
	to := strings.ToUpper(in.ToCurrency)
	rate, ok := exchangeRates[from+"_"+to]
	if !ok {
		return "", errors.UnsupportedCurrencyPair(from, to)
	}

	conversion := CurrencyConversion{
		AmountConverted: in.Amount * rate,
		Currency:        to,
	}

	out, err := json.Marshal(conversion)
	if err != nil {
		return "", errors.Internal(err)
	}
	return string(out), nil
}
