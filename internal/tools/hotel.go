// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"
	"encoding/json"

	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
)

// HotelScheduleInput is the argument payload for get_hotel_schedule.
type HotelScheduleInput struct {
	City string `json:"city" jsonschema_description:"City to list hotels for"`
}

// Hotel is a single hotel entry.
type Hotel struct {
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price_usd"`
}

// HotelSchedule is the result shape for get_hotel_schedule.
type HotelSchedule struct {
	City   string  `json:"city"`
	Hotels []Hotel `json:"hotels"`
}

// HotelScheduleTool returns a canned, ordered hotel list for any city.
type HotelScheduleTool struct{}

// NewHotelScheduleTool creates the hotel schedule tool.
func NewHotelScheduleTool() *HotelScheduleTool {
	return &HotelScheduleTool{}
}

func (t *HotelScheduleTool) Name() string {
	return "get_hotel_schedule"
}

func (t *HotelScheduleTool) Description() string {
	return "Lists available hotels in a city with their nightly prices in USD"
}

func (t *HotelScheduleTool) Parameters() map[string]interface{} {
	return reflectParameters[HotelScheduleInput]()
}

func (t *HotelScheduleTool) Call(ctx context.Context, argsJSON string) (string, error) {
	var in HotelScheduleInput
	if err := json.Unmarshal([]byte(argsJSON), &in); err != nil {
		return "", errors.MalformedArguments(t.Name(), err)
	}

	schedule := HotelSchedule{
		City: in.City,
		Hotels: []Hotel{
			{Name: "Grand Plaza Hotel", PriceUSD: 150},
			{Name: "City Center Inn", PriceUSD: 95},
			{Name: "Airport Lodge", PriceUSD: 70},
		},
	}

	out, err := json.Marshal(schedule)
	if err != nil {
		return "", errors.Internal(err)
	}
	return string(out), nil
}
