// SPDX-License-Identifier: AGPL-3.0-only
package tools

import (
	"context"
	"encoding/json"

	"github.com/shanellmusarurwa/LLM-Tools/internal/errors"
)

// FlightScheduleInput is the argument payload for get_flight_schedule.
type FlightScheduleInput struct {
	Origin      string `json:"origin" jsonschema_description:"Departure city"`
	Destination string `json:"destination" jsonschema_description:"Arrival city"`
}

// FlightSchedule is the result shape for get_flight_schedule.
type FlightSchedule struct {
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	FlightTimeHours float64 `json:"flight_time_hours"`
	PriceUSD        float64 `json:"price_usd"`
}

// FlightScheduleTool returns a canned flight schedule for any route. The
// flight time and price are fixed reference values; only the route fields
// echo the input.
type FlightScheduleTool struct{}

// NewFlightScheduleTool creates the flight schedule tool.
func NewFlightScheduleTool() *FlightScheduleTool {
	return &FlightScheduleTool{}
}

func (t *FlightScheduleTool) Name() string {
	return "get_flight_schedule"
}

func (t *FlightScheduleTool) Description() string {
	return "Gets the flight time in hours and the ticket price in USD for a route between two cities"
}

func (t *FlightScheduleTool) Parameters() map[string]interface{} {
	return reflectParameters[FlightScheduleInput]()
}

func (t *FlightScheduleTool) Call(ctx context.Context, argsJSON string) (string, error) {
	var in FlightScheduleInput
	if err := json.Unmarshal([]byte(argsJSON), &in); err != nil {
		return "", errors.MalformedArguments(t.Name(), err)
	}

	schedule := FlightSchedule{
		Origin:          in.Origin,
		Destination:     in.Destination,
		FlightTimeHours: 5.5,
		PriceUSD:        920,
	}

	out, err := json.Marshal(schedule)
	if err != nil {
		return "", errors.Internal(err)
	}
	return string(out), nil
}
