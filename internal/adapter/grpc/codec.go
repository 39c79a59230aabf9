package grpc

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

// ErrMalformedResponse is returned when a response document is missing a
// field or carries one of the wrong type
var ErrMalformedResponse = errors.New("malformed widget response")

// Document field names. Money and percentages travel as decimal strings.
const (
	fieldDate                 = "date"
	fieldTotalAmount          = "total_amount"
	fieldTotalServiceDays     = "total_service_days"
	fieldStartDate            = "start_date"
	fieldDaysServed           = "days_served"
	fieldDaysRemaining        = "days_remaining"
	fieldCompletionPercentage = "completion_percentage"
	fieldDailyCost            = "daily_cost"
	fieldRemainingAmount      = "remaining_amount"
	fieldIsConfigured         = "is_configured"
	fieldEntries              = "entries"
	fieldNextRefresh          = "next_refresh"
)

// EntryToStruct encodes a widget entry
func EntryToStruct(entry widget.Entry) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(entryFields(entry))
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry: %w", err)
	}
	return out, nil
}

// TimelineToStruct encodes a widget timeline
func TimelineToStruct(timeline widget.Timeline) (*structpb.Struct, error) {
	entries := make([]interface{}, 0, len(timeline.Entries))
	for _, entry := range timeline.Entries {
		entries = append(entries, entryFields(entry))
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		fieldEntries:     entries,
		fieldNextRefresh: timeline.NextRefresh.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode timeline: %w", err)
	}
	return out, nil
}

// StructToEntry decodes a document produced by EntryToStruct
func StructToEntry(s *structpb.Struct) (widget.Entry, error) {
	r := reader{fields: s.GetFields()}

	entry := widget.Entry{
		Date: r.timestamp(fieldDate),
		State: domain.BondState{
			TotalAmount:      r.dec(fieldTotalAmount),
			TotalServiceDays: r.integer(fieldTotalServiceDays),
			StartDate:        r.timestamp(fieldStartDate),
		},
		Derived: domain.DerivedFields{
			DaysServed:           r.integer(fieldDaysServed),
			DaysRemaining:        r.integer(fieldDaysRemaining),
			CompletionPercentage: r.dec(fieldCompletionPercentage),
			DailyCost:            r.dec(fieldDailyCost),
			RemainingAmount:      r.dec(fieldRemainingAmount),
			IsConfigured:         r.boolean(fieldIsConfigured),
		},
	}
	if r.err != nil {
		return widget.Entry{}, r.err
	}
	return entry, nil
}

// StructToTimeline decodes a document produced by TimelineToStruct
func StructToTimeline(s *structpb.Struct) (widget.Timeline, error) {
	r := reader{fields: s.GetFields()}
	next := r.timestamp(fieldNextRefresh)
	if r.err != nil {
		return widget.Timeline{}, r.err
	}

	list := s.GetFields()[fieldEntries].GetListValue()
	if list == nil {
		return widget.Timeline{}, fmt.Errorf("%w: %s is not a list", ErrMalformedResponse, fieldEntries)
	}

	entries := make([]widget.Entry, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		entry, err := StructToEntry(v.GetStructValue())
		if err != nil {
			return widget.Timeline{}, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return widget.Timeline{Entries: entries, NextRefresh: next}, nil
}

func entryFields(entry widget.Entry) map[string]interface{} {
	return map[string]interface{}{
		fieldDate:                 entry.Date.Format(time.RFC3339Nano),
		fieldTotalAmount:          entry.State.TotalAmount.String(),
		fieldTotalServiceDays:     entry.State.TotalServiceDays,
		fieldStartDate:            entry.State.StartDate.Format(time.RFC3339Nano),
		fieldDaysServed:           entry.Derived.DaysServed,
		fieldDaysRemaining:        entry.Derived.DaysRemaining,
		fieldCompletionPercentage: entry.Derived.CompletionPercentage.String(),
		fieldDailyCost:            entry.Derived.DailyCost.String(),
		fieldRemainingAmount:      entry.Derived.RemainingAmount.String(),
		fieldIsConfigured:         entry.Derived.IsConfigured,
	}
}

// reader pulls typed fields out of a struct, keeping the first error
type reader struct {
	fields map[string]*structpb.Value
	err    error
}

func (r *reader) value(name string) *structpb.Value {
	v, ok := r.fields[name]
	if !ok && r.err == nil {
		r.err = fmt.Errorf("%w: missing %s", ErrMalformedResponse, name)
	}
	return v
}

func (r *reader) str(name string) string {
	v := r.value(name)
	if v == nil {
		return ""
	}
	if _, ok := v.GetKind().(*structpb.Value_StringValue); !ok && r.err == nil {
		r.err = fmt.Errorf("%w: %s is not a string", ErrMalformedResponse, name)
	}
	return v.GetStringValue()
}

func (r *reader) integer(name string) int {
	v := r.value(name)
	if v == nil {
		return 0
	}
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok && r.err == nil {
		r.err = fmt.Errorf("%w: %s is not a number", ErrMalformedResponse, name)
	}
	return int(v.GetNumberValue())
}

func (r *reader) boolean(name string) bool {
	v := r.value(name)
	if v == nil {
		return false
	}
	if _, ok := v.GetKind().(*structpb.Value_BoolValue); !ok && r.err == nil {
		r.err = fmt.Errorf("%w: %s is not a bool", ErrMalformedResponse, name)
	}
	return v.GetBoolValue()
}

func (r *reader) dec(name string) decimal.Decimal {
	raw := r.str(name)
	if r.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %v", ErrMalformedResponse, name, err)
		return decimal.Zero
	}
	return d
}

func (r *reader) timestamp(name string) time.Time {
	raw := r.str(name)
	if r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %v", ErrMalformedResponse, name, err)
		return time.Time{}
	}
	return t
}
