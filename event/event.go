package event

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrStartAfterEnd = errors.New("event start time is after end time")
	ErrUnsetTime     = errors.New("unset event start or end time")
	ErrNoEventName   = errors.New("no event name")
)

// Event represents a named time span such as a holiday. Start is inclusive and End is exclusive.
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e *Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetTime
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// Contains reports whether t falls within [Start, End)
func (e Event) Contains(t time.Time) bool {
	return !t.Before(e.Start) && t.Before(e.End)
}

// DisplayName returns the event name with underscores replaced by spaces
func (e Event) DisplayName() string {
	return strings.ReplaceAll(e.Name, "_", " ")
}

// Holiday returns one event per observed occurrence of hol between start and end, inclusive,
// padded by durBefore and durAfter. Events are expressed in the location of start.
func Holiday(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []Event {
	startLoc := start.Location()

	events := []Event{}
	for i := start.Year(); i <= end.Year(); i++ {
		_, observed := hol.Calc(i)
		_, offset := observed.Zone()
		_, startOffset := start.Zone()

		observed = observed.Add(time.Duration(offset) * time.Second).In(startLoc).Add(time.Duration(-startOffset) * time.Second)

		if (observed.After(start) || observed.Equal(start)) && (observed.Before(end) || observed.Equal(end)) {
			events = append(events, Event{
				Name:  strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, i), " ", "_"),
				Start: observed.Add(-durBefore),
				End:   observed.Add(24 * time.Hour).Add(durAfter),
			})
		}
	}
	return events
}

// Events is a set of events ordered by start time
type Events []Event

// USHolidays returns the observed US federal holidays between start and end, inclusive
func USHolidays(start, end time.Time) Events {
	return Holidays(us.Holidays, start, end)
}

// Holidays collects the single day events of every holiday in hols between start and end
func Holidays(hols []*cal.Holiday, start, end time.Time) Events {
	var events Events
	for _, hol := range hols {
		events = append(events, Holiday(hol, start, end, 0, 0)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// Find returns the first event containing t
func (e Events) Find(t time.Time) (Event, bool) {
	for _, ev := range e {
		if ev.Contains(t) {
			return ev, true
		}
	}
	return Event{}, false
}
