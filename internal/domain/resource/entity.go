package resource

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrEmptyResourceID      = errors.New("resource id cannot be empty")
	ErrEmptyResourceLabel   = errors.New("resource label cannot be empty")
	ErrResourceLabelTooLong = errors.New("resource label is too long (max 255 characters)")
	ErrInvalidHours         = errors.New("operating hours must satisfy 0 <= open < close <= 24:00")
)

const (
	MaxResourceLabelLength = 255
	MinutesPerDay          = 24 * 60
)

// Hours is a single day's operating window expressed in minutes after local midnight.
type Hours struct {
	Open  int
	Close int
}

func (h Hours) Validate() error {
	if h.Open < 0 || h.Close > MinutesPerDay || h.Open >= h.Close {
		return ErrInvalidHours
	}
	return nil
}

func (h Hours) Minutes() int {
	return h.Close - h.Open
}

type WeeklyHours map[time.Weekday]Hours

// Resource is a schedulable bay. It is immutable once constructed.
type Resource struct {
	id           string
	label        string
	capabilities map[string]struct{}
	hours        WeeklyHours
}

func NewResource(id, label string, capabilities []string, hours WeeklyHours) (*Resource, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyResourceID
	}
	if err := validateLabel(label); err != nil {
		return nil, err
	}

	copied := make(WeeklyHours, len(hours))
	for day, h := range hours {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		copied[day] = h
	}

	caps := make(map[string]struct{}, len(capabilities))
	for _, c := range capabilities {
		c = normalizeTag(c)
		if c != "" {
			caps[c] = struct{}{}
		}
	}

	return &Resource{
		id:           id,
		label:        strings.TrimSpace(label),
		capabilities: caps,
		hours:        copied,
	}, nil
}

func validateLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyResourceLabel
	}
	if len(label) > MaxResourceLabelLength {
		return ErrResourceLabelTooLong
	}
	return nil
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// HoursOn reports the operating hours for the weekday of date. Closed days return false.
func (r *Resource) HoursOn(date time.Time) (Hours, bool) {
	h, ok := r.hours[date.Weekday()]
	return h, ok
}

// OpenClose returns the operating window of the calendar day containing date, interpreted in loc.
func (r *Resource) OpenClose(date time.Time, loc *time.Location) (open, closing time.Time, ok bool) {
	local := date.In(loc)
	h, ok := r.HoursOn(local)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	y, m, d := local.Date()
	open = time.Date(y, m, d, 0, h.Open, 0, 0, loc)
	closing = time.Date(y, m, d, 0, h.Close, 0, 0, loc)
	return open, closing, true
}

// Supports reports whether every required tag is offered by the resource.
func (r *Resource) Supports(required []string) bool {
	for _, tag := range required {
		tag = normalizeTag(tag)
		if tag == "" {
			continue
		}
		if _, ok := r.capabilities[tag]; !ok {
			return false
		}
	}
	return true
}

func (r *Resource) ID() string    { return r.id }
func (r *Resource) Label() string { return r.label }

func (r *Resource) Capabilities() []string {
	out := make([]string, 0, len(r.capabilities))
	for c := range r.capabilities {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (r *Resource) WeeklyHours() WeeklyHours {
	out := make(WeeklyHours, len(r.hours))
	for day, h := range r.hours {
		out[day] = h
	}
	return out
}
