package registryfile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"bay-scheduler/internal/domain/resource"

	"gopkg.in/yaml.v3"
)

// File is the on-disk registry layout:
//
//	timezone: Europe/Berlin
//	resources:
//	  - id: bay-1
//	    label: Bay 1
//	    capabilities: [lift, diagnostics]
//	    hours:
//	      monday: "08:00-17:00"
//	      saturday: "09:00-13:00"
type File struct {
	TimeZone  string         `yaml:"timezone"`
	Resources []ResourceSpec `yaml:"resources"`
}

type ResourceSpec struct {
	ID           string            `yaml:"id"`
	Label        string            `yaml:"label"`
	Capabilities []string          `yaml:"capabilities"`
	Hours        map[string]string `yaml:"hours"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads path and builds the registry. fallback is used when the file names no timezone.
func Load(path string, fallback *time.Location) (*resource.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	return Parse(data, fallback)
}

func Parse(data []byte, fallback *time.Location) (*resource.Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid registry yaml: %w", err)
	}

	loc := fallback
	if f.TimeZone != "" {
		l, err := time.LoadLocation(f.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid registry timezone %q: %w", f.TimeZone, err)
		}
		loc = l
	}

	resources := make([]*resource.Resource, 0, len(f.Resources))
	for i, entry := range f.Resources {
		hours, err := parseWeek(entry.Hours)
		if err != nil {
			return nil, fmt.Errorf("resource #%d (%s): %w", i+1, entry.ID, err)
		}
		r, err := resource.NewResource(entry.ID, entry.Label, entry.Capabilities, hours)
		if err != nil {
			return nil, fmt.Errorf("resource #%d (%s): %w", i+1, entry.ID, err)
		}
		resources = append(resources, r)
	}

	return resource.NewRegistry(loc, resources...)
}

func parseWeek(raw map[string]string) (resource.WeeklyHours, error) {
	out := make(resource.WeeklyHours, len(raw))
	for name, span := range raw {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		h, err := parseSpan(span)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[day] = h
	}
	return out, nil
}

// parseSpan accepts "HH:MM-HH:MM"; "24:00" is allowed as a closing time.
func parseSpan(span string) (resource.Hours, error) {
	open, closing, ok := strings.Cut(strings.TrimSpace(span), "-")
	if !ok {
		return resource.Hours{}, fmt.Errorf("hours %q must look like 08:00-17:00", span)
	}
	o, err := parseClock(open)
	if err != nil {
		return resource.Hours{}, err
	}
	c, err := parseClock(closing)
	if err != nil {
		return resource.Hours{}, err
	}
	h := resource.Hours{Open: o, Close: c}
	if err := h.Validate(); err != nil {
		return resource.Hours{}, err
	}
	return h, nil
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return resource.MinutesPerDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
