package models

import (
	"sort"
	"time"
)

type ResourceType string

const (
	StationPool ResourceType = "STATION_POOL"
	ScienceLab  ResourceType = "SCIENCE_LAB"
	MakerLab    ResourceType = "MAKER_LAB"
	Kitchen     ResourceType = "KITCHEN"
	LibraryRoom ResourceType = "LIBRARY_ROOM"
	Auditorium  ResourceType = "AUDITORIUM"
)

func ParseResourceType(s string) (ResourceType, bool) {
	switch ResourceType(s) {
	case StationPool, ScienceLab, MakerLab, Kitchen, LibraryRoom, Auditorium:
		return ResourceType(s), true
	}
	return "", false
}

type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
)

func ParseShift(s string) (Shift, bool) {
	switch Shift(s) {
	case ShiftMorning, ShiftAfternoon:
		return Shift(s), true
	}
	return "", false
}

type ClassPeriod string

// The five instructional slots of a shift, in teaching order.
var AllPeriods = []ClassPeriod{"1st", "2nd", "3rd", "4th", "5th"}

var periodRank = map[ClassPeriod]int{
	"1st": 0, "2nd": 1, "3rd": 2, "4th": 3, "5th": 4,
}

func ParsePeriod(s string) (ClassPeriod, bool) {
	if _, ok := periodRank[ClassPeriod(s)]; ok {
		return ClassPeriod(s), true
	}
	return "", false
}

// PeriodSet is a set of class periods kept in teaching order with no
// duplicates. The zero value is the empty set.
type PeriodSet []ClassPeriod

// NewPeriodSet builds a canonical set from raw labels. The second return
// value reports the first label that is not a known period.
func NewPeriodSet(labels []string) (PeriodSet, string) {
	seen := map[ClassPeriod]struct{}{}
	var set PeriodSet
	for _, l := range labels {
		p, ok := ParsePeriod(l)
		if !ok {
			return nil, l
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		set = append(set, p)
	}
	sort.Slice(set, func(i, j int) bool {
		return periodRank[set[i]] < periodRank[set[j]]
	})
	return set, ""
}

func (ps PeriodSet) Contains(p ClassPeriod) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// Intersect returns the periods claimed by both sets, in teaching order.
func (ps PeriodSet) Intersect(other PeriodSet) PeriodSet {
	var out PeriodSet
	for _, p := range ps {
		if other.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

func (ps PeriodSet) Labels() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

type Reservation struct {
	ID           string         `db:"id"`
	ResourceType ResourceType   `db:"resource_type"`
	InstanceID   string         `db:"resource_instance_id"`
	Date         time.Time      `db:"reserved_on"`
	Shift        Shift          `db:"shift"`
	Periods      PeriodSet      `db:"-"`
	Requester    string         `db:"requester"`
	GroupLabel   string         `db:"group_label"`
	Attributes   map[string]any `db:"-"`
	Notes        string         `db:"notes"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
}
