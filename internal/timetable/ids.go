package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// slotNamespace scopes the name-based UUIDs of inferred slots.
var slotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://bunkialo.app/timetable/slot"))

// SlotID derives a stable identifier from a slot's course, weekday and times.
// The same slot gets the same ID on every generation.
func SlotID(courseID string, day int, start, end string) string {
	name := fmt.Sprintf("%s|%d|%s|%s", courseID, day, start, end)
	return uuid.NewSHA1(slotNamespace, []byte(name)).String()
}

func manualAutoID(courseID string, day int, manualRange, autoRange string) string {
	return fmt.Sprintf("%s:%s:%d:%s:%s", ConflictManualAuto, courseID, day, manualRange, autoRange)
}

func autoAutoID(courseID string, day int, a, b string) string {
	ranges := []string{a, b}
	sort.Strings(ranges)
	return fmt.Sprintf("%s:%s:%d:%s", ConflictAutoAuto, courseID, day, strings.Join(ranges, "|"))
}

func timeOverlapID(day int, a, b SlotCandidate) string {
	sides := []string{a.CourseID + "@" + a.Range(), b.CourseID + "@" + b.Range()}
	sort.Strings(sides)
	return fmt.Sprintf("%s:%d:%s", ConflictTimeOverlap, day, strings.Join(sides, "|"))
}

func outlierID(c SlotCandidate) string {
	return fmt.Sprintf("%s:%s:%d:%s", ConflictOutlier, c.CourseID, c.DayOfWeek, c.Range())
}
