package timetable

import "github.com/noah-isme/sma-timetable-api/internal/models"

type clashKey struct {
	day           string
	period        string
	classActivity string
}

// DetectClashes groups entries by (day, period, class/activity) using exact
// string equality and reports every group with two or more members. Groups
// are returned in order of first appearance.
func DetectClashes(entries []models.ScheduleEntry) []models.Clash {
	groups := make(map[clashKey][]models.ScheduleEntry)
	order := make([]clashKey, 0)
	for _, entry := range entries {
		key := clashKey{day: entry.Day, period: entry.Period, classActivity: entry.ClassActivity}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], entry)
	}

	clashes := make([]models.Clash, 0)
	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		clash := models.Clash{
			Day:           key.day,
			Period:        key.period,
			ClassActivity: key.classActivity,
			Teachers:      make([]string, 0, len(members)),
			Subjects:      make([]string, 0, len(members)),
			TimeSlot:      members[0].TimeSlot,
			Count:         len(members),
		}
		for _, member := range members {
			clash.Teachers = append(clash.Teachers, member.TeacherName)
			clash.Subjects = append(clash.Subjects, member.SubjectClean())
		}
		clashes = append(clashes, clash)
	}
	return clashes
}
