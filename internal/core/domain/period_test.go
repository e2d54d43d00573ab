package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAccountingPeriodContains(t *testing.T) {
	march := domain.AccountingPeriod{
		StartDate: day(2026, time.March, 1),
		EndDate:   day(2026, time.March, 31),
	}

	testCases := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"first day inclusive", day(2026, time.March, 1), true},
		{"last day inclusive", day(2026, time.March, 31), true},
		{"mid period", day(2026, time.March, 15), true},
		{"clock time on last day ignored", time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC), true},
		{"day before", day(2026, time.February, 28), false},
		{"day after", day(2026, time.April, 1), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, march.Contains(tc.date))
		})
	}
}

func TestAccountingPeriodWindowDays(t *testing.T) {
	testCases := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"single day", day(2026, time.March, 1), day(2026, time.March, 1), 1},
		{"march", day(2026, time.March, 1), day(2026, time.March, 31), 31},
		{"q1", day(2026, time.January, 1), day(2026, time.March, 31), 90},
		{"full year", day(2026, time.January, 1), day(2026, time.December, 31), 365},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := domain.AccountingPeriod{StartDate: tc.start, EndDate: tc.end}
			assert.Equal(t, tc.expected, p.WindowDays())
		})
	}
}

func TestDefaultChecklist(t *testing.T) {
	items := domain.DefaultChecklist()

	assert.Len(t, items, 7)
	automated := map[string]bool{}
	for i, item := range items {
		assert.Equal(t, i+1, item.CheckOrder, "items are seeded in display order")
		assert.False(t, item.IsCompleted)
		if item.IsAutomated {
			automated[item.CheckKey] = true
		}
	}
	assert.Equal(t, map[string]bool{
		domain.CheckJournalsPosted: true,
		domain.CheckPayrollPosted:  true,
	}, automated)
}
