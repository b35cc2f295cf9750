package services

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/pkg/csvio"
)

func exportFixtureRepo() *mockProjectRepo {
	repo := newMockProjectRepo()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	task := project.NewTask("K-1", "改修", project.WorkPowerOutage, start, end).
		WithAssignees([]string{"1001"})
	p := project.Hydrate(
		"K-1", "変電所改修", "中電", "山口", "佐藤", "",
		[]project.Task{task},
		map[string]project.ManpowerEntry{"2024-04-02": {Required: 5, Secured: 3}},
		time.Time{}, time.Time{},
	)
	repo.projects["K-1"] = p
	return repo
}

func TestExportService_ProjectListingRoundTrips(t *testing.T) {
	svc := NewExportService(exportFixtureRepo(), clockwork.NewFakeClock())

	out, err := svc.ProjectListing(txContext())
	require.NoError(t, err)

	rows, err := csvio.Parse(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "K-1", rows[0]["工事ID"])
	assert.Equal(t, "変電所改修", rows[0]["工事名"])
	assert.Equal(t, "2024-04-01", rows[0]["工期（開始）"])
	assert.Equal(t, "2024-04-03", rows[0]["工期（終了）"])
	assert.Equal(t, "佐藤", rows[0]["発注担当"])
}

func TestExportService_ScheduleResolvesAssigneeNames(t *testing.T) {
	svc := NewExportService(exportFixtureRepo(), clockwork.NewFakeClock())

	out, err := svc.Schedule(txContext(), map[string]string{"1001": "山田 太郎"})
	require.NoError(t, err)

	rows, err := csvio.Parse(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "停電作業", rows[0]["作業区分"])
	assert.Equal(t, "山田 太郎", rows[0]["担当者"])
}

func TestExportService_ScheduleFallsBackToCodeForUnknownAssignee(t *testing.T) {
	svc := NewExportService(exportFixtureRepo(), clockwork.NewFakeClock())

	out, err := svc.Schedule(txContext(), nil)
	require.NoError(t, err)

	rows, err := csvio.Parse(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1001", rows[0]["担当者"])
}

func TestExportService_StaffingMarksEmptyDays(t *testing.T) {
	svc := NewExportService(exportFixtureRepo(), clockwork.NewFakeClock())

	out, err := svc.Staffing(txContext())
	require.NoError(t, err)

	rows, err := csvio.Parse(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "変電所改修", rows[0]["工事名"])
	assert.Equal(t, "5/3", rows[0]["2024/4/2"])
	assert.Equal(t, "-", rows[0]["2024/4/1"])
}

func TestExportService_IndividualScheduleListsOccupiedDays(t *testing.T) {
	svc := NewExportService(exportFixtureRepo(), clockwork.NewFakeClock())

	out, err := svc.IndividualSchedule(txContext(), []EmployeeRef{
		{Code: "1001", Name: "山田 太郎"},
		{Code: "2002", Name: "鈴木 次郎"},
	})
	require.NoError(t, err)

	rows, err := csvio.Parse(out)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "[変電所改修]", rows[0]["2024/4/2"])
	assert.Equal(t, "-", rows[0]["2024/4/10"])
	assert.Equal(t, "-", rows[1]["2024/4/2"])
}

func TestExportService_OutputsCarryBOM(t *testing.T) {
	svc := NewExportService(exportFixtureRepo(), clockwork.NewFakeClock())

	out, err := svc.ProjectListing(txContext())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\uFEFF"))
}
