package services

import (
	"context"
	"errors"
	"testing"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkBatch_StoresAllRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{})
	asha := env.issue(t, "Asha", "Patel")

	views, err := env.attendance.MarkBatch(ctx, coordinatorCaller(), dtos.MarkAttendanceRequest{Records: []dtos.AttendanceRecordInput{
		{UserID: asha.UserID, ActivityID: &a.ID, Status: "present"},
		{UserID: "ghost", ActivityID: &a.ID, Status: "absent"},
	}})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Asha Patel", views[0].MemberName)
	assert.Equal(t, coordinatorCaller().UserID, views[0].MarkedBy)
	assert.True(t, views[0].MarkedAt.Equal(fixedNow))
	assert.Equal(t, "N/A", views[1].MemberUID)

	listed, err := env.attendance.ListForEvent(ctx, adminCaller, a.ID, "")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	mine, err := env.attendance.ListForMember(ctx, memberCaller(asha.UserID), asha.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "present", mine[0].Status)

	_, err = env.attendance.ListForMember(ctx, memberCaller("someone-else"), asha.UserID)
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
}

func TestMarkBatch_IsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{})
	meeting, err := env.meetings.Create(ctx, adminCaller, dtos.MeetingRequest{Title: "Monthly", MeetingDate: "2024-04-02"})
	require.NoError(t, err)

	_, err = env.attendance.MarkBatch(ctx, adminCaller, dtos.MarkAttendanceRequest{Records: []dtos.AttendanceRecordInput{
		{UserID: "u1", MeetingID: &meeting.ID, Status: "present"},
	}})
	require.NoError(t, err)

	cases := map[string]struct {
		records []dtos.AttendanceRecordInput
		want    error
	}{
		"both events": {
			records: []dtos.AttendanceRecordInput{{UserID: "u2", ActivityID: &a.ID, MeetingID: &meeting.ID, Status: "present"}},
			want:    apperr.ErrValidation,
		},
		"no event": {
			records: []dtos.AttendanceRecordInput{{UserID: "u2", Status: "present"}},
			want:    apperr.ErrValidation,
		},
		"bad status": {
			records: []dtos.AttendanceRecordInput{{UserID: "u2", ActivityID: &a.ID, Status: "late"}},
			want:    apperr.ErrValidation,
		},
		"missing event": {
			records: []dtos.AttendanceRecordInput{
				{UserID: "u2", ActivityID: &a.ID, Status: "present"},
				{UserID: "u2", MeetingID: strPtr("nope"), Status: "present"},
			},
			want: apperr.ErrNotFound,
		},
		"duplicate in batch": {
			records: []dtos.AttendanceRecordInput{
				{UserID: "u2", ActivityID: &a.ID, Status: "present"},
				{UserID: "u2", ActivityID: &a.ID, Status: "absent"},
			},
			want: apperr.ErrAttendanceExists,
		},
		"already stored": {
			records: []dtos.AttendanceRecordInput{
				{UserID: "u2", ActivityID: &a.ID, Status: "present"},
				{UserID: "u1", MeetingID: &meeting.ID, Status: "absent"},
			},
			want: apperr.ErrAttendanceExists,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.attendance.MarkBatch(ctx, adminCaller, dtos.MarkAttendanceRequest{Records: tc.records})
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	var n int64
	require.NoError(t, env.db.Model(&gormModels.Attendance{}).Count(&n).Error)
	assert.Equal(t, int64(1), n, "failed batches must not leave rows")
}

func TestListForEvent_RequiresExactlyOneFilter(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.attendance.ListForEvent(context.Background(), adminCaller, "", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = env.attendance.ListForEvent(context.Background(), adminCaller, "a", "m")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestMeetingDelete_RemovesAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	meeting, err := env.meetings.Create(ctx, adminCaller, dtos.MeetingRequest{Title: "Monthly", MeetingDate: "2024-04-02"})
	require.NoError(t, err)
	_, err = env.attendance.MarkBatch(ctx, adminCaller, dtos.MarkAttendanceRequest{Records: []dtos.AttendanceRecordInput{
		{UserID: "u1", MeetingID: &meeting.ID, Status: "present"},
	}})
	require.NoError(t, err)

	require.NoError(t, env.meetings.Delete(ctx, adminCaller, meeting.ID))
	var n int64
	require.NoError(t, env.db.Model(&gormModels.Attendance{}).Count(&n).Error)
	assert.Zero(t, n)

	err = env.meetings.Delete(ctx, adminCaller, meeting.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
