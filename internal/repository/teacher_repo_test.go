package repository

import (
	"context"
	"testing"

	"school_management/internal/model"
	"school_management/internal/testutil"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherRepository_List(t *testing.T) {
	mock := testutil.NewMock(t)
	repo := NewTeacherRepository(mock)

	salary := 4200.5
	cols := append(append([]string{}, testutil.UserColumns...), "teacher_id", "salary")
	u := testutil.User(12, "mr_kim", "kim@example.com", "hash", model.RoleTeacher)
	rows := pgxmock.NewRows(cols).
		AddRow(append(testutil.UserValues(u), int64(2), &salary)...)

	mock.ExpectQuery("JOIN teachers").WithArgs(model.RoleTeacher).WillReturnRows(rows)

	teachers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, int64(2), teachers[0].TeacherID)
	assert.Equal(t, int64(12), teachers[0].User.ID)
	require.NotNil(t, teachers[0].Salary)
	assert.InDelta(t, 4200.5, *teachers[0].Salary, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
