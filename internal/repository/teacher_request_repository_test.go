package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

const reviewUpdate = "UPDATE requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4"

func TestTeacherRequestRepositoryApplyReviewFlagsEnrollment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	repo := NewTeacherRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(reviewUpdate)).
		WithArgs("approved", sqlmock.AnyArg(), "REQ001", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE session_students SET pending_removal = true")).
		WithArgs(sqlmock.AnyArg(), "Saturday-13", "STU002").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	session, student := "Saturday-13", "STU002"
	flagged, err := repo.ApplyReview(context.Background(), ReviewParams{
		RequestID:     "REQ001",
		From:          models.RequestPending,
		To:            models.RequestApproved,
		FlagSessionID: &session,
		FlagStudentID: &student,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, flagged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRequestRepositoryApplyReviewStale(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	repo := NewTeacherRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(reviewUpdate)).
		WithArgs("denied", sqlmock.AnyArg(), "REQ002", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.ApplyReview(context.Background(), ReviewParams{
		RequestID: "REQ002",
		From:      models.RequestPending,
		To:        models.RequestDenied,
	})
	assert.ErrorIs(t, err, ErrStaleRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}
