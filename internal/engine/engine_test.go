package engine

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/study-place-reservation/internal/model"
	"github.com/iliyamo/study-place-reservation/internal/queue"
	"github.com/iliyamo/study-place-reservation/internal/repository"
)

// fixedClock pins the engine's notion of "now" so past-slot validation
// and event timestamps are deterministic.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// capturingPublisher records events instead of dialing a broker.
type capturingPublisher struct{ events []queue.ReservationDecidedEvent }

func (p *capturingPublisher) ReservationDecided(_ context.Context, ev queue.ReservationDecidedEvent) error {
	p.events = append(p.events, ev)
	return nil
}

// testClock is 2024-06-01 08:00 UTC; all test slots sit later that day.
var testClock = fixedClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock, *capturingPublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	pub := &capturingPublisher{}
	eng := New(db,
		repository.NewStudyPlaceRepo(db),
		repository.NewReservationRepo(db),
		repository.NewReactionRepo(db),
		repository.NewCommentRepo(db),
		nil, pub, testClock, time.Minute)
	return eng, mock, pub
}

var placeColumns = []string{"id", "owner_id", "name", "description", "location", "image_url", "is_available", "created_at", "updated_at"}

func placeRow(available bool) *sqlmock.Rows {
	now := testClock.t
	return sqlmock.NewRows(placeColumns).
		AddRow(1, 10, "Quiet Corner", "window desk", "Library, floor 2", nil, available, now, now)
}

var reservationColumns = []string{"id", "study_place_id", "user_id", "reservation_date", "start_time", "end_time", "status", "created_at", "updated_at"}

func reservationRow(id, userID uint64, start, end string, status model.Status) *sqlmock.Rows {
	now := testClock.t
	return sqlmock.NewRows(reservationColumns).
		AddRow(id, 1, userID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), start, end, status, now, now)
}

func ownedRow(id, userID uint64, status model.Status) *sqlmock.Rows {
	now := testClock.t
	return sqlmock.NewRows(append(reservationColumns, "owner_id", "place_name")).
		AddRow(id, 1, userID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "09:00:00", "10:00:00", status, now, now, 10, "Quiet Corner")
}

var (
	student = Actor{ID: 7, Role: model.RoleStudent}
	owner   = Actor{ID: 10, Role: model.RoleLibraryStaff}
)

func TestCreateReservationSuccess(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectQuery(`SELECT start_time, end_time FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}))
	mock.ExpectExec(`INSERT INTO reservations`).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`FROM reservations WHERE id = `).
		WillReturnRows(reservationRow(42, student.ID, "09:00:00", "10:00:00", model.StatusPending))
	mock.ExpectCommit()

	res, err := eng.CreateReservation(context.Background(), student, 1,
		Slot{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, "09:00", res.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An overlapping candidate is rejected before any insert; the open
// transaction is rolled back untouched.
func TestCreateReservationSlotConflict(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectQuery(`SELECT start_time, end_time FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}).AddRow("09:00:00", "10:00:00"))
	mock.ExpectRollback()

	_, err := eng.CreateReservation(context.Background(), student, 1,
		Slot{Date: "2024-06-01", StartTime: "09:30", EndTime: "10:30"})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnavailablePlace(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(false))
	mock.ExpectRollback()

	_, err := eng.CreateReservation(context.Background(), student, 1,
		Slot{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A caller already holding a pending or confirmed reservation on the
// place cannot stack a second one, even for a non-overlapping slot.
// The transaction rolls back before any insert.
func TestCreateReservationCallerAlreadyHolds(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
	mock.ExpectRollback()

	_, err := eng.CreateReservation(context.Background(), student, 1,
		Slot{Date: "2024-06-01", StartTime: "14:00", EndTime: "15:00"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet(), "no insert may run for a caller with a live reservation")
}

func TestCreateReservationInvalidInterval(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	cases := []Slot{
		{Date: "2024-06-01", StartTime: "10:00", EndTime: "10:00"},
		{Date: "2024-06-01", StartTime: "11:00", EndTime: "10:00"},
		{Date: "2024-05-31", StartTime: "09:00", EndTime: "10:00"}, // yesterday
		{Date: "2024-06-01", StartTime: "07:00", EndTime: "09:00"}, // started before now (08:00)
		{Date: "first of june", StartTime: "09:00", EndTime: "10:00"},
		{Date: "2024-06-01", StartTime: "9am", EndTime: "10:00"},
	}
	for _, slot := range cases {
		_, err := eng.CreateReservation(context.Background(), student, 1, slot)
		assert.ErrorIsf(t, err, ErrInvalidInterval, "slot %+v", slot)
	}
}

func TestCreateReservationRoleDenied(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.CreateReservation(context.Background(), owner, 1,
		Slot{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrForbidden, "library staff do not book places")

	_, err = eng.CreateReservation(context.Background(), Actor{}, 1,
		Slot{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// An edit that would collide leaves the stored reservation untouched:
// the transaction rolls back without reaching the UPDATE.
func TestEditReservationConflictRollsBack(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusPending))
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT start_time, end_time FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}).AddRow("11:00:00", "12:00:00"))
	mock.ExpectRollback()

	_, err := eng.EditReservation(context.Background(), student, 42,
		Slot{Date: "2024-06-01", StartTime: "11:30", EndTime: "12:30"})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditReservationForcesPending(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusConfirmed))
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT start_time, end_time FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}))
	mock.ExpectExec(`UPDATE reservations SET reservation_date`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.EditReservation(context.Background(), student, 42,
		Slot{Date: "2024-06-01", StartTime: "13:00", EndTime: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status, "edit requires re-approval")
	assert.Equal(t, "13:00", res.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditReservationNotRequester(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, 99, model.StatusPending))
	mock.ExpectRollback()

	_, err := eng.EditReservation(context.Background(), student, 42,
		Slot{Date: "2024-06-01", StartTime: "13:00", EndTime: "14:00"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveReservation(t *testing.T) {
	eng, mock, pub := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusPending))
	mock.ExpectExec(`UPDATE reservations SET status`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.ApproveReservation(context.Background(), owner, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "confirmed", pub.events[0].Status)
	assert.Equal(t, uint64(42), pub.events[0].ReservationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// approve is only legal from pending; anything else is rejected with
// the state left as it was.
func TestApproveInvalidTransition(t *testing.T) {
	for _, status := range []model.Status{model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted} {
		eng, mock, pub := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, status))
		mock.ExpectRollback()

		_, err := eng.ApproveReservation(context.Background(), owner, 42)
		assert.ErrorIsf(t, err, ErrInvalidTransition, "approve from %s", status)
		assert.Empty(t, pub.events)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

// reject is allowed from both pending and confirmed.
func TestRejectConfirmedReservation(t *testing.T) {
	eng, mock, pub := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusConfirmed))
	mock.ExpectExec(`UPDATE reservations SET status`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.RejectReservation(context.Background(), owner, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "cancelled", pub.events[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The status write carries the status that was read.  When a
// concurrent decision commits in between, the guarded UPDATE matches
// no row and the stale decision is rejected instead of overwriting the
// committed one.
func TestApproveLosesStatusRace(t *testing.T) {
	eng, mock, pub := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusPending))
	mock.ExpectExec(`UPDATE reservations SET status`).
		WithArgs(model.StatusConfirmed, uint64(42), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := eng.ApproveReservation(context.Background(), owner, 42)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, pub.events, "a losing decision must not publish")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An edit whose reservation settled concurrently (cancelled or
// completed after the read) must not pull it back to pending: the
// guarded UPDATE matches no row and the edit fails.
func TestEditReservationSettledConcurrently(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusConfirmed))
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT start_time, end_time FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}))
	mock.ExpectExec(`UPDATE reservations SET reservation_date`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := eng.EditReservation(context.Background(), student, 42,
		Slot{Date: "2024-06-01", StartTime: "13:00", EndTime: "14:00"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveNotOwner(t *testing.T) {
	eng, mock, _ := newTestEngine(t)
	otherStaff := Actor{ID: 11, Role: model.RoleLibraryStaff}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusPending))
	mock.ExpectRollback()

	_, err := eng.ApproveReservation(context.Background(), otherStaff, 42)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReservationByOwnerAndRequester(t *testing.T) {
	for _, actor := range []Actor{student, owner} {
		eng, mock, _ := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusConfirmed))
		mock.ExpectExec(`DELETE FROM reservations WHERE id`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoErrorf(t, eng.DeleteReservation(context.Background(), actor, 42), "actor %d", actor.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	}

	eng, mock, _ := newTestEngine(t)
	stranger := Actor{ID: 99, Role: model.RoleTeacher}
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations r`).WillReturnRows(ownedRow(42, student.ID, model.StatusConfirmed))
	mock.ExpectRollback()
	assert.ErrorIs(t, eng.DeleteReservation(context.Background(), stranger, 42), ErrForbidden)
}

func expectToggle(mock sqlmock.Sqlmock, exists bool, countAfter int) {
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reactions`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(exists))
	if exists {
		mock.ExpectExec(`DELETE FROM reactions WHERE study_place_id`).WillReturnResult(sqlmock.NewResult(0, 1))
	} else {
		mock.ExpectExec(`INSERT INTO reactions`).WillReturnResult(sqlmock.NewResult(5, 1))
	}
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reactions`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(countAfter))
	mock.ExpectCommit()
}

// Toggling twice is an involution: like then unlike returns to the
// starting state.
func TestToggleLikeInvolution(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	expectToggle(mock, false, 1)
	expectToggle(mock, true, 0)

	first, err := eng.ToggleLike(context.Background(), student, 1)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.TotalLikes)

	second, err := eng.ToggleLike(context.Background(), student, 1)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, 0, second.TotalLikes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// When a racing toggle wins the insert, the duplicate-key error from
// the unique ledger key is absorbed: the like exists exactly once and
// the caller sees liked=true.
func TestToggleLikeDuplicateRace(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reactions`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO reactions`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reactions`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectCommit()

	res, err := eng.ToggleLike(context.Background(), student, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.TotalLikes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The place row is locked inside the toggle transaction, so a toggle
// racing a cascade delete serializes behind it and observes the
// deleted place instead of stranding a reaction row.
func TestToggleLikeDeletedPlace(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(placeColumns))
	mock.ExpectRollback()

	_, err := eng.ToggleLike(context.Background(), student, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectExec(`INSERT INTO comments`).WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`FROM comments c`).
		WillReturnRows(sqlmock.NewRows([]string{"study_place_id", "user_id", "content", "created_at", "name"}).
			AddRow(1, student.ID, "great light by the window", testClock.t, "Dana"))
	mock.ExpectCommit()

	cm, err := eng.AddComment(context.Background(), student, 1, "  great light by the window ")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cm.ID)
	assert.Equal(t, "great light by the window", cm.Content)
	assert.Equal(t, "Dana", cm.UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentEmptyContent(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.AddComment(context.Background(), student, 1, "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

// A comment on a deleted place fails with not-found inside the same
// transaction; no insert runs.
func TestAddCommentDeletedPlace(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(placeColumns))
	mock.ExpectRollback()

	_, err := eng.AddComment(context.Background(), student, 1, "still open?")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// failingBlob simulates blob storage being down after the DB cascade
// has committed.
type failingBlob struct{}

func (failingBlob) Remove(context.Context, string) error {
	return assert.AnError
}

func expectCascade(mock sqlmock.Sqlmock, row *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(row)
	mock.ExpectExec(`DELETE FROM comments WHERE study_place_id`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM reactions WHERE study_place_id`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM reservations WHERE study_place_id`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM study_places WHERE id`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestDeleteResourceCascade(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	expectCascade(mock, placeRow(true))
	require.NoError(t, eng.DeleteResource(context.Background(), owner, 1))
	assert.NoError(t, mock.ExpectationsWereMet(), "dependents must be deleted before the place, all in one tx")
}

// If removing the uploaded image fails after the DB cascade committed,
// the error names the completed steps so a retry can skip them.
func TestDeleteResourcePartialFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	eng := New(db,
		repository.NewStudyPlaceRepo(db),
		repository.NewReservationRepo(db),
		repository.NewReactionRepo(db),
		repository.NewCommentRepo(db),
		failingBlob{}, nil, testClock, time.Minute)

	now := testClock.t
	withImage := sqlmock.NewRows(placeColumns).
		AddRow(1, 10, "Quiet Corner", "window desk", "Library, floor 2", "http://blobs/places/1.jpg", true, now, now)
	expectCascade(mock, withImage)

	err = eng.DeleteResource(context.Background(), owner, 1)
	var pf *PartialFailure
	require.ErrorAs(t, err, &pf)
	assert.Contains(t, pf.Completed, "delete reservations")
	assert.Contains(t, pf.Completed, "delete study place")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteResourceNotOwner(t *testing.T) {
	eng, mock, _ := newTestEngine(t)
	otherStaff := Actor{ID: 11, Role: model.RoleLibraryStaff}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM study_places WHERE id = (.+) FOR UPDATE`).WillReturnRows(placeRow(true))
	mock.ExpectRollback()

	assert.ErrorIs(t, eng.DeleteResource(context.Background(), otherStaff, 1), ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteElapsed(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	mock.ExpectExec(`UPDATE reservations SET status = 'completed'`).
		WithArgs("2024-06-01", "2024-06-01", "08:00:00").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := eng.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
