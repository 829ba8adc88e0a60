package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/study-place-reservation/internal/conflict"
	"github.com/iliyamo/study-place-reservation/internal/model"
	"github.com/iliyamo/study-place-reservation/internal/queue"
	"github.com/iliyamo/study-place-reservation/internal/repository"
)

// Publisher delivers domain events to the message broker.  Failures
// are logged and never fail the operation that produced the event.
type Publisher interface {
	ReservationDecided(ctx context.Context, ev queue.ReservationDecidedEvent) error
}

// BlobStore is the slice of the blob storage collaborator the engine
// needs: removing an uploaded object when its study place is deleted.
type BlobStore interface {
	Remove(ctx context.Context, url string) error
}

// defaultTimeout bounds every store round trip so no operation blocks
// indefinitely; on expiry the operation fails with ErrUnavailable.
const defaultTimeout = 5 * time.Second

// Engine is the facade in front of the catalog, reservation store,
// conflict checker, approval workflow and reaction ledger.  Every
// operation authorizes the acting user against the policy table,
// validates input before any write, and commits all writes of one
// operation inside a single transaction.
type Engine struct {
	db           *sql.DB
	places       *repository.StudyPlaceRepo
	reservations *repository.ReservationRepo
	reactions    *repository.ReactionRepo
	comments     *repository.CommentRepo
	blobs        BlobStore
	events       Publisher
	clock        Clock
	timeout      time.Duration
}

// New constructs an Engine.  The database handle and repositories must
// be non-nil; blobs and events may be nil, in which case image cleanup
// and event publishing are skipped.  A zero timeout selects the
// default.
func New(db *sql.DB, places *repository.StudyPlaceRepo, reservations *repository.ReservationRepo,
	reactions *repository.ReactionRepo, comments *repository.CommentRepo,
	blobs BlobStore, events Publisher, clock Clock, timeout time.Duration) *Engine {
	if db == nil || places == nil || reservations == nil || reactions == nil || comments == nil {
		panic("nil dependency passed to engine.New")
	}
	if clock == nil {
		clock = SystemClock()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Engine{
		db:           db,
		places:       places,
		reservations: reservations,
		reactions:    reactions,
		comments:     comments,
		blobs:        blobs,
		events:       events,
		clock:        clock,
		timeout:      timeout,
	}
}

// opCtx derives the bounded context every operation runs under.
func (e *Engine) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// store maps low-level persistence errors into the engine taxonomy,
// naming the failed sub-step.  Deadline expiry becomes ErrUnavailable;
// missing rows become ErrNotFound; everything else is passed through
// with added context, never suppressed.
func store(step string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", step, ErrUnavailable)
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", step, ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", step, err)
	}
}

// Slot is a candidate booking window as submitted by a caller.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// validateSlot parses and validates a candidate slot: well-formed date
// and clock values, start strictly before end, and not in the past
// relative to the engine clock.  It returns the normalized slot and
// its interval in minutes.
func (e *Engine) validateSlot(s Slot) (Slot, conflict.Interval, error) {
	day, err := model.ParseDate(s.Date)
	if err != nil {
		return Slot{}, conflict.Interval{}, fmt.Errorf("%w: bad date %q", ErrInvalidInterval, s.Date)
	}
	start, err := model.ParseClock(s.StartTime)
	if err != nil {
		return Slot{}, conflict.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	end, err := model.ParseClock(s.EndTime)
	if err != nil {
		return Slot{}, conflict.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	iv := conflict.Interval{Start: start, End: end}
	if !iv.Valid() {
		return Slot{}, conflict.Interval{}, fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}
	now := e.clock.Now().UTC()
	today := now.Format(model.DateLayout)
	date := day.Format(model.DateLayout)
	if date < today || (date == today && start < now.Hour()*60+now.Minute()) {
		return Slot{}, conflict.Interval{}, fmt.Errorf("%w: slot is in the past", ErrInvalidInterval)
	}
	return Slot{Date: date, StartTime: model.FormatClock(start), EndTime: model.FormatClock(end)}, iv, nil
}

// CreateResourceInput carries the fields of a new study place.  The
// image, if any, has already been uploaded through the blob storage
// collaborator; only its public URL reaches the engine.
type CreateResourceInput struct {
	Name        string
	Description string
	Location    string
	ImageURL    *string
}

// CreateResource publishes a new study place owned by the acting staff
// member.  New places start out available.
func (e *Engine) CreateResource(ctx context.Context, actor Actor, in CreateResourceInput) (*model.StudyPlace, error) {
	if err := authorize(ActionCreateResource, actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrEmptyContent)
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	p := &model.StudyPlace{
		OwnerID:     actor.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		Available:   true,
	}
	if err := e.places.Create(ctx, p); err != nil {
		return nil, store("create study place", err)
	}
	return p, nil
}

// SetAvailability flips the availability flag of a place.  Only the
// owning staff member may do this; the flag is never derived from
// calendar occupancy.
func (e *Engine) SetAvailability(ctx context.Context, actor Actor, placeID uint64, available bool) (*model.StudyPlace, error) {
	if err := authorize(ActionToggleAvailability, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	p, err := e.places.LockTx(ctx, tx, placeID)
	if err != nil {
		return nil, store("lock study place", err)
	}
	if p.OwnerID != actor.ID {
		return nil, fmt.Errorf("%w: not the place owner", ErrForbidden)
	}
	if err := e.places.SetAvailabilityTx(ctx, tx, placeID, available); err != nil {
		return nil, store("set availability", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store("commit", err)
	}
	committed = true
	p.Available = available
	return p, nil
}

// DeleteResource removes a study place together with its reservations,
// reactions and comments.  The table cascade runs in one transaction
// and is therefore atomic; the follow-up removal of the uploaded image
// happens after commit, and a failure there is reported as a
// PartialFailure naming the completed steps so a retry can safely skip
// them.
func (e *Engine) DeleteResource(ctx context.Context, actor Actor, placeID uint64) error {
	if err := authorize(ActionDeleteResource, actor); err != nil {
		return err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	p, err := e.places.LockTx(ctx, tx, placeID)
	if err != nil {
		return store("lock study place", err)
	}
	if p.OwnerID != actor.ID {
		return fmt.Errorf("%w: not the place owner", ErrForbidden)
	}
	if _, err := e.comments.DeleteByPlaceTx(ctx, tx, placeID); err != nil {
		return store("delete comments", err)
	}
	if _, err := e.reactions.DeleteByPlaceTx(ctx, tx, placeID); err != nil {
		return store("delete reactions", err)
	}
	if _, err := e.reservations.DeleteByPlaceTx(ctx, tx, placeID); err != nil {
		return store("delete reservations", err)
	}
	if err := e.places.DeleteTx(ctx, tx, placeID); err != nil {
		return store("delete study place", err)
	}
	if err := tx.Commit(); err != nil {
		return store("commit", err)
	}
	committed = true
	if p.ImageURL != nil && e.blobs != nil {
		if err := e.blobs.Remove(ctx, *p.ImageURL); err != nil {
			return &PartialFailure{
				Completed: []string{"delete comments", "delete reactions", "delete reservations", "delete study place"},
				Err:       fmt.Errorf("remove image: %w", err),
			}
		}
	}
	return nil
}

// CreateReservation books a slot on a study place for the acting
// student or teacher.  The place row is locked for the duration of the
// check-then-insert so two concurrent admissible-looking requests
// serialize instead of both passing the conflict check.
func (e *Engine) CreateReservation(ctx context.Context, actor Actor, placeID uint64, slot Slot) (*model.Reservation, error) {
	if err := authorize(ActionCreateReservation, actor); err != nil {
		return nil, err
	}
	slot, iv, err := e.validateSlot(slot)
	if err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	p, err := e.places.LockTx(ctx, tx, placeID)
	if err != nil {
		return nil, store("lock study place", err)
	}
	if !p.Available {
		return nil, fmt.Errorf("%w: place is not available", ErrForbidden)
	}
	held, err := e.reservations.HasBlockingForUserTx(ctx, tx, placeID, actor.ID)
	if err != nil {
		return nil, store("check existing reservation", err)
	}
	if held {
		return nil, fmt.Errorf("%w: caller already holds a reservation on this place", ErrForbidden)
	}
	busy, err := e.reservations.BusyIntervalsTx(ctx, tx, placeID, slot.Date, 0)
	if err != nil {
		return nil, store("load busy slots", err)
	}
	if !conflict.Admissible(busy, iv) {
		return nil, fmt.Errorf("%w: %s %s-%s", ErrSlotConflict, slot.Date, slot.StartTime, slot.EndTime)
	}
	res := &model.Reservation{
		StudyPlaceID: placeID,
		UserID:       actor.ID,
		Date:         slot.Date,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Status:       model.StatusPending,
	}
	if err := e.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, store("insert reservation", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store("commit", err)
	}
	committed = true
	return res, nil
}

// EditReservation moves an existing reservation to a new slot.  Only
// the requester may edit, only while the reservation is pending or
// confirmed, and the new slot is conflict-checked with the reservation
// itself excluded.  A successful edit always drops the status back to
// pending for re-approval; a conflicting edit leaves the reservation
// untouched.
func (e *Engine) EditReservation(ctx context.Context, actor Actor, reservationID uint64, slot Slot) (*model.Reservation, error) {
	if err := authorize(ActionEditReservation, actor); err != nil {
		return nil, err
	}
	slot, iv, err := e.validateSlot(slot)
	if err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	own, err := e.reservations.GetOwnedTx(ctx, tx, reservationID)
	if err != nil {
		return nil, store("load reservation", err)
	}
	if own.UserID != actor.ID {
		return nil, fmt.Errorf("%w: not the requester", ErrForbidden)
	}
	if !own.Status.Blocks() {
		return nil, fmt.Errorf("%w: cannot edit a %s reservation", ErrInvalidTransition, own.Status)
	}
	if _, err := e.places.LockTx(ctx, tx, own.StudyPlaceID); err != nil {
		return nil, store("lock study place", err)
	}
	busy, err := e.reservations.BusyIntervalsTx(ctx, tx, own.StudyPlaceID, slot.Date, reservationID)
	if err != nil {
		return nil, store("load busy slots", err)
	}
	if !conflict.Admissible(busy, iv) {
		return nil, fmt.Errorf("%w: %s %s-%s", ErrSlotConflict, slot.Date, slot.StartTime, slot.EndTime)
	}
	changed, err := e.reservations.UpdateSlotTx(ctx, tx, reservationID, slot.Date, slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, store("update reservation", err)
	}
	if !changed {
		// The reservation settled between the read above and this
		// write; a cancelled or completed booking must not be pulled
		// back to pending.
		return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}
	if err := tx.Commit(); err != nil {
		return nil, store("commit", err)
	}
	committed = true
	updated := own.Reservation
	updated.Date = slot.Date
	updated.StartTime = slot.StartTime
	updated.EndTime = slot.EndTime
	updated.Status = model.StatusPending
	return &updated, nil
}

// ApproveReservation confirms a pending reservation.  Only the owner
// of the reservation's place may approve, and only from pending.
func (e *Engine) ApproveReservation(ctx context.Context, actor Actor, reservationID uint64) (*model.Reservation, error) {
	return e.decide(ctx, actor, reservationID, model.StatusConfirmed)
}

// RejectReservation cancels a pending or confirmed reservation on the
// owner's behalf, for example when the place is taken offline.
func (e *Engine) RejectReservation(ctx context.Context, actor Actor, reservationID uint64) (*model.Reservation, error) {
	return e.decide(ctx, actor, reservationID, model.StatusCancelled)
}

// decide applies an owner decision as one transition of the approval
// workflow.  The status write is guarded by the status that was read,
// so concurrent decisions serialize on the row and the loser fails
// with ErrInvalidTransition instead of overwriting the winner.
// Approving or rejecting never touches the availability flag of the
// place.
func (e *Engine) decide(ctx context.Context, actor Actor, reservationID uint64, target model.Status) (*model.Reservation, error) {
	if err := authorize(ActionDecideReservation, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	own, err := e.reservations.GetOwnedTx(ctx, tx, reservationID)
	if err != nil {
		return nil, store("load reservation", err)
	}
	if own.OwnerID != actor.ID {
		return nil, fmt.Errorf("%w: not the place owner", ErrForbidden)
	}
	if !own.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, own.Status, target)
	}
	changed, err := e.reservations.SetStatusTx(ctx, tx, reservationID, own.Status, target)
	if err != nil {
		return nil, store("set status", err)
	}
	if !changed {
		// A concurrent decision committed between the read above and
		// this write; its outcome stands.
		return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}
	if err := tx.Commit(); err != nil {
		return nil, store("commit", err)
	}
	committed = true
	res := own.Reservation
	res.Status = target
	e.publishDecision(ctx, own, target)
	return &res, nil
}

// publishDecision emits a reservation.decided event.  Publishing is
// best-effort: the decision is already committed, so a broker failure
// is logged and otherwise ignored.
func (e *Engine) publishDecision(ctx context.Context, own *repository.OwnedReservation, target model.Status) {
	if e.events == nil {
		return
	}
	ev := queue.ReservationDecidedEvent{
		ReservationID: own.ID,
		StudyPlaceID:  own.StudyPlaceID,
		PlaceName:     own.PlaceName,
		RequesterID:   own.UserID,
		OwnerID:       own.OwnerID,
		Date:          own.Date,
		StartTime:     own.StartTime,
		EndTime:       own.EndTime,
		Status:        string(target),
		DecidedAt:     e.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := e.events.ReservationDecided(ctx, ev); err != nil {
		log.Printf("engine: publish %s failed: %v", queue.DecidedQueueName, err)
	}
}

// DeleteReservation removes a reservation.  Permitted for the
// requester and for the owner of the reservation's place, in any
// lifecycle state.  Deletion is idempotent from the caller's point of
// view: retrying after ErrUnavailable is safe.
func (e *Engine) DeleteReservation(ctx context.Context, actor Actor, reservationID uint64) error {
	if err := authorize(ActionDeleteReservation, actor); err != nil {
		return err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	own, err := e.reservations.GetOwnedTx(ctx, tx, reservationID)
	if err != nil {
		return store("load reservation", err)
	}
	if own.UserID != actor.ID && own.OwnerID != actor.ID {
		return fmt.Errorf("%w: neither requester nor place owner", ErrForbidden)
	}
	if err := e.reservations.DeleteTx(ctx, tx, reservationID); err != nil {
		return store("delete reservation", err)
	}
	if err := tx.Commit(); err != nil {
		return store("commit", err)
	}
	committed = true
	return nil
}

// LikeResult is the outcome of a like toggle: the caller's resulting
// state and the total recomputed from the ledger.
type LikeResult struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"total_likes"`
}

// ToggleLike flips the caller's like on a study place.  The unique key
// on (study_place_id, user_id, type) is the structural guard: when two
// toggles race, the loser's insert fails with a duplicate-key error
// and is treated as "already liked" rather than producing a second
// row.  The place row is locked inside the same transaction, so a
// toggle racing a resource delete either finishes before the cascade
// or fails with ErrNotFound; it can never strand a reaction row for a
// deleted place.  The total is always recomputed inside the same
// transaction.
func (e *Engine) ToggleLike(ctx context.Context, actor Actor, placeID uint64) (*LikeResult, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := e.places.LockTx(ctx, tx, placeID); err != nil {
		return nil, store("lock study place", err)
	}
	liked := false
	exists, err := e.reactions.ExistsTx(ctx, tx, placeID, actor.ID, model.ReactionLike)
	if err != nil {
		return nil, store("check like", err)
	}
	if exists {
		if _, err := e.reactions.DeleteTx(ctx, tx, placeID, actor.ID, model.ReactionLike); err != nil {
			return nil, store("delete like", err)
		}
	} else {
		err := e.reactions.InsertTx(ctx, tx, placeID, actor.ID, model.ReactionLike)
		switch {
		case err == nil:
			liked = true
		case repository.IsDuplicateEntry(err):
			// A concurrent toggle won the insert; the like exists,
			// which is what this caller asked for.
			liked = true
		default:
			return nil, store("insert like", err)
		}
	}
	total, err := e.reactions.CountTx(ctx, tx, placeID, model.ReactionLike)
	if err != nil {
		return nil, store("count likes", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store("commit", err)
	}
	committed = true
	return &LikeResult{Liked: liked, TotalLikes: total}, nil
}

// AddComment appends a comment to a study place.  Content that trims
// to nothing is rejected before any write; the stored comment carries
// a server-assigned timestamp.  The place row is locked inside the
// insert transaction so a comment cannot slip in between a cascade
// delete's commit and leave an orphan row.
func (e *Engine) AddComment(ctx context.Context, actor Actor, placeID uint64, content string) (*model.Comment, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store("begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := e.places.LockTx(ctx, tx, placeID); err != nil {
		return nil, store("lock study place", err)
	}
	cm := &model.Comment{StudyPlaceID: placeID, UserID: actor.ID, Content: content}
	if err := e.comments.CreateTx(ctx, tx, cm); err != nil {
		return nil, store("insert comment", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store("commit", err)
	}
	committed = true
	return cm, nil
}

// Counts is the read-only aggregate of a place's social counters,
// recomputed from the store on every call.
type Counts struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// ResourceCounts returns the current like and comment counts for a
// place.  The counts reflect all committed writes at call time; the
// engine keeps no counter caches.
func (e *Engine) ResourceCounts(ctx context.Context, actor Actor, placeID uint64) (*Counts, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	if _, err := e.places.GetByID(ctx, placeID); err != nil {
		return nil, store("load study place", err)
	}
	likes, err := e.reactions.CountLikes(ctx, placeID)
	if err != nil {
		return nil, store("count likes", err)
	}
	comments, err := e.comments.CountByPlace(ctx, placeID)
	if err != nil {
		return nil, store("count comments", err)
	}
	return &Counts{Likes: likes, Comments: comments}, nil
}

// ListResources returns every study place with creator name, social
// counters and the caller's like state, newest first.
func (e *Engine) ListResources(ctx context.Context, actor Actor) ([]repository.PlaceStats, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	out, err := e.places.ListWithStats(ctx, actor.ID)
	if err != nil {
		return nil, store("list study places", err)
	}
	return out, nil
}

// GetResource returns one study place with its social counters.
func (e *Engine) GetResource(ctx context.Context, actor Actor, placeID uint64) (*repository.PlaceStats, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	s, err := e.places.GetWithStats(ctx, placeID, actor.ID)
	if err != nil {
		return nil, store("load study place", err)
	}
	return s, nil
}

// ListComments returns the comments of a place, newest first.
func (e *Engine) ListComments(ctx context.Context, actor Actor, placeID uint64) ([]model.Comment, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	if _, err := e.places.GetByID(ctx, placeID); err != nil {
		return nil, store("load study place", err)
	}
	out, err := e.comments.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, store("list comments", err)
	}
	return out, nil
}

// ListReservationsFor returns the acting user's own reservations.
func (e *Engine) ListReservationsFor(ctx context.Context, actor Actor) ([]repository.ReservationDetail, error) {
	if err := authorize(ActionReact, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	out, err := e.reservations.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, store("list reservations", err)
	}
	return out, nil
}

// ListPendingApprovalsFor returns the pending reservations awaiting a
// decision on places owned by the acting staff member.
func (e *Engine) ListPendingApprovalsFor(ctx context.Context, actor Actor) ([]repository.ReservationDetail, error) {
	return e.listOwned(ctx, actor, model.StatusPending)
}

// ListOwnerReservations returns reservations on the acting staff
// member's places, optionally filtered by status ("" means all).
func (e *Engine) ListOwnerReservations(ctx context.Context, actor Actor, status model.Status) ([]repository.ReservationDetail, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}
	return e.listOwned(ctx, actor, status)
}

func (e *Engine) listOwned(ctx context.Context, actor Actor, status model.Status) ([]repository.ReservationDetail, error) {
	if err := authorize(ActionListApprovals, actor); err != nil {
		return nil, err
	}
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	out, err := e.reservations.ListForOwner(ctx, actor.ID, status)
	if err != nil {
		return nil, store("list owner reservations", err)
	}
	return out, nil
}

// CompleteElapsed marks confirmed reservations whose slot has fully
// elapsed as completed and returns how many were flipped.  It is
// called periodically by the completion sweep in cmd/server and is
// safe to run concurrently with itself.
func (e *Engine) CompleteElapsed(ctx context.Context) (int64, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	now := e.clock.Now().UTC()
	n, err := e.reservations.MarkCompleted(ctx, now.Format(model.DateLayout), now.Format("15:04:05"))
	if err != nil {
		return 0, store("mark completed", err)
	}
	return n, nil
}
