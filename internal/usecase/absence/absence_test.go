package absence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

// ======================================================
// FIXTURE
// ======================================================

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	store    *repository.GormStore
	notifier *recordingNotifier

	shop    *models.Barbershop
	admin   *models.User
	x, y, z *models.Barber
	service *models.Service
	client  *models.Client

	submit  *SubmitAbsence
	approve *ApproveAbsence
	reject  *RejectAbsence
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := testutil.NewDB(t)
	s := repository.NewGormStore(gdb)
	n := &recordingNotifier{}
	log := zap.NewNop()

	shop := testutil.SeedShop(t, gdb)

	return &fixture{
		db:       gdb,
		store:    s,
		notifier: n,
		shop:     shop,
		admin:    testutil.SeedUser(t, gdb, shop.ID, models.RoleAdmin),
		x:        testutil.SeedBarber(t, gdb, shop.ID, "Xavier", 4.1),
		y:        testutil.SeedBarber(t, gdb, shop.ID, "Yuri", 4.9),
		z:        testutil.SeedBarber(t, gdb, shop.ID, "Zeca", 3.5),
		service:  testutil.SeedService(t, gdb, shop.ID, "Corte", 30),
		client:   testutil.SeedClient(t, gdb, shop.ID, "Maria"),
		submit:   NewSubmitAbsence(s, log, nil),
		approve:  NewApproveAbsence(s, log, nil, n),
		reject:   NewRejectAbsence(s, log, nil, n),
	}
}

func (f *fixture) book(t *testing.T, barber *models.Barber, start time.Time, status string) *models.Booking {
	return testutil.SeedBooking(t, f.db, barber, f.service, f.client, start, status)
}

func (f *fixture) submitFor(t *testing.T, barber *models.Barber, from, to int) *models.Absence {
	t.Helper()

	a, err := f.submit.Execute(context.Background(), SubmitAbsenceInput{
		BarberID:  barber.ID,
		StartDate: testutil.Day(from),
		EndDate:   testutil.Day(to),
		Reason:    "vacation",
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) booking(t *testing.T, id uint) *models.Booking {
	return testutil.Reload[models.Booking](t, f.db, id)
}

func (f *fixture) absence(t *testing.T, id uint) *models.Absence {
	return testutil.Reload[models.Absence](t, f.db, id)
}

func (f *fixture) countAbsences(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.Absence{}).Count(&n).Error)
	return n
}

// ======================================================
// SUBMIT
// ======================================================

func TestSubmitAbsence_SnapshotsAffectedBookings(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(11), 15, 30), "confirmed")

	// fora do conjunto: cancelado, fora do período, outro barbeiro
	f.book(t, f.x, testutil.At(testutil.Day(11), 9, 0), "cancelled")
	f.book(t, f.x, testutil.At(testutil.Day(13), 10, 0), "confirmed")
	f.book(t, f.y, testutil.At(testutil.Day(10), 10, 0), "confirmed")

	a := f.submitFor(t, f.x, 10, 12)

	assert.Equal(t, string(domain.StatePending), a.ApprovalState)
	require.Len(t, a.AffectedBookings, 2)
	assert.Equal(t, b1.ID, a.AffectedBookings[0].BookingID)
	assert.Equal(t, b2.ID, a.AffectedBookings[1].BookingID)
	assert.Equal(t, "Maria", a.AffectedBookings[0].CustomerName)
	assert.Equal(t, "Corte", a.AffectedBookings[0].ServiceName)
	assert.Equal(t, 30, a.AffectedBookings[0].DurationMin)

	stored := f.absence(t, a.ID)
	assert.Len(t, stored.AffectedBookings, 2)
	assert.Equal(t, testutil.Day(10).Format("2006-01-02"), time.Time(stored.StartDate).Format("2006-01-02"))
}

func TestSubmitAbsence_LastMinuteOfEndDateIsAffected(t *testing.T) {
	f := newFixture(t)

	late := f.book(t, f.x, testutil.At(testutil.Day(12), 23, 30), "pending")
	f.book(t, f.x, testutil.At(testutil.Day(13), 0, 0), "pending")

	a := f.submitFor(t, f.x, 10, 12)

	require.Len(t, a.AffectedBookings, 1)
	assert.Equal(t, late.ID, a.AffectedBookings[0].BookingID)
}

func TestSubmitAbsence_StartInPast(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit.Execute(context.Background(), SubmitAbsenceInput{
		BarberID:  f.x.ID,
		StartDate: testutil.Day(-1),
		EndDate:   testutil.Day(2),
		Reason:    "sick_leave",
	})

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "start_in_past", ve.Code)
	assert.Zero(t, f.countAbsences(t))
}

func TestSubmitAbsence_Validation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		from   int
		to     int
		reason string
		code   string
	}{
		{"end before start", 5, 4, "vacation", "invalid_date_range"},
		{"longer than 30 days", 1, 32, "vacation", "absence_too_long"},
		{"unknown reason", 1, 2, "holiday", "invalid_reason"},
		{"missing reason", 1, 2, " ", "missing_reason"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.submit.Execute(context.Background(), SubmitAbsenceInput{
				BarberID:  f.x.ID,
				StartDate: testutil.Day(tc.from),
				EndDate:   testutil.Day(tc.to),
				Reason:    tc.reason,
			})

			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.code, ve.Code)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	assert.Zero(t, f.countAbsences(t))
}

func TestSubmitAbsence_ThirtyDaysIsAllowed(t *testing.T) {
	f := newFixture(t)

	a := f.submitFor(t, f.x, 1, 31)
	assert.NotZero(t, a.ID)
}

func TestSubmitAbsence_UnknownBarber(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit.Execute(context.Background(), SubmitAbsenceInput{
		BarberID:  9999,
		StartDate: testutil.Day(1),
		EndDate:   testutil.Day(2),
		Reason:    "vacation",
	})

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSubmitAbsence_OverlapConflict(t *testing.T) {
	f := newFixture(t)

	first := f.submitFor(t, f.x, 10, 12)

	_, err := f.submit.Execute(context.Background(), SubmitAbsenceInput{
		BarberID:  f.x.ID,
		StartDate: testutil.Day(12),
		EndDate:   testutil.Day(14),
		Reason:    "training",
	})

	var ce *errs.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, first.ID, ce.ExistingID)

	// outro barbeiro no mesmo período não conflita
	f.submitFor(t, f.y, 10, 12)

	// pedido rejeitado libera o período
	_, err = f.reject.Execute(context.Background(), first.ID, f.admin.ID)
	require.NoError(t, err)

	again := f.submitFor(t, f.x, 11, 11)
	assert.NotEqual(t, first.ID, again.ID)
}

// ======================================================
// CONFLICT DETECTOR
// ======================================================

func TestFindAffectedBookings_Idempotent(t *testing.T) {
	f := newFixture(t)

	f.book(t, f.x, testutil.At(testutil.Day(3), 10, 0), "pending")
	f.book(t, f.x, testutil.At(testutil.Day(4), 10, 0), "confirmed")
	f.book(t, f.x, testutil.At(testutil.Day(4), 11, 0), "completed")
	f.book(t, f.x, testutil.At(testutil.Day(4), 12, 0), "no_show")

	d := NewConflictDetector(f.store)
	ctx := context.Background()

	first, err := d.FindAffectedBookings(ctx, f.x.ID, testutil.Day(3), testutil.Day(4))
	require.NoError(t, err)
	second, err := d.FindAffectedBookings(ctx, f.x.ID, testutil.Day(3), testutil.Day(4))
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, ids(first), ids(second))

	_, err = d.FindAffectedBookings(ctx, 4242, testutil.Day(3), testutil.Day(4))
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "barber", nf.Entity)
}

func ids(bookings []models.Booking) []uint {
	out := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

// ======================================================
// APPROVE
// ======================================================

func TestApproveAbsence_ReassignAndReject(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(11), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 12)

	approved, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
		b2.ID: domain.Reject("barber_unavailable", "Cliente avisado por telefone"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StateApproved), approved.ApprovalState)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.admin.ID, *approved.ApprovedBy)
	assert.NotNil(t, approved.DecidedAt)

	got1 := f.booking(t, b1.ID)
	assert.Equal(t, f.y.ID, got1.BarberID)
	assert.Equal(t, "confirmed", got1.Status)
	assert.Equal(t, b1.StartTime.Unix(), got1.StartTime.Unix())
	assert.Equal(t, 2, got1.Version)

	got2 := f.booking(t, b2.ID)
	assert.Equal(t, f.x.ID, got2.BarberID)
	assert.Equal(t, "cancelled", got2.Status)
	assert.Equal(t, "barber_unavailable", got2.CancelReason)
	assert.Equal(t, "Cliente avisado por telefone", got2.CancelNote)
	assert.NotNil(t, got2.CancelledAt)

	stored := f.absence(t, a.ID)
	require.Len(t, stored.Resolutions, 2)
	assert.Equal(t, b1.ID, stored.Resolutions[0].BookingID)
	assert.Equal(t, "reassign", stored.Resolutions[0].Action)
	require.NotNil(t, stored.Resolutions[0].NewBarberID)
	assert.Equal(t, f.y.ID, *stored.Resolutions[0].NewBarberID)
	assert.Equal(t, "reject", stored.Resolutions[1].Action)
	assert.Equal(t, f.admin.ID, stored.Resolutions[1].DecidedBy)

	// snapshot de envio não muda
	require.Len(t, stored.AffectedBookings, 2)
	assert.Equal(t, b1.ID, stored.AffectedBookings[0].BookingID)

	assert.ElementsMatch(t, []string{
		notify.EventBookingReassigned,
		notify.EventBookingCancelled,
		notify.EventAbsenceApproved,
	}, f.notifier.types())
}

func TestApproveAbsence_AllRejectRoundTrip(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(5), 9, 0), "pending")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(5), 14, 0), "confirmed")
	a := f.submitFor(t, f.x, 5, 5)

	approved, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reject("barber_unavailable", ""),
		b2.ID: domain.Reject("barber_unavailable", ""),
	})
	require.NoError(t, err)

	assert.True(t, *domain.ApprovalState(approved.ApprovalState).IsApproved())
	assert.Equal(t, "cancelled", f.booking(t, b1.ID).Status)
	assert.Equal(t, "cancelled", f.booking(t, b2.ID).Status)
}

func TestApproveAbsence_NoAffectedBookings(t *testing.T) {
	f := newFixture(t)

	a := f.submitFor(t, f.x, 5, 6)

	approved, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateApproved), approved.ApprovalState)
	assert.Empty(t, approved.Resolutions)
}

func TestApproveAbsence_IncompleteResolution(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(11), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 12)

	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
	})

	var ie *errs.IncompleteResolutionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []uint{b2.ID}, ie.Missing)

	assert.Equal(t, string(domain.StatePending), f.absence(t, a.ID).ApprovalState)
	assertUnchanged(t, f, b1)
	assertUnchanged(t, f, b2)
	assert.Empty(t, f.notifier.types())
}

func TestApproveAbsence_ConcurrentCallsOneWins(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(11), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 12)

	sets := []map[uint]domain.ResolutionAction{
		{
			b1.ID: domain.Reassign(f.y.ID),
			b2.ID: domain.Reassign(f.y.ID),
		},
		{
			b1.ID: domain.Reject("barber_unavailable", ""),
			b2.ID: domain.Reject("barber_unavailable", ""),
		},
	}

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errc  = make(chan error, len(sets))
	)

	for _, set := range sets {
		wg.Add(1)
		go func(set map[uint]domain.ResolutionAction) {
			defer wg.Done()
			<-start
			_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, set)
			errc <- err
		}(set)
	}

	close(start)
	wg.Wait()
	close(errc)

	var successes, stateErrs int
	for err := range errc {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errs.ErrState):
			stateErrs++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stateErrs)
	assert.Len(t, f.absence(t, a.ID).Resolutions, 2)
}

// Outro admin rejeita entre a leitura do pedido e a reserva: a reserva
// condicional não encontra o pedido pendente e nada é escrito.
func TestApproveAbsence_ClaimLostToOtherDecision(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(11), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 12)

	_, err := f.reject.Execute(context.Background(), a.ID, f.admin.ID)
	require.NoError(t, err)

	approve := NewApproveAbsence(newStaleStore(f.store), zap.NewNop(), nil, f.notifier)
	_, err = approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
		b2.ID: domain.Reject("barber_unavailable", ""),
	})

	var se *errs.StateError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errs.ErrState)
	assert.Equal(t, string(domain.StateRejected), se.Current)

	assertUnchanged(t, f, b1)
	assertUnchanged(t, f, b2)

	stored := f.absence(t, a.ID)
	assert.Equal(t, string(domain.StateRejected), stored.ApprovalState)
	assert.Empty(t, stored.Resolutions)
	assert.Equal(t, []string{notify.EventAbsenceRejected}, f.notifier.types())
}

func TestApproveAbsence_AssignmentConflictRollsBack(t *testing.T) {
	f := newFixture(t)

	// rejeição aplicada primeiro (horário anterior) precisa ser desfeita
	early := f.book(t, f.x, testutil.At(testutil.Day(10), 9, 0), "confirmed")
	b1 := f.book(t, f.x, testutil.At(testutil.Day(11), 10, 0), "confirmed")
	f.book(t, f.y, testutil.At(testutil.Day(11), 10, 0), "confirmed")

	a := f.submitFor(t, f.x, 10, 12)

	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		early.ID: domain.Reject("barber_unavailable", ""),
		b1.ID:    domain.Reassign(f.y.ID),
	})

	var ae *errs.AssignmentConflictError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, b1.ID, ae.BookingID)
	assert.Equal(t, f.y.ID, ae.BarberID)

	assert.Equal(t, string(domain.StatePending), f.absence(t, a.ID).ApprovalState)
	assertUnchanged(t, f, early)
	assertUnchanged(t, f, b1)
}

func TestApproveAbsence_PartialOverlapIsConflict(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	// Y ocupado de 10:15 a 10:45: cruza [10:00, 10:30)
	f.book(t, f.y, testutil.At(testutil.Day(10), 10, 15), "pending")

	a := f.submitFor(t, f.x, 10, 10)

	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
	})

	var ae *errs.AssignmentConflictError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "barber_busy", ae.Reason)

	// encostado (termina às 10:00) não conflita
	f.book(t, f.z, testutil.At(testutil.Day(10), 9, 30), "confirmed")
	_, err = f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.z.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, f.z.ID, f.booking(t, b1.ID).BarberID)
}

func TestApproveAbsence_TwoReassignmentsToSameSlot(t *testing.T) {
	f := newFixture(t)

	// dois agendamentos de X no mesmo horário (dados legados)
	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "pending")

	a := f.submitFor(t, f.x, 10, 10)

	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
		b2.ID: domain.Reassign(f.y.ID),
	})

	var ae *errs.AssignmentConflictError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, b2.ID, ae.BookingID)
	assertUnchanged(t, f, b1)
}

func TestApproveAbsence_TargetRules(t *testing.T) {
	cases := []struct {
		name   string
		target func(f *fixture) uint
		prep   func(t *testing.T, f *fixture)
		reason string
	}{
		{
			name:   "same barber",
			target: func(f *fixture) uint { return f.x.ID },
			reason: "same_barber",
		},
		{
			name:   "inactive barber",
			target: func(f *fixture) uint { return f.z.ID },
			prep: func(t *testing.T, f *fixture) {
				testutil.SetBarberActive(t, f.db, f.z.ID, false)
			},
			reason: "barber_inactive",
		},
		{
			name:   "barber with approved absence",
			target: func(f *fixture) uint { return f.z.ID },
			prep: func(t *testing.T, f *fixture) {
				testutil.SeedAbsence(t, f.db, f.z, testutil.Day(9), testutil.Day(10), "approved")
			},
			reason: "barber_absent",
		},
		{
			name:   "barber from another shop",
			target: func(f *fixture) uint { return 0 },
			reason: "barber_other_barbershop",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
			a := f.submitFor(t, f.x, 10, 10)

			if tc.prep != nil {
				tc.prep(t, f)
			}

			target := tc.target(f)
			if target == 0 {
				other := testutil.SeedShop(t, f.db)
				target = testutil.SeedBarber(t, f.db, other.ID, "Outro", 5).ID
			}

			_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
				b1.ID: domain.Reassign(target),
			})

			var ae *errs.AssignmentConflictError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.reason, ae.Reason)
			assert.Equal(t, b1.ID, ae.BookingID)

			assertUnchanged(t, f, b1)
			assert.Equal(t, string(domain.StatePending), f.absence(t, a.ID).ApprovalState)
		})
	}
}

func TestApproveAbsence_UnknownTargetBarber(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 10)

	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(777),
	})

	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, string(domain.StatePending), f.absence(t, a.ID).ApprovalState)
}

func TestApproveAbsence_InvalidActions(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 10)

	cases := map[string]domain.ResolutionAction{
		"missing_new_barber":        domain.Reassign(0),
		"missing_rejection_reason":  domain.Reject("  ", "nota"),
		"invalid_resolution_action": {Kind: "postpone"},
	}

	for code, action := range cases {
		_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
			b1.ID: action,
		})

		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve, code)
		assert.Equal(t, code, ve.Code)
	}

	assertUnchanged(t, f, b1)
	assert.Equal(t, string(domain.StatePending), f.absence(t, a.ID).ApprovalState)
}

func TestApproveAbsence_LiveSetIsRecomputed(t *testing.T) {
	f := newFixture(t)

	gone := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 12)
	require.Len(t, a.AffectedBookings, 1)

	// depois do envio: um cancelado, outro criado
	require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", gone.ID).
		Updates(map[string]any{"status": "cancelled", "version": 2}).Error)
	fresh := f.book(t, f.x, testutil.At(testutil.Day(11), 16, 0), "pending")

	// decidir só o antigo não basta, e ele nem pertence mais ao conjunto
	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		gone.ID: domain.Reject("barber_unavailable", ""),
	})
	var ie *errs.IncompleteResolutionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []uint{fresh.ID}, ie.Missing)

	// ações para agendamentos fora do conjunto atual são recusadas
	_, err = f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		gone.ID:  domain.Reject("barber_unavailable", ""),
		fresh.ID: domain.Reassign(f.y.ID),
	})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unexpected_resolution", ve.Code)

	_, err = f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		fresh.ID: domain.Reassign(f.y.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, f.y.ID, f.booking(t, fresh.ID).BarberID)
	assert.Equal(t, "cancelled", f.booking(t, gone.ID).Status)
}

func TestApproveAbsence_NotPending(t *testing.T) {
	f := newFixture(t)

	a := f.submitFor(t, f.x, 10, 10)
	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, nil)
	require.NoError(t, err)

	_, err = f.approve.Execute(context.Background(), a.ID, f.admin.ID, nil)
	var se *errs.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "approved", se.Current)

	_, err = f.reject.Execute(context.Background(), a.ID, f.admin.ID)
	assert.ErrorIs(t, err, errs.ErrState)

	_, err = f.approve.Execute(context.Background(), 4040, f.admin.ID, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestApproveAbsence_CancelledContextWritesNothing(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.approve.Execute(ctx, a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assertUnchanged(t, f, b1)
	assert.Equal(t, string(domain.StatePending), f.absence(t, a.ID).ApprovalState)
}

// ======================================================
// REJECT
// ======================================================

func TestRejectAbsence_LeavesBookingsUntouched(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	b2 := f.book(t, f.x, testutil.At(testutil.Day(11), 10, 0), "pending")
	a := f.submitFor(t, f.x, 10, 12)

	rejected, err := f.reject.Execute(context.Background(), a.ID, f.admin.ID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StateRejected), rejected.ApprovalState)
	assert.False(t, *domain.ApprovalState(rejected.ApprovalState).IsApproved())
	require.NotNil(t, rejected.ApprovedBy)
	assert.Equal(t, f.admin.ID, *rejected.ApprovedBy)

	assertUnchanged(t, f, b1)
	assertUnchanged(t, f, b2)
	assert.Equal(t, []string{notify.EventAbsenceRejected}, f.notifier.types())

	_, err = f.reject.Execute(context.Background(), a.ID, f.admin.ID)
	assert.ErrorIs(t, err, errs.ErrState)

	_, err = f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reject("x", ""),
		b2.ID: domain.Reject("x", ""),
	})
	assert.ErrorIs(t, err, errs.ErrState)
}

func TestRejectAbsence_ClaimLostToApproval(t *testing.T) {
	f := newFixture(t)

	b1 := f.book(t, f.x, testutil.At(testutil.Day(10), 10, 0), "confirmed")
	a := f.submitFor(t, f.x, 10, 12)

	_, err := f.approve.Execute(context.Background(), a.ID, f.admin.ID, map[uint]domain.ResolutionAction{
		b1.ID: domain.Reassign(f.y.ID),
	})
	require.NoError(t, err)
	afterApproval := f.booking(t, b1.ID)

	reject := NewRejectAbsence(newStaleStore(f.store), zap.NewNop(), nil, f.notifier)
	_, err = reject.Execute(context.Background(), a.ID, f.admin.ID)

	var se *errs.StateError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errs.ErrState)
	assert.Equal(t, string(domain.StateApproved), se.Current)

	assertUnchanged(t, f, afterApproval)
	assert.Equal(t, string(domain.StateApproved), f.absence(t, a.ID).ApprovalState)
	assert.NotContains(t, f.notifier.types(), notify.EventAbsenceRejected)
}

// ======================================================
// HELPERS
// ======================================================

// staleStore entrega, na primeira leitura do pedido, a cópia pendente que o
// chamador tinha antes de outro admin decidir. As leituras seguintes são reais.
type staleStore struct {
	store.Store
	served *bool
}

func newStaleStore(s store.Store) *staleStore {
	return &staleStore{Store: s, served: new(bool)}
}

func (s *staleStore) Absences() domain.Repository {
	return staleAbsences{Repository: s.Store.Absences(), served: s.served}
}

func (s *staleStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(&staleStore{Store: tx, served: s.served})
	})
}

type staleAbsences struct {
	domain.Repository
	served *bool
}

func (r staleAbsences) GetAbsence(ctx context.Context, id uint) (*models.Absence, error) {
	a, err := r.Repository.GetAbsence(ctx, id)
	if err != nil || *r.served {
		return a, err
	}
	*r.served = true
	a.ApprovalState = string(domain.StatePending)
	return a, nil
}

func assertUnchanged(t *testing.T, f *fixture, before *models.Booking) {
	t.Helper()

	after := f.booking(t, before.ID)
	assert.Equal(t, before.BarberID, after.BarberID, "barber of booking %d", before.ID)
	assert.Equal(t, before.Status, after.Status, "status of booking %d", before.ID)
	assert.Equal(t, before.Version, after.Version, "version of booking %d", before.ID)
	assert.Empty(t, after.CancelReason)
}
