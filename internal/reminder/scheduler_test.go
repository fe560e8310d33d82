package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/reminder"
	"github.com/nhle/portfolio/tests/testutil"
)

func garden() model.Project {
	return model.Project{
		ID:           "garden",
		Title:        "Garden",
		Detail:       "weekly chores",
		ReminderTime: &model.TimeOfDay{Hour: 7, Minute: 30},
	}
}

func TestEnableNotDeterminedGranted(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	s := reminder.NewScheduler(center)

	ok, err := s.Enable(context.Background(), garden())
	require.NoError(t, err)
	assert.True(t, ok)

	auth, adds := center.Counts()
	assert.Equal(t, 1, auth)
	assert.Equal(t, 1, adds)

	req, found := center.Pending()[garden().URI()]
	require.True(t, found)
	assert.Equal(t, reminder.CalendarTrigger{Hour: 7, Minute: 30, Repeats: true}, req.Trigger)
	assert.Equal(t, "Garden", req.Content.Title)
	assert.Equal(t, "weekly chores", req.Content.Subtitle)
	assert.True(t, req.Content.Sound)
}

func TestEnableNotDeterminedRefused(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	center.Grant = false
	s := reminder.NewScheduler(center)

	ok, err := s.Enable(context.Background(), garden())
	assert.False(t, ok)
	assert.ErrorIs(t, err, reminder.ErrPermissionDenied)
	assert.Empty(t, center.Pending())
}

func TestEnableAuthorizedSkipsPrompt(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusAuthorized)
	s := reminder.NewScheduler(center)

	ok, err := s.Enable(context.Background(), garden())
	require.NoError(t, err)
	assert.True(t, ok)

	auth, adds := center.Counts()
	assert.Zero(t, auth)
	assert.Equal(t, 1, adds)
}

func TestEnableOtherStatusesPlaceNothing(t *testing.T) {
	for _, status := range []reminder.AuthorizationStatus{
		reminder.StatusDenied,
		reminder.StatusProvisional,
		reminder.StatusEphemeral,
	} {
		t.Run(status.String(), func(t *testing.T) {
			center := testutil.NewFakeCenter(status)
			s := reminder.NewScheduler(center)

			ok, err := s.Enable(context.Background(), garden())
			require.NoError(t, err)
			assert.False(t, ok)

			auth, adds := center.Counts()
			assert.Zero(t, auth)
			assert.Zero(t, adds)
		})
	}
}

func TestEnablePlacementFailure(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusAuthorized)
	center.AddErr = errors.New("queue full")
	s := reminder.NewScheduler(center)

	ok, err := s.Enable(context.Background(), garden())
	assert.False(t, ok)
	assert.ErrorIs(t, err, center.AddErr)
}

func TestEnableReplacesPreviousRequest(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusAuthorized)
	s := reminder.NewScheduler(center)
	ctx := context.Background()
	p := garden()

	_, err := s.Enable(ctx, p)
	require.NoError(t, err)
	p.ReminderTime = &model.TimeOfDay{Hour: 21, Minute: 0}
	_, err = s.Enable(ctx, p)
	require.NoError(t, err)

	pending := center.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 21, pending[p.URI()].Trigger.Hour)
}

func TestConcurrentEnableSharesOnePrompt(t *testing.T) {
	defer goleak.VerifyNone(t)

	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	center.Gate = make(chan struct{})
	s := reminder.NewScheduler(center)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.Enable(context.Background(), garden())
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}

	require.Eventually(t, func() bool {
		auth, _ := center.Counts()
		return auth == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(center.Gate)
	wg.Wait()

	assert.Equal(t, []bool{true, true}, results)
	auth, _ := center.Counts()
	assert.Equal(t, 1, auth)
	assert.Len(t, center.Pending(), 1)
}

func TestEnableTimeout(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	center.Gate = make(chan struct{})
	defer close(center.Gate)
	s := reminder.NewScheduler(center, reminder.WithTimeout(50*time.Millisecond))

	ok, err := s.Enable(context.Background(), garden())
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, center.Pending())
}

func TestDisableIsIdempotent(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusAuthorized)
	s := reminder.NewScheduler(center)
	ctx := context.Background()

	s.Disable(ctx, garden())

	_, err := s.Enable(ctx, garden())
	require.NoError(t, err)
	s.Disable(ctx, garden())
	s.Disable(ctx, garden())
	assert.Empty(t, center.Pending())
}

func TestEnableAsyncCompletesOnMainQueue(t *testing.T) {
	defer goleak.VerifyNone(t)

	queue := reminder.NewMainQueue(4)
	center := testutil.NewFakeCenter(reminder.StatusAuthorized)
	s := reminder.NewScheduler(center, reminder.WithDispatcher(queue))

	calls := 0
	var got bool
	task := s.EnableAsync(context.Background(), garden(), func(ok bool) {
		calls++
		got = ok
	})

	ok, err := task.Wait()
	require.NoError(t, err)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.True(t, queue.Next(ctx))
	assert.Equal(t, 1, calls)
	assert.True(t, got)
	assert.Zero(t, queue.Drain(), "completion must run exactly once")
}

func TestEnableAsyncInline(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusDenied)
	s := reminder.NewScheduler(center)

	results := make(chan bool, 2)
	task := s.EnableAsync(context.Background(), garden(), func(ok bool) { results <- ok })
	<-task.Done()

	select {
	case ok := <-results:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("completion never ran")
	}
	select {
	case <-results:
		t.Fatal("completion ran twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEnableAsyncCancel(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	center.Gate = make(chan struct{})
	s := reminder.NewScheduler(center)

	completed := make(chan bool, 1)
	task := s.EnableAsync(context.Background(), garden(), func(ok bool) { completed <- ok })
	require.Eventually(t, func() bool {
		auth, _ := center.Counts()
		return auth == 1
	}, time.Second, 5*time.Millisecond)

	task.Cancel()
	ok, err := task.Wait()
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, <-completed)

	// The placement is detached from the cancelled caller and still
	// happens once permission arrives.
	close(center.Gate)
	require.Eventually(t, func() bool {
		return len(center.Pending()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRequestFor(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	req := reminder.RequestFor(garden(), now)
	assert.Equal(t, garden().URI(), req.ID)
	assert.Equal(t, 7, req.Trigger.Hour)
	assert.Equal(t, 30, req.Trigger.Minute)

	req = reminder.RequestFor(model.Project{ID: "x"}, now)
	assert.Equal(t, reminder.CalendarTrigger{Hour: 14, Minute: 5, Repeats: true}, req.Trigger)
	assert.Equal(t, "New Project", req.Content.Title)
}

func TestEnableUsesClockWithoutReminderTime(t *testing.T) {
	center := testutil.NewFakeCenter(reminder.StatusAuthorized)
	clock := func() time.Time { return time.Date(2024, 1, 1, 18, 45, 0, 0, time.UTC) }
	s := reminder.NewScheduler(center, reminder.WithClock(clock))

	p := model.Project{ID: "bare"}
	_, err := s.Enable(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 18, center.Pending()[p.URI()].Trigger.Hour)
	assert.Equal(t, 45, center.Pending()[p.URI()].Trigger.Minute)
}

// awaitPrompt waits until the center has been asked for permission.
func awaitPrompt(t *testing.T, center *testutil.FakeCenter) {
	t.Helper()
	require.Eventually(t, func() bool {
		auth, _ := center.Counts()
		return auth == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDisableWhileAwaitingPermission(t *testing.T) {
	defer goleak.VerifyNone(t)

	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	center.Gate = make(chan struct{})
	s := reminder.NewScheduler(center)
	ctx := context.Background()

	task := s.EnableAsync(ctx, garden(), nil)
	awaitPrompt(t, center)

	s.Disable(ctx, garden())
	close(center.Gate)

	ok, err := task.Wait()
	require.NoError(t, err)
	assert.False(t, ok, "a disable made after the enable must win")
	assert.Empty(t, center.Pending())

	// A fresh enable after the disable places again.
	ok, err = s.Enable(ctx, garden())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, center.Pending(), 1)
}

func TestReenableWithNewTimeWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	center := testutil.NewFakeCenter(reminder.StatusNotDetermined)
	center.Gate = make(chan struct{})
	s := reminder.NewScheduler(center)
	ctx := context.Background()

	morning := garden()
	morning.ReminderTime = &model.TimeOfDay{Hour: 9, Minute: 0}
	first := s.EnableAsync(ctx, morning, nil)
	awaitPrompt(t, center)

	later := garden()
	later.ReminderTime = &model.TimeOfDay{Hour: 10, Minute: 0}
	second := s.EnableAsync(ctx, later, nil)
	time.Sleep(20 * time.Millisecond)
	close(center.Gate)

	_, err := first.Wait()
	require.NoError(t, err)
	ok, err := second.Wait()
	require.NoError(t, err)
	assert.True(t, ok)

	auth, _ := center.Counts()
	assert.Equal(t, 1, auth)
	pending := center.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 10, pending[later.URI()].Trigger.Hour)
}
