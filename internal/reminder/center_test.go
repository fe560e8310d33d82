package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextFireAfter(t *testing.T) {
	trigger := CalendarTrigger{Hour: 9, Minute: 15, Repeats: true}
	loc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"earlier today", time.Date(2024, 5, 1, 8, 0, 0, 0, loc), time.Date(2024, 5, 1, 9, 15, 0, 0, loc)},
		{"exactly now", time.Date(2024, 5, 1, 9, 15, 0, 0, loc), time.Date(2024, 5, 2, 9, 15, 0, 0, loc)},
		{"later today", time.Date(2024, 5, 1, 22, 0, 0, 0, loc), time.Date(2024, 5, 2, 9, 15, 0, 0, loc)},
		{"month end", time.Date(2024, 5, 31, 23, 0, 0, 0, loc), time.Date(2024, 6, 1, 9, 15, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trigger.NextFireAfter(tt.now))
		})
	}
}

func TestAuthorizationStatusRoundTrip(t *testing.T) {
	for _, s := range []AuthorizationStatus{
		StatusNotDetermined, StatusDenied, StatusAuthorized, StatusProvisional, StatusEphemeral,
	} {
		assert.Equal(t, s, ParseAuthorizationStatus(s.String()))
	}
	assert.Equal(t, StatusNotDetermined, ParseAuthorizationStatus("garbage"))
}

func TestMainQueue(t *testing.T) {
	q := NewMainQueue(3)
	var order []int
	for i := 1; i <= 3; i++ {
		q.Dispatch(func() { order = append(order, i) })
	}

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, q.Drain())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, q.Next(ctx))

	ran := make(chan struct{})
	q.Dispatch(func() { close(ran) })
	ctx, cancel = context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		q.Run(ctx)
	}()
	<-ran
	cancel()
	<-done
}
