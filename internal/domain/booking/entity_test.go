package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

func futureBooking(status Status) *models.Booking {
	start := time.Now().Add(24 * time.Hour)
	return &models.Booking{
		ID:            1,
		Status:        string(status),
		StartDateTime: start,
		EndDateTime:   start.Add(30 * time.Minute),
	}
}

func TestAcceptAssignsProviderAndClearsHold(t *testing.T) {
	b := futureBooking(StatusOnHold)
	until := time.Now().Add(5 * time.Minute)
	b.OnHoldUntil = &until

	require.NoError(t, Accept(b, 3))

	assert.Equal(t, string(StatusAccepted), b.Status)
	require.NotNil(t, b.ServiceProviderID)
	assert.Equal(t, uint(3), *b.ServiceProviderID)
	assert.Nil(t, b.OnHoldUntil)
}

func TestAcceptRefusedFromTerminalState(t *testing.T) {
	b := futureBooking(StatusCancelled)
	err := Accept(b, 3)

	assert.True(t, httperr.IsBusiness(err, "booking_not_acceptable"))
	assert.Equal(t, string(StatusCancelled), b.Status)
	assert.Nil(t, b.ServiceProviderID)
}

func TestCancelRefusesPastBooking(t *testing.T) {
	b := futureBooking(StatusAccepted)
	pid := uint(2)
	b.ServiceProviderID = &pid

	now := b.StartDateTime.Add(time.Hour)
	err := Cancel(b, now)

	assert.True(t, httperr.IsBusiness(err, "booking_in_the_past"))
	assert.Equal(t, string(StatusAccepted), b.Status)
}

func TestCancelFutureBooking(t *testing.T) {
	b := futureBooking(StatusAccepted)

	require.NoError(t, Cancel(b, time.Now()))
	assert.Equal(t, string(StatusCancelled), b.Status)
}

func TestMarkOnHoldAndRelease(t *testing.T) {
	b := futureBooking(StatusPendingApproval)
	until := time.Now().Add(5 * time.Minute)

	MarkOnHold(b, until)
	assert.Equal(t, string(StatusOnHold), b.Status)
	require.NotNil(t, b.OnHoldUntil)
	assert.True(t, b.OnHoldUntil.Equal(until))

	require.NoError(t, ReleaseHold(b))
	assert.Equal(t, string(StatusPendingApproval), b.Status)
	assert.Nil(t, b.OnHoldUntil)
}

func TestReleaseHoldRequiresOnHold(t *testing.T) {
	b := futureBooking(StatusAccepted)
	assert.Error(t, ReleaseHold(b))
}

func TestStartRescheduleClearsProviderAndResetsStatus(t *testing.T) {
	b := futureBooking(StatusAccepted)
	pid := uint(5)
	b.ServiceProviderID = &pid

	newStart := b.StartDateTime.Add(2 * time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	require.NoError(t, StartReschedule(b, newStart, newEnd))

	assert.Equal(t, string(StatusPendingApproval), b.Status)
	assert.Nil(t, b.ServiceProviderID)
	assert.True(t, b.StartDateTime.Equal(newStart))
	assert.True(t, b.EndDateTime.Equal(newEnd))
}

func TestStartRescheduleRefusedFromOnHold(t *testing.T) {
	b := futureBooking(StatusOnHold)

	err := StartReschedule(b, b.StartDateTime, b.EndDateTime)
	assert.True(t, httperr.IsBusiness(err, "booking_not_reschedulable"))
}
