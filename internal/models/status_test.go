package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ListingStatus
		to      ListingStatus
		allowed bool
	}{
		{ListingStatusPosted, ListingStatusRequested, true},
		{ListingStatusPosted, ListingStatusExpired, true},
		{ListingStatusPosted, ListingStatusCancelled, true},
		{ListingStatusPosted, ListingStatusConfirmed, false},
		{ListingStatusPosted, ListingStatusCompleted, false},

		{ListingStatusRequested, ListingStatusConfirmed, true},
		{ListingStatusRequested, ListingStatusPosted, true},
		{ListingStatusRequested, ListingStatusExpired, true},
		{ListingStatusRequested, ListingStatusCancelled, true},
		{ListingStatusRequested, ListingStatusCompleted, false},

		{ListingStatusConfirmed, ListingStatusCompleted, true},
		{ListingStatusConfirmed, ListingStatusCancelled, false},
		{ListingStatusConfirmed, ListingStatusExpired, false},

		{ListingStatusCompleted, ListingStatusPosted, false},
		{ListingStatusExpired, ListingStatusPosted, false},
		{ListingStatusCancelled, ListingStatusPosted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestListingStatus_IsTerminal(t *testing.T) {
	assert.False(t, ListingStatusPosted.IsTerminal())
	assert.False(t, ListingStatusRequested.IsTerminal())
	assert.False(t, ListingStatusConfirmed.IsTerminal())
	assert.True(t, ListingStatusCompleted.IsTerminal())
	assert.True(t, ListingStatusExpired.IsTerminal())
	assert.True(t, ListingStatusCancelled.IsTerminal())
}

func TestListingStatus_IsValid(t *testing.T) {
	assert.True(t, ListingStatusPosted.IsValid())
	assert.True(t, ListingStatusCancelled.IsValid())
	assert.False(t, ListingStatus("archived").IsValid())
	assert.False(t, ListingStatus("").IsValid())
}

func TestComplaintStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ComplaintStatus
		to      ComplaintStatus
		allowed bool
	}{
		{ComplaintStatusPending, ComplaintStatusReviewing, true},
		{ComplaintStatusPending, ComplaintStatusResolved, true},
		{ComplaintStatusPending, ComplaintStatusDismissed, true},

		{ComplaintStatusReviewing, ComplaintStatusResolved, true},
		{ComplaintStatusReviewing, ComplaintStatusDismissed, true},
		{ComplaintStatusReviewing, ComplaintStatusPending, false},

		{ComplaintStatusResolved, ComplaintStatusReviewing, false},
		{ComplaintStatusResolved, ComplaintStatusDismissed, false},
		{ComplaintStatusDismissed, ComplaintStatusResolved, false},
		{ComplaintStatusDismissed, ComplaintStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestComplaintStatus_IsTerminal(t *testing.T) {
	assert.False(t, ComplaintStatusPending.IsTerminal())
	assert.False(t, ComplaintStatusReviewing.IsTerminal())
	assert.True(t, ComplaintStatusResolved.IsTerminal())
	assert.True(t, ComplaintStatusDismissed.IsTerminal())
}

func TestRequestStatus_IsValid(t *testing.T) {
	assert.True(t, RequestStatusPending.IsValid())
	assert.True(t, RequestStatusAccepted.IsValid())
	assert.True(t, RequestStatusRejected.IsValid())
	assert.False(t, RequestStatus("withdrawn").IsValid())
}
