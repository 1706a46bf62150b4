package draftbag

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBag() *DraftBag {
	return &DraftBag{ID: 1, ClientID: 10, Status: BagStatusOpen}
}

func TestBagStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     BagStatus
		to       BagStatus
		canTrans bool
	}{
		// From OPEN
		{BagStatusOpen, BagStatusReady, true},
		{BagStatusOpen, BagStatusCancelled, true},
		{BagStatusOpen, BagStatusSent, false},
		{BagStatusOpen, BagStatusClosed, false},
		{BagStatusOpen, BagStatusOpen, false},
		// From READY
		{BagStatusReady, BagStatusSent, true},
		{BagStatusReady, BagStatusOpen, true},
		{BagStatusReady, BagStatusClosed, false},
		{BagStatusReady, BagStatusCancelled, false},
		// From SENT
		{BagStatusSent, BagStatusClosed, true},
		{BagStatusSent, BagStatusOpen, true},
		{BagStatusSent, BagStatusReady, false},
		{BagStatusSent, BagStatusCancelled, false},
		// From CLOSED (reopen only)
		{BagStatusClosed, BagStatusOpen, true},
		{BagStatusClosed, BagStatusReady, false},
		{BagStatusClosed, BagStatusSent, false},
		{BagStatusClosed, BagStatusCancelled, false},
		// From CANCELLED (reopen only)
		{BagStatusCancelled, BagStatusOpen, true},
		{BagStatusCancelled, BagStatusReady, false},
		{BagStatusCancelled, BagStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDraftBag_ForwardLifecycle(t *testing.T) {
	bag := openBag()

	require.NoError(t, bag.MarkReady("BR123456789"))
	assert.Equal(t, BagStatusReady, bag.Status)
	require.NotNil(t, bag.TrackingCode)
	assert.Equal(t, "BR123456789", *bag.TrackingCode)
	assert.False(t, bag.CanModifyEntries())

	require.NoError(t, bag.MarkSent())
	assert.Equal(t, BagStatusSent, bag.Status)

	require.NoError(t, bag.MarkClosed())
	assert.Equal(t, BagStatusClosed, bag.Status)
}

func TestDraftBag_MarkReadyWithoutTracking(t *testing.T) {
	bag := openBag()
	require.NoError(t, bag.MarkReady(""))
	assert.Nil(t, bag.TrackingCode)
}

func TestDraftBag_Cancel(t *testing.T) {
	t.Run("cancels from open", func(t *testing.T) {
		bag := openBag()
		require.NoError(t, bag.Cancel())
		assert.Equal(t, BagStatusCancelled, bag.Status)
	})

	t.Run("cannot cancel after ready", func(t *testing.T) {
		bag := openBag()
		require.NoError(t, bag.MarkReady(""))
		assert.Error(t, bag.Cancel())
	})
}

func TestDraftBag_Reopen(t *testing.T) {
	for _, from := range []BagStatus{BagStatusReady, BagStatusSent, BagStatusClosed, BagStatusCancelled} {
		t.Run(string(from), func(t *testing.T) {
			bag := &DraftBag{Status: from}
			require.NoError(t, bag.Reopen())
			assert.Equal(t, BagStatusOpen, bag.Status)
			assert.True(t, bag.CanModifyEntries())
		})
	}

	t.Run("reopening an open bag fails", func(t *testing.T) {
		assert.Error(t, openBag().Reopen())
	})
}

func TestDraftBag_SetStatus(t *testing.T) {
	t.Run("ready via SetStatus attaches tracking", func(t *testing.T) {
		bag := openBag()
		require.NoError(t, bag.SetStatus(BagStatusReady, "TRK-1"))
		require.NotNil(t, bag.TrackingCode)
		assert.Equal(t, "TRK-1", *bag.TrackingCode)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		bag := openBag()
		assert.Error(t, bag.SetStatus(BagStatus("SHIPPED"), ""))
	})

	t.Run("invalid transition rejected", func(t *testing.T) {
		bag := openBag()
		assert.Error(t, bag.SetStatus(BagStatusClosed, ""))
	})
}

func TestEntry_EffectivePrice(t *testing.T) {
	entry := Entry{SalePrice: decimal.NewFromInt(40)}
	assert.True(t, entry.EffectivePrice().Equal(decimal.NewFromInt(40)))

	negotiated := decimal.NewFromInt(35)
	entry.NegotiatedPrice = &negotiated
	assert.True(t, entry.EffectivePrice().Equal(negotiated))
}

func TestDraftBag_FindEntry(t *testing.T) {
	bag := openBag()
	bag.Entries = []Entry{{ItemID: 7}, {ItemID: 9}}

	require.NotNil(t, bag.FindEntry(9))
	assert.Nil(t, bag.FindEntry(99))
}
