package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// Reconcile rounds every share total to the given number of decimal places
// so that the rounded totals add up to the allocated amount rounded once.
//
// Algorithm (largest remainder):
// - Round the allocated sum to get the target, in minor units
// - Floor each share total to minor units
// - Hand the leftover units, one each, to the shares that lost the most
// - Ties go to the earlier participant
func Reconcile(b *models.Breakdown, places int32) {
	b.Places = places
	b.RoundedAllocated = b.Allocated.Round(places)
	if len(b.Shares) == 0 {
		return
	}

	target := b.RoundedAllocated.Shift(places)
	floors := make([]decimal.Decimal, len(b.Shares))
	remainders := make([]decimal.Decimal, len(b.Shares))
	floorSum := decimal.Zero
	for i, share := range b.Shares {
		scaled := share.Total.Shift(places)
		floors[i] = scaled.Floor()
		remainders[i] = scaled.Sub(floors[i])
		floorSum = floorSum.Add(floors[i])
	}

	order := make([]int, len(b.Shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[c]])
	})

	leftover := target.Sub(floorSum).IntPart()
	for k := 0; k < len(order) && leftover > 0; k++ {
		floors[order[k]] = floors[order[k]].Add(decimal.NewFromInt(1))
		leftover--
	}

	for i := range b.Shares {
		b.Shares[i].RoundedTotal = floors[i].Shift(-places)
	}
}
