// Package entitlement turns net revenue, a platform fee rate, and a frozen
// balance snapshot into a per-holder distribution plan that conserves the
// revenue exactly under integer division.
package entitlement

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/sunyield-coop/libsunyield-go/ledger"
)

// FeeDenominator is the basis-point denominator: 10000 bps = 100%.
const FeeDenominator = 10000

// Entry is one holder's amount in a distribution plan.
type Entry struct {
	Holder ledger.HolderID
	Amount uint64
}

// Plan is a distribution plan, sorted by holder id bytes. Zero-amount
// holders are omitted.
type Plan []Entry

// Sum returns the total amount across all entries.
func (p Plan) Sum() uint64 {
	var total uint64
	for _, e := range p {
		total += e.Amount
	}
	return total
}

// Amount returns the planned amount for a holder, zero if absent.
func (p Plan) Amount(holder ledger.HolderID) uint64 {
	for _, e := range p {
		if e.Holder == holder {
			return e.Amount
		}
	}
	return 0
}

// Compute produces the distribution plan for one epoch.
//
// The platform fee base is floor(revenue * rateBps / 10000). Every holder
// receives floor(remaining * balance / totalSupply). The floor-division
// remainder, together with the fee base, is credited to the treasury
// holder on top of its own proportional share. All intermediates use
// 128-bit arithmetic, so the result is exact for any uint64 inputs.
//
// The conservation postcondition (plan sums to revenue) is checked, not
// assumed.
func Compute(revenue uint64, rateBps uint32, treasury ledger.HolderID, balances map[ledger.HolderID]uint64, totalSupply uint64) (Plan, error) {
	if revenue == 0 {
		return nil, ErrZeroRevenue
	}
	if totalSupply == 0 {
		return nil, ErrZeroTotalSupply
	}
	if rateBps > FeeDenominator {
		return nil, fmt.Errorf("%w: %d", ErrRateOutOfRange, rateBps)
	}

	var balanceSum uint64
	for _, b := range balances {
		if b > totalSupply-balanceSum {
			return nil, fmt.Errorf("%w: supply %d", ErrBalancesExceedSupply, totalSupply)
		}
		balanceSum += b
	}

	treasuryBase := mulDiv(revenue, uint64(rateBps), FeeDenominator)
	remaining := revenue - treasuryBase

	amounts := make(map[ledger.HolderID]uint64, len(balances)+1)
	var distributed uint64
	for holder, balance := range balances {
		share := mulDiv(remaining, balance, totalSupply)
		amounts[holder] = share
		distributed += share
	}

	remainder := remaining - distributed
	amounts[treasury] += treasuryBase + remainder

	plan := make(Plan, 0, len(amounts))
	for holder, amount := range amounts {
		if amount == 0 {
			continue
		}
		plan = append(plan, Entry{Holder: holder, Amount: amount})
	}
	sort.Slice(plan, func(i, j int) bool {
		return lessHolder(plan[i].Holder, plan[j].Holder)
	})

	if got := plan.Sum(); got != revenue {
		return nil, fmt.Errorf("%w: plan=%d revenue=%d", ErrConservationViolation, got, revenue)
	}
	return plan, nil
}

// mulDiv computes floor(a*b/div) with a 128-bit intermediate. Requires
// b <= div, which every caller guarantees.
func mulDiv(a, b, div uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, div)
	return q
}

// lessHolder orders holder ids by their bytes.
func lessHolder(a, b ledger.HolderID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
