package encounter

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/game/session"
)

// penalize charges repair bills in one deduplicated pass: runners always pay
// a flat third of their balance, and on a party loss every other participant
// pays a share scaled by their rebirth count. Dexterity softens the bill.
// Nobody is charged twice, and a bill never exceeds the balance.
func (r *Resolver) penalize(ctx context.Context, res *resolution, lost bool) []Loss {
	var losses []Loss
	charged := make(map[string]bool)

	charge := func(userID string, partyLoss bool) {
		if charged[userID] {
			return
		}
		c, ok := res.chars[userID]
		if !ok {
			return
		}
		bal, err := r.ledger.Balance(ctx, userID)
		if err != nil {
			r.log.Error("reading balance for penalty", zap.String("user", userID), zap.Error(err))
			return
		}
		if bal <= 0 {
			return
		}
		mult := 1.0 / 3
		if partyLoss && c.Rebirths < 10 {
			mult = 0.01
		}
		loss := roundHalfEven(float64(bal) * mult / dexFactor(c.RawDex()))
		if loss > bal {
			loss = bal
		}
		if err := r.ledger.Withdraw(ctx, userID, loss); err != nil {
			r.log.Error("withdrawing penalty", zap.String("user", userID), zap.Error(err))
			return
		}
		charged[userID] = true
		losses = append(losses, Loss{UserID: userID, Amount: loss})
	}

	for _, id := range res.list(session.ActionRun) {
		charge(id, false)
	}
	if lost {
		for _, id := range res.participants() {
			charge(id, true)
		}
	}
	return losses
}

// dexFactor is the repair-bill divisor: nimble characters pay less, clumsy
// (negative dexterity) characters pay in full.
func dexFactor(dex int) float64 {
	if dex < 0 {
		f := 1 / math.Abs(float64(dex))
		if f > 1 {
			f = 1
		}
		return f
	}
	f := float64(dex / 10)
	if f < 1 {
		f = 1
	}
	return f
}
