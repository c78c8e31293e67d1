package stake

import (
	"testing"
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPendingRewards(t *testing.T) {
	tests := []struct {
		name      string
		principal types.Amount
		rateBps   uint64
		elapsed   time.Duration
		want      types.Amount
	}{
		{
			name:      "ZeroPrincipal",
			principal: 0,
			rateBps:   800,
			elapsed:   time.Hour,
			want:      0,
		},
		{
			name:      "ZeroElapsed",
			principal: types.CSPR(100),
			rateBps:   800,
			elapsed:   0,
			want:      0,
		},
		{
			name:      "ZeroRate",
			principal: types.CSPR(100),
			rateBps:   0,
			elapsed:   time.Hour,
			want:      0,
		},
		{
			name:      "OneYearAtEightPercent",
			principal: types.CSPR(1),
			rateBps:   800,
			elapsed:   365 * 24 * time.Hour,
			want:      types.Motes(80_000_000),
		},
		{
			name:      "HalfYearAtEightPercent",
			principal: types.CSPR(1),
			rateBps:   800,
			elapsed:   365 * 12 * time.Hour,
			want:      types.Motes(40_000_000),
		},
		{
			name:      "TruncatesFractionalMotes",
			principal: types.Motes(1),
			rateBps:   800,
			elapsed:   time.Hour,
			want:      0,
		},
		{
			name:      "SubSecondElapsedIsZero",
			principal: types.CSPR(1000),
			rateBps:   2000,
			elapsed:   999 * time.Millisecond,
			want:      0,
		},
		{
			name:      "LargePrincipalNoOverflow",
			principal: types.CSPR(1_000_000_000),
			rateBps:   2000,
			elapsed:   365 * 24 * time.Hour,
			want:      types.CSPR(200_000_000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := &Account{Principal: tt.principal, LastUpdate: epoch}
			got := acct.PendingRewards(epoch.Add(tt.elapsed), tt.rateBps)
			if got != tt.want {
				t.Errorf("PendingRewards = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPendingRewardsClockRegression(t *testing.T) {
	acct := &Account{Principal: types.CSPR(100), LastUpdate: epoch}
	if got := acct.PendingRewards(epoch.Add(-time.Hour), 800); got != 0 {
		t.Errorf("expected zero rewards for a clock behind LastUpdate, got %d", got)
	}
}

func TestAccrue(t *testing.T) {
	acct := &Account{Principal: types.CSPR(1), LastUpdate: epoch}
	yearLater := epoch.Add(365 * 24 * time.Hour)

	minted := acct.Accrue(yearLater, 800)
	if minted != types.Motes(80_000_000) {
		t.Fatalf("minted = %d, want %d", minted, types.Motes(80_000_000))
	}
	if acct.Rewards != minted {
		t.Errorf("Rewards = %d, want %d", acct.Rewards, minted)
	}
	if !acct.LastUpdate.Equal(yearLater) {
		t.Errorf("LastUpdate = %v, want %v", acct.LastUpdate, yearLater)
	}

	// A second accrual at the same instant mints nothing.
	if again := acct.Accrue(yearLater, 800); again != 0 {
		t.Errorf("re-accrual at same instant minted %d, want 0", again)
	}
}

func TestAccrueLinearity(t *testing.T) {
	// Accruing in two steps over touching windows equals one accrual over
	// the combined window when no truncation occurs at the boundary.
	rate := uint64(800)
	mid := epoch.Add(100 * 24 * time.Hour)
	end := epoch.Add(200 * 24 * time.Hour)

	split := &Account{Principal: types.CSPR(365), LastUpdate: epoch}
	split.Accrue(mid, rate)
	split.Accrue(end, rate)

	whole := &Account{Principal: types.CSPR(365), LastUpdate: epoch}
	whole.Accrue(end, rate)

	if split.Rewards != whole.Rewards {
		t.Errorf("split accrual %d != whole accrual %d", split.Rewards, whole.Rewards)
	}
}

func TestAccrueAdvancesClockWithoutMinting(t *testing.T) {
	acct := &Account{Principal: 0, LastUpdate: epoch}
	later := epoch.Add(time.Hour)

	if minted := acct.Accrue(later, 800); minted != 0 {
		t.Fatalf("minted %d on zero principal", minted)
	}
	if !acct.LastUpdate.Equal(later) {
		t.Errorf("LastUpdate should advance even when nothing mints")
	}
}

func TestDebit(t *testing.T) {
	tests := []struct {
		name          string
		rewards       types.Amount
		principal     types.Amount
		amount        types.Amount
		wantRewards   types.Amount
		wantPrincipal types.Amount
		wantErr       error
	}{
		{
			name:          "RewardsOnly",
			rewards:       types.Motes(100),
			principal:     types.Motes(500),
			amount:        types.Motes(80),
			wantRewards:   types.Motes(80),
			wantPrincipal: 0,
		},
		{
			name:          "RewardsThenPrincipal",
			rewards:       types.Motes(100),
			principal:     types.Motes(500),
			amount:        types.Motes(120),
			wantRewards:   types.Motes(100),
			wantPrincipal: types.Motes(20),
		},
		{
			name:          "ExactRewards",
			rewards:       types.Motes(100),
			principal:     types.Motes(500),
			amount:        types.Motes(100),
			wantRewards:   types.Motes(100),
			wantPrincipal: 0,
		},
		{
			name:          "ExactBalance",
			rewards:       types.Motes(100),
			principal:     types.Motes(500),
			amount:        types.Motes(600),
			wantRewards:   types.Motes(100),
			wantPrincipal: types.Motes(500),
		},
		{
			name:      "Insufficient",
			rewards:   types.Motes(100),
			principal: types.Motes(500),
			amount:    types.Motes(601),
			wantErr:   ErrInsufficientFunds,
		},
		{
			name:          "ZeroAmountIsNoOp",
			rewards:       types.Motes(100),
			principal:     types.Motes(500),
			amount:        0,
			wantRewards:   0,
			wantPrincipal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := &Account{Rewards: tt.rewards, Principal: tt.principal}
			fromRewards, fromPrincipal, err := acct.Debit(tt.amount)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				// Failed debits must not touch the balances.
				if acct.Rewards != tt.rewards || acct.Principal != tt.principal {
					t.Errorf("failed debit mutated account: rewards %d principal %d", acct.Rewards, acct.Principal)
				}
				return
			}
			if fromRewards != tt.wantRewards {
				t.Errorf("fromRewards = %d, want %d", fromRewards, tt.wantRewards)
			}
			if fromPrincipal != tt.wantPrincipal {
				t.Errorf("fromPrincipal = %d, want %d", fromPrincipal, tt.wantPrincipal)
			}
			if acct.Rewards != tt.rewards.Sub(tt.wantRewards) {
				t.Errorf("remaining rewards = %d", acct.Rewards)
			}
			if acct.Principal != tt.principal.Sub(tt.wantPrincipal) {
				t.Errorf("remaining principal = %d", acct.Principal)
			}
			if acct.RewardsSpent != tt.wantRewards {
				t.Errorf("RewardsSpent = %d, want %d", acct.RewardsSpent, tt.wantRewards)
			}
		})
	}
}
