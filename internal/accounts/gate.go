package accounts

import (
	"fmt"
	"math"
	"time"
)

// CanGenerate decides whether a new generation request is permitted. Pure
// function of the profile and the clock; subscription state always wins over
// trial state.
func CanGenerate(p *Profile, now time.Time) Decision {
	if p == nil {
		return Decision{Allowed: false, Reason: "unable to verify subscription status"}
	}

	if p.SubscriptionStatus == SubscriptionActive {
		if p.SubscriptionEndDate != nil && !p.SubscriptionEndDate.After(now) {
			return Decision{Allowed: false, Reason: "subscription has expired"}
		}
		return Decision{Allowed: true}
	}

	expiry := TrialExpiry(p.TrialStartDate)
	if now.Before(expiry) {
		// a partial day still counts as a remaining day
		remaining := int(math.Ceil(expiry.Sub(now).Hours() / 24))
		return Decision{Allowed: true, RemainingDays: remaining}
	}

	return Decision{Allowed: false, Reason: fmt.Sprintf("your %d-day free trial has expired - subscription required", TrialDays)}
}

// TrialExpiry is when the free trial window closes for a given start date.
func TrialExpiry(trialStart time.Time) time.Time {
	return trialStart.Add(TrialDays * 24 * time.Hour)
}
