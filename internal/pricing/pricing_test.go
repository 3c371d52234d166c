package pricing

import "testing"

func TestDynamicPrice_BothMultipliersCapped(t *testing.T) {
	// Perfect reputation and saturated demand compound to 1.5 * 1.5.
	price := DynamicPrice(100, 1.0, 2000)
	if price != 225.00 {
		t.Errorf("expected 225.00, got %f", price)
	}
}

func TestDynamicPrice_NoSignal(t *testing.T) {
	price := DynamicPrice(50, 0, 0)
	if price != 50.00 {
		t.Errorf("expected the base price unchanged, got %f", price)
	}
}

func TestDynamicPrice_ReputationOnly(t *testing.T) {
	price := DynamicPrice(100, 0.5, 0)
	if price != 125.00 {
		t.Errorf("expected 125.00 for reputation 0.5, got %f", price)
	}
}

func TestDynamicPrice_DemandBelowSaturation(t *testing.T) {
	// 500 recent uses: demand multiplier 1.25.
	price := DynamicPrice(100, 0, 500)
	if price != 125.00 {
		t.Errorf("expected 125.00 for 500 recent uses, got %f", price)
	}
}

func TestDynamicPrice_Rounding(t *testing.T) {
	price := DynamicPrice(0.05, 0.333, 10)
	if price != 0.06 {
		t.Errorf("expected 0.06 after rounding, got %f", price)
	}
}

func TestSubscriptionPlans(t *testing.T) {
	plans := SubscriptionPlans(1)

	for _, name := range []string{"basic", "pro", "enterprise"} {
		if _, ok := plans[name]; !ok {
			t.Errorf("missing plan %q", name)
		}
	}

	if plans["basic"].Price != 19.99 || plans["basic"].Requests != 1000 {
		t.Errorf("unexpected basic plan: %+v", plans["basic"])
	}
	if plans["enterprise"].Requests != 0 {
		t.Errorf("expected unlimited enterprise requests, got %d", plans["enterprise"].Requests)
	}
}
