package httpapi

import "testing"

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetRouteTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	SetRouteTimeoutSeconds(-5)
	if routeTimeout != 0 {
		t.Fatalf("expected 0, got %d", routeTimeout)
	}
	SetRouteTimeoutSeconds(3)
	if routeTimeout != 3 {
		t.Fatalf("expected 3, got %d", routeTimeout)
	}
	SetRouteTimeoutSeconds(0)
}

func TestSetDefaultMaxIdleMinutes(t *testing.T) {
	defer SetDefaultMaxIdleMinutes(30)
	SetDefaultMaxIdleMinutes(0)
	if defaultMaxIdleMinutes != 30 {
		t.Fatalf("expected default 30, got %d", defaultMaxIdleMinutes)
	}
	SetDefaultMaxIdleMinutes(10)
	if defaultMaxIdleMinutes != 10 {
		t.Fatalf("expected 10, got %d", defaultMaxIdleMinutes)
	}
}
