package timeouts

import (
	"testing"
	"time"
)

func TestConfigureOverrides(t *testing.T) {
	defer Reset()

	Configure(Config{Ping: 500 * time.Millisecond, Long: time.Minute})

	if got := Ping(); got != 500*time.Millisecond {
		t.Errorf("Ping() = %v", got)
	}
	if got := Long(); got != time.Minute {
		t.Errorf("Long() = %v", got)
	}
	// Zero values leave the current settings alone.
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() = %v, want default %v", got, DefaultShort)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", got, DefaultMedium)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	Configure(Config{Ping: time.Hour, Short: time.Hour, Medium: time.Hour, Long: time.Hour})
	Reset()

	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium || Long() != DefaultLong {
		t.Errorf("defaults not restored: %v %v %v %v", Ping(), Short(), Medium(), Long())
	}
}
