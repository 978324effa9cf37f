package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Safety.validate(); err != nil {
		return fmt.Errorf("safety: %w", err)
	}

	return nil
}

func (s *SafetyConfig) validate() error {
	if s.HoldTicks < 1 {
		return fmt.Errorf("hold_ticks must be >= 1 (got %d)", s.HoldTicks)
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be > 0 (got %v)", s.TickInterval)
	}
	if s.LocationTimeout <= 0 {
		return fmt.Errorf("location_timeout must be > 0 (got %v)", s.LocationTimeout)
	}
	if s.ResolveNoteMaxLen < 1 {
		return fmt.Errorf("resolve_note_max_len must be >= 1 (got %d)", s.ResolveNoteMaxLen)
	}
	if s.ChecklistNoteMaxLen < 1 {
		return fmt.Errorf("checklist_note_max_len must be >= 1 (got %d)", s.ChecklistNoteMaxLen)
	}
	return nil
}
