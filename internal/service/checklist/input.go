package checklist

import (
	"fmt"
	"unicode/utf8"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

func (s *Service) validateNotes(notes *string) error {
	if notes == nil {
		return nil
	}
	if utf8.RuneCountInString(*notes) > s.noteMaxLen {
		return domain.NewValidationError("notes",
			fmt.Sprintf("must be at most %d characters", s.noteMaxLen))
	}
	return nil
}
