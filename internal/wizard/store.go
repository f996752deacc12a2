// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wizard

// Store is the form state store: the in-progress answers of one session.
// It is not safe for concurrent use; the owning controller serialises access.
type Store struct {
	answers Answers
}

// NewStore returns a store holding the default answers.
func NewStore() *Store {
	return &Store{answers: DefaultAnswers()}
}

// SetField replaces the named field's value and leaves the others alone.
// Values are not validated here; constraints are advisory (see Step.Check).
// Unknown field names are ignored.
func (s *Store) SetField(f Field, value string) {
	switch f {
	case FieldExamName:
		s.answers.ExamName = value
	case FieldChaptersRemaining:
		s.answers.ChaptersRemaining = value
	case FieldChaptersCompleted:
		s.answers.ChaptersCompleted = value
	case FieldExamDate:
		s.answers.ExamDate = value
	case FieldStudyStyle:
		s.answers.StudyStyle = StudyStyle(value)
	case FieldTargetScore:
		s.answers.TargetScore = value
	}
}

// Answers returns a snapshot of the current answers.
func (s *Store) Answers() Answers {
	return s.answers
}

// Reset restores the default answers.
func (s *Store) Reset() {
	s.answers = DefaultAnswers()
}
