package repository

import (
	"bytes"
	"encoding/json"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// Answers are persisted as a revision-tagged JSON string so the stored
// format can evolve without touching the domain model.
//
// Revision 2 (current): {"revision":2,"answers":[{...},{...}]} where each
// answer object carries the keys of its kind (selected_index,
// selected_indices or value, plus optional specify_answer).
//
// Revision 1 (legacy): a bare JSON array of values — an integer for a
// single choice, an integer array for multiple choices, a string for an
// open-ended answer. Migrated to the domain shape on read.

const currentAnswersRevision = 2

type storedAnswersEnvelope struct {
	Revision int            `json:"revision"`
	Answers  []storedAnswer `json:"answers"`
}

type storedAnswer struct {
	SelectedIndex   *int    `json:"selected_index,omitempty"`
	SelectedIndices *[]int  `json:"selected_indices,omitempty"`
	SpecifyAnswer   *string `json:"specify_answer,omitempty"`
	Value           *string `json:"value,omitempty"`
}

func encodeAnswers(answers []domain.Answer) (string, error) {
	if len(answers) == 0 {
		return "", nil
	}

	stored := make([]storedAnswer, 0, len(answers))
	for _, answer := range answers {
		record := storedAnswer{
			SpecifyAnswer: answer.SpecifyAnswer,
		}
		switch answer.Kind {
		case domain.AnswerSingleChoice:
			record.SelectedIndex = answer.SelectedIndex
		case domain.AnswerMultipleChoice:
			indices := answer.SelectedIndices
			if indices == nil {
				indices = []int{}
			}
			record.SelectedIndices = &indices
		case domain.AnswerOpenEnded:
			record.Value = answer.Value
			record.SpecifyAnswer = nil
		default:
			return "", ErrInvalidAnswerData
		}
		stored = append(stored, record)
	}

	data, err := json.Marshal(storedAnswersEnvelope{
		Revision: currentAnswersRevision,
		Answers:  stored,
	})
	if err != nil {
		return "", ErrInvalidAnswerData
	}
	return string(data), nil
}

func decodeAnswers(data string) ([]domain.Answer, error) {
	if data == "" {
		return nil, nil
	}

	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeAnswersRevision1(trimmed)
	}

	var envelope storedAnswersEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, ErrInvalidAnswerData
	}

	answers := make([]domain.Answer, 0, len(envelope.Answers))
	for _, record := range envelope.Answers {
		switch {
		case record.SelectedIndex != nil:
			answers = append(answers, domain.Answer{
				Kind:          domain.AnswerSingleChoice,
				SelectedIndex: record.SelectedIndex,
				SpecifyAnswer: record.SpecifyAnswer,
			})
		case record.SelectedIndices != nil:
			answers = append(answers, domain.Answer{
				Kind:            domain.AnswerMultipleChoice,
				SelectedIndices: *record.SelectedIndices,
				SpecifyAnswer:   record.SpecifyAnswer,
			})
		case record.Value != nil:
			answers = append(answers, domain.Answer{
				Kind:  domain.AnswerOpenEnded,
				Value: record.Value,
			})
		default:
			return nil, ErrInvalidAnswerData
		}
	}
	return answers, nil
}

func decodeAnswersRevision1(data []byte) ([]domain.Answer, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrInvalidAnswerData
	}

	answers := make([]domain.Answer, 0, len(raw))
	for _, item := range raw {
		var index int
		if err := json.Unmarshal(item, &index); err == nil {
			answers = append(answers, domain.Answer{
				Kind:          domain.AnswerSingleChoice,
				SelectedIndex: &index,
			})
			continue
		}

		var indices []int
		if err := json.Unmarshal(item, &indices); err == nil {
			answers = append(answers, domain.Answer{
				Kind:            domain.AnswerMultipleChoice,
				SelectedIndices: indices,
			})
			continue
		}

		var value string
		if err := json.Unmarshal(item, &value); err == nil {
			answers = append(answers, domain.Answer{
				Kind:  domain.AnswerOpenEnded,
				Value: &value,
			})
			continue
		}

		return nil, ErrInvalidAnswerData
	}
	return answers, nil
}
