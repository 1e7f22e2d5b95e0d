package repository

import (
	"reflect"
	"testing"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestDecodeAnswers_CurrentRevision(t *testing.T) {
	data := `{"revision":2,"answers":[` +
		`{"selected_index":0,"specify_answer":"abc"},` +
		`{"selected_indices":[1,2],"specify_answer":null},` +
		`{"value":"Sample answer"}]}`

	got, err := decodeAnswers(data)
	if err != nil {
		t.Fatalf("decodeAnswers returned error: %v", err)
	}

	want := []domain.Answer{
		{Kind: domain.AnswerSingleChoice, SelectedIndex: intPtr(0), SpecifyAnswer: strPtr("abc")},
		{Kind: domain.AnswerMultipleChoice, SelectedIndices: []int{1, 2}},
		{Kind: domain.AnswerOpenEnded, Value: strPtr("Sample answer")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeAnswers() = %+v, want %+v", got, want)
	}
}

func TestDecodeAnswers_LegacyBareValues(t *testing.T) {
	data := `[0,[1,2],"Sample answer"]`

	got, err := decodeAnswers(data)
	if err != nil {
		t.Fatalf("decodeAnswers returned error: %v", err)
	}

	want := []domain.Answer{
		{Kind: domain.AnswerSingleChoice, SelectedIndex: intPtr(0)},
		{Kind: domain.AnswerMultipleChoice, SelectedIndices: []int{1, 2}},
		{Kind: domain.AnswerOpenEnded, Value: strPtr("Sample answer")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeAnswers() = %+v, want %+v", got, want)
	}
}

func TestEncodeAnswers_RoundTrip(t *testing.T) {
	answers := []domain.Answer{
		{Kind: domain.AnswerSingleChoice, SelectedIndex: intPtr(3), SpecifyAnswer: strPtr("other")},
		{Kind: domain.AnswerMultipleChoice, SelectedIndices: []int{0, 4}},
		{Kind: domain.AnswerOpenEnded, Value: strPtr("free text")},
	}

	encoded, err := encodeAnswers(answers)
	if err != nil {
		t.Fatalf("encodeAnswers returned error: %v", err)
	}

	decoded, err := decodeAnswers(encoded)
	if err != nil {
		t.Fatalf("decodeAnswers returned error: %v", err)
	}
	if !reflect.DeepEqual(decoded, answers) {
		t.Errorf("round trip = %+v, want %+v", decoded, answers)
	}
}

func TestEncodeAnswers_Empty(t *testing.T) {
	encoded, err := encodeAnswers(nil)
	if err != nil {
		t.Fatalf("encodeAnswers returned error: %v", err)
	}
	if encoded != "" {
		t.Errorf("encodeAnswers(nil) = %q, want empty string", encoded)
	}

	decoded, err := decodeAnswers("")
	if err != nil {
		t.Fatalf("decodeAnswers returned error: %v", err)
	}
	if decoded != nil {
		t.Errorf("decodeAnswers(\"\") = %+v, want nil", decoded)
	}
}

func TestDecodeAnswers_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "garbage", data: "not json"},
		{name: "unknown answer shape", data: `{"revision":2,"answers":[{}]}`},
		{name: "legacy unknown value", data: `[true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeAnswers(tt.data); err == nil {
				t.Error("expected error for invalid answer data")
			}
		})
	}
}
