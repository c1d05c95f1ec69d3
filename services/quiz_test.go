package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

func question(id uint, typ string, points int, options, correct []string) entity.OnboardingQuizQuestion {
	q := entity.OnboardingQuizQuestion{
		Type:           typ,
		Question:       "Q",
		Options:        datatypes.JSONSlice[string](options),
		CorrectAnswers: datatypes.JSONSlice[string](correct),
		Points:         points,
	}
	q.ID = id
	return q
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "zona de echipare", NormalizeAnswer("  Zona   DE\techipare \n"))
	assert.Equal(t, "", NormalizeAnswer("   "))
}

func TestIsCorrect(t *testing.T) {
	single := question(1, entity.QuestionSingleChoice, 1, []string{"12", "24", "36"}, []string{"24"})
	multi := question(2, entity.QuestionMultiSelect, 1, []string{"a", "b", "c"}, []string{"a", "c"})
	open := question(3, entity.QuestionOpenText, 1, nil, []string{"Vestiar", "zona de echipare"})
	free := question(4, entity.QuestionOpenText, 1, nil, nil)

	tests := []struct {
		name string
		q    entity.OnboardingQuizQuestion
		in   []string
		want bool
	}{
		{"single exact", single, []string{"24"}, true},
		{"single wrong", single, []string{"12"}, false},
		{"single two values", single, []string{"24", "12"}, false},
		{"single empty", single, nil, false},
		{"multi same set", multi, []string{"c", "a"}, true},
		{"multi duplicate values", multi, []string{"a", "c", "a"}, true},
		{"multi subset", multi, []string{"a"}, false},
		{"multi superset", multi, []string{"a", "b", "c"}, false},
		{"open normalized", open, []string{"  ZONA de   Echipare "}, true},
		{"open other accepted", open, []string{"vestiar"}, true},
		{"open wrong", open, []string{"recepție"}, false},
		{"open blank", open, []string{"   "}, false},
		{"open without key accepts any text", free, []string{"orice"}, true},
		{"open without key rejects blank", free, []string{""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(&tt.q, tt.in))
		})
	}
}

func TestScoreQuiz(t *testing.T) {
	qs := []entity.OnboardingQuizQuestion{
		question(1, entity.QuestionSingleChoice, 1, []string{"x", "y"}, []string{"x"}),
		question(2, entity.QuestionMultiSelect, 2, []string{"a", "b"}, []string{"a", "b"}),
		question(3, entity.QuestionOpenText, 0, nil, []string{"ok"}),
	}

	res := ScoreQuiz(qs, map[uint][]string{1: {"x"}, 2: {"a", "b"}}, 80)
	// 3 of 4 points -> 75
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, res.Earned)
	assert.Equal(t, 75, res.Score)
	assert.False(t, res.Passed)
	assert.Len(t, res.Results, 3)
	assert.False(t, res.Results[2].Correct)
	assert.Equal(t, 1, res.Results[2].Points)

	res = ScoreQuiz(qs, map[uint][]string{1: {"x"}, 3: {"OK"}}, 50)
	// 2 of 4 -> 50, passes at exactly the threshold
	assert.Equal(t, 50, res.Score)
	assert.True(t, res.Passed)

	three := []entity.OnboardingQuizQuestion{
		question(1, entity.QuestionOpenText, 1, nil, nil),
		question(2, entity.QuestionOpenText, 1, nil, nil),
		question(3, entity.QuestionOpenText, 1, nil, nil),
	}
	res = ScoreQuiz(three, map[uint][]string{1: {"a"}, 2: {"b"}}, 67)
	assert.Equal(t, 66, res.Score, "score is floored")
	assert.False(t, res.Passed)

	empty := ScoreQuiz(nil, nil, 0)
	assert.Zero(t, empty.Score)
	assert.False(t, empty.Passed)
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		q       entity.OnboardingQuizQuestion
		wantErr bool
	}{
		{"valid single", question(0, entity.QuestionSingleChoice, 1, []string{"a", "b"}, []string{"a"}), false},
		{"single needs one answer", question(0, entity.QuestionSingleChoice, 1, []string{"a", "b"}, []string{"a", "b"}), true},
		{"single too few options", question(0, entity.QuestionSingleChoice, 1, []string{"a"}, []string{"a"}), true},
		{"answer outside options", question(0, entity.QuestionMultiSelect, 1, []string{"a", "b"}, []string{"c"}), true},
		{"multi without answer", question(0, entity.QuestionMultiSelect, 1, []string{"a", "b"}, nil), true},
		{"valid multi", question(0, entity.QuestionMultiSelect, 1, []string{"a", "b"}, []string{"a", "b"}), false},
		{"open text free", question(0, entity.QuestionOpenText, 1, nil, nil), false},
		{"unknown type", question(0, "essay", 1, nil, nil), true},
		{"negative points", question(0, entity.QuestionOpenText, -1, nil, nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(&tt.q)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
