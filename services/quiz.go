package services

import (
	"strings"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type QuestionResult struct {
	QuestionID uint `json:"questionId"`
	Correct    bool `json:"correct"`
	Points     int  `json:"points"`
	Earned     int  `json:"earned"`
}

type QuizResult struct {
	Score       int              `json:"score"`
	Passed      bool             `json:"passed"`
	Earned      int              `json:"earnedPoints"`
	Total       int              `json:"totalPoints"`
	Attempt     int              `json:"attempt"`
	Results     []QuestionResult `json:"results"`
	CurrentStep string           `json:"currentStep"`
}

// NormalizeAnswer trims, lowercases and collapses inner whitespace.
func NormalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsCorrect grades a single question against the submitted values.
func IsCorrect(q *entity.OnboardingQuizQuestion, submitted []string) bool {
	given := nonEmpty(submitted)
	switch q.Type {
	case entity.QuestionSingleChoice:
		return len(given) == 1 && len(q.CorrectAnswers) == 1 && given[0] == q.CorrectAnswers[0]
	case entity.QuestionMultiSelect:
		want := make(map[string]struct{}, len(q.CorrectAnswers))
		for _, a := range q.CorrectAnswers {
			want[a] = struct{}{}
		}
		got := make(map[string]struct{}, len(given))
		for _, a := range given {
			got[a] = struct{}{}
		}
		if len(got) != len(want) || len(want) == 0 {
			return false
		}
		for a := range got {
			if _, ok := want[a]; !ok {
				return false
			}
		}
		return true
	case entity.QuestionOpenText:
		if len(given) == 0 {
			return false
		}
		answer := NormalizeAnswer(strings.Join(given, " "))
		if len(q.CorrectAnswers) == 0 {
			return answer != ""
		}
		for _, accepted := range q.CorrectAnswers {
			if NormalizeAnswer(accepted) == answer {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ScoreQuiz grades every question; unanswered questions earn nothing.
// Score is floor(100 * earned / total).
func ScoreQuiz(questions []entity.OnboardingQuizQuestion, answers map[uint][]string, passingScore int) QuizResult {
	res := QuizResult{Results: make([]QuestionResult, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		points := q.Points
		if points <= 0 {
			points = 1
		}
		qr := QuestionResult{QuestionID: q.ID, Points: points}
		if IsCorrect(q, answers[q.ID]) {
			qr.Correct = true
			qr.Earned = points
		}
		res.Total += points
		res.Earned += qr.Earned
		res.Results = append(res.Results, qr)
	}
	if res.Total > 0 {
		res.Score = res.Earned * 100 / res.Total
	}
	res.Passed = res.Total > 0 && res.Score >= passingScore
	return res
}

// ValidateQuestion checks the answer key against the question type.
func ValidateQuestion(q *entity.OnboardingQuizQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return invalid("Textul întrebării este obligatoriu")
	}
	if q.Points < 0 {
		return invalid("Punctajul nu poate fi negativ")
	}
	switch q.Type {
	case entity.QuestionSingleChoice, entity.QuestionMultiSelect:
		if len(nonEmpty(q.Options)) < 2 {
			return invalid("Întrebările cu variante trebuie să aibă cel puțin 2 opțiuni")
		}
		options := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			options[o] = struct{}{}
		}
		for _, a := range q.CorrectAnswers {
			if _, ok := options[a]; !ok {
				return invalid("Răspunsul corect %q nu este printre opțiuni", a)
			}
		}
		if q.Type == entity.QuestionSingleChoice && len(q.CorrectAnswers) != 1 {
			return invalid("Întrebările cu un singur răspuns trebuie să aibă exact un răspuns corect")
		}
		if q.Type == entity.QuestionMultiSelect && len(q.CorrectAnswers) == 0 {
			return invalid("Întrebările cu mai multe răspunsuri trebuie să aibă cel puțin un răspuns corect")
		}
	case entity.QuestionOpenText:
	default:
		return invalid("Tip de întrebare invalid: %s", q.Type)
	}
	return nil
}
