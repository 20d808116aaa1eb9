package minigame

import (
	"fmt"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/meter"
)

// QuizEcosystemGain is the ecosystem bonus for a correct answer.
const QuizEcosystemGain = 20

// Quiz tracks progress through the question list. Selected is -1 until the
// current question has been answered.
type Quiz struct {
	Index       int         `json:"index"`
	Total       int         `json:"total"`
	Selected    int         `json:"selected"`
	LastCorrect bool        `json:"last_correct"`
	Score       int         `json:"score"`
	Lives       int         `json:"lives"`
	Ecosystem   meter.Meter `json:"ecosystem"`
	Finished    bool        `json:"finished"`
}

// NewQuiz starts a quiz over total questions.
func NewQuiz(total int) *Quiz {
	return &Quiz{Total: total, Selected: -1, Lives: StartLives}
}

// Answered reports whether the current question has a selection.
func (q *Quiz) Answered() bool {
	return q.Selected >= 0
}

// Answer selects option for the current question. The question passed in
// must be the one at q.Index.
func (q *Quiz) Answer(question content.Question, option int) (bool, error) {
	if q.Finished {
		return false, ErrFinished
	}
	if q.Answered() {
		return false, fmt.Errorf("%w: question %d", ErrAlreadyAnswered, q.Index)
	}
	if option < 0 || option >= len(question.Options) {
		return false, fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}

	q.Selected = option
	q.LastCorrect = option == question.Correct
	if q.LastCorrect {
		q.Score++
		q.Ecosystem = q.Ecosystem.Add(QuizEcosystemGain)
	} else {
		q.Lives = loseLife(q.Lives)
	}
	return q.LastCorrect, nil
}

// Next moves to the following question. It returns true once the last
// question has been passed and the quiz is finished.
func (q *Quiz) Next() (bool, error) {
	if q.Finished {
		return true, ErrFinished
	}
	if !q.Answered() {
		return false, fmt.Errorf("%w: question %d", ErrNotAnswered, q.Index)
	}
	q.Selected = -1
	if q.Index+1 >= q.Total {
		q.Finished = true
		return true, nil
	}
	q.Index++
	return false, nil
}

// Water is the HUD water meter for the quiz scene.
func (q *Quiz) Water() meter.Meter {
	return meter.New(q.Score * 20)
}
