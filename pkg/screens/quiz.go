package screens

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrAnswered    = errors.New("question already answered")
	ErrNotAnswered = errors.New("answer the question first")
	ErrQuizOver    = errors.New("quiz is over")
	ErrBadOption   = errors.New("no such option")
)

// Quiz feedback and result lines.
const (
	FeedbackRight = "Correto! Você me conhece mesmo! ❤️"
	FeedbackWrong = "Ops! Quase lá, mas não era essa."
	ResultPerfect = "Incrível! Você acertou tudo! 💖 Sabe tudo sobre nós!"
	ResultPartial = "Você foi ótima! O importante é que cada dia aprendemos mais um sobre o outro."
)

type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

type Question struct {
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Quiz walks through the questions one at a time. An answer locks the question
// until Next is called. Not safe for concurrent use.
type Quiz struct {
	questions []Question
	current   int
	score     int
	answered  bool
	feedback  string
	done      bool
}

// LoadQuiz reads a JSON array of questions.
func LoadQuiz(r io.Reader) (*Quiz, error) {
	var qs []Question
	if err := json.NewDecoder(r).Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	return NewQuiz(qs)
}

func LoadQuizFile(path string) (*Quiz, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadQuiz(f)
}

// NewQuiz checks that every question has options and at least one right answer.
func NewQuiz(qs []Question) (*Quiz, error) {
	if len(qs) == 0 {
		return nil, errors.New("quiz has no questions")
	}
	for i, q := range qs {
		right := 0
		for _, o := range q.Options {
			if o.Correct {
				right++
			}
		}
		if len(q.Options) < 2 || right == 0 {
			return nil, fmt.Errorf("question %d needs at least two options and one correct answer", i+1)
		}
	}
	return &Quiz{questions: qs}, nil
}

// Current returns the question on screen and its 0-based position.
func (q *Quiz) Current() (Question, int, error) {
	if q.done {
		return Question{}, q.current, ErrQuizOver
	}
	return q.questions[q.current], q.current, nil
}

// Answer picks option i of the current question.
func (q *Quiz) Answer(i int) (bool, error) {
	switch {
	case q.done:
		return false, ErrQuizOver
	case q.answered:
		return false, ErrAnswered
	case i < 0 || i >= len(q.questions[q.current].Options):
		return false, ErrBadOption
	}
	q.answered = true
	right := q.questions[q.current].Options[i].Correct
	if right {
		q.score++
		q.feedback = FeedbackRight
	} else {
		q.feedback = FeedbackWrong
	}
	return right, nil
}

// Feedback is the line shown after an answer, empty before it.
func (q *Quiz) Feedback() string { return q.feedback }

// Next unlocks the following question, or ends the quiz after the last one.
func (q *Quiz) Next() error {
	if q.done {
		return ErrQuizOver
	}
	if !q.answered {
		return ErrNotAnswered
	}
	q.answered, q.feedback = false, ""
	if q.current+1 < len(q.questions) {
		q.current++
	} else {
		q.done = true
	}
	return nil
}

func (q *Quiz) Done() bool { return q.done }

// Score returns right answers and the number of questions.
func (q *Quiz) Score() (int, int) { return q.score, len(q.questions) }

// Result is the closing message.
func (q *Quiz) Result() string {
	if q.score == len(q.questions) {
		return ResultPerfect
	}
	return ResultPartial
}

func (q *Quiz) Restart() {
	q.current, q.score, q.answered, q.feedback, q.done = 0, 0, false, "", false
}
