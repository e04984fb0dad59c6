// Package form implements the three-field registration form that is typed
// into the preview window one keystroke at a time.
package form

import (
	"log/slog"
	"strconv"
)

// Key codes as reported by the preview window after masking with 0xFF.
const (
	KeyErase   = 8
	KeyConfirm = 13
	KeyCancel  = 27

	firstPrintable = 32
	lastPrintable  = 126
)

type Stage int

const (
	StageName Stage = iota
	StageAge
	StageEmail
)

func (s Stage) String() string {
	switch s {
	case StageName:
		return "name"
	case StageAge:
		return "age"
	case StageEmail:
		return "email"
	}
	return "unknown"
}

type Entry struct {
	Name  string
	Age   int
	Email string
}

// SubmitFunc commits a completed entry. The form is cleared only when it
// returns nil.
type SubmitFunc func(Entry) error

type Form struct {
	stage   Stage
	buffers [3][]byte
	submit  SubmitFunc
}

func New(submit SubmitFunc) *Form {
	return &Form{submit: submit}
}

func (f *Form) Stage() Stage { return f.stage }
func (f *Form) Name() string { return string(f.buffers[StageName]) }
func (f *Form) Age() string { return string(f.buffers[StageAge]) }
func (f *Form) Email() string { return string(f.buffers[StageEmail]) }
func (f *Form) Field(s Stage) string { return string(f.buffers[s]) }

// HandleKey feeds one key code into the form. It returns false when the
// cancel key was pressed and the caller should stop.
func (f *Form) HandleKey(key int) bool {
	switch {
	case key == KeyCancel:
		return false
	case key == KeyConfirm:
		f.confirm()
	case key == KeyErase:
		if buf := f.buffers[f.stage]; len(buf) > 0 {
			f.buffers[f.stage] = buf[:len(buf)-1]
		}
	case key >= firstPrintable && key <= lastPrintable:
		f.buffers[f.stage] = append(f.buffers[f.stage], byte(key))
	}
	return true
}

func (f *Form) confirm() {
	if f.stage != StageEmail {
		f.stage++
		return
	}

	entry, ok := f.entry()
	if !ok {
		return
	}
	if f.submit != nil {
		if err := f.submit(entry); err != nil {
			return
		}
	}
	f.Reset()
}

func (f *Form) entry() (Entry, bool) {
	name, age, email := f.Name(), f.Age(), f.Email()
	if name == "" || email == "" || !isDigits(age) {
		return Entry{}, false
	}
	n, err := strconv.Atoi(age)
	if err != nil {
		slog.Debug("Age out of range, entry not committed", "age", age, "error", err)
		return Entry{}, false
	}
	return Entry{Name: name, Age: n, Email: email}, true
}

func (f *Form) Reset() {
	f.stage = StageName
	for i := range f.buffers {
		f.buffers[i] = f.buffers[i][:0]
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
