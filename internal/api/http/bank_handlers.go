package http

import (
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/bank"
)

// questionView is the bank entry shape served to clients, with the display
// labels the filter surface needs.
type questionView struct {
	bank.QuestionDefinition
	Topic string `json:"topic"`
	Kind  string `json:"kind"`
}

func viewOf(q bank.QuestionDefinition) questionView {
	return questionView{QuestionDefinition: q, Topic: q.TopicLabel(), Kind: q.Kind()}
}

// ListQuestionsHandler serves the filtered bank plus the option sets the
// filter controls are built from. Repeated query params form each allowed
// set; an absent param leaves that field unrestricted.
func ListQuestionsHandler(b *bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		spec := bank.FilterSpec{
			Courses: q["course"],
			Kinds:   q["kind"],
			QTypes:  q["qtype"],
			Topics:  q["topic"],
			Search:  q.Get("q"),
		}
		matched := b.Filtered(spec)
		views := make([]questionView, 0, len(matched))
		for _, d := range matched {
			views = append(views, viewOf(d))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"questions": views,
			"topics":    b.Topics(),
			"courses":   b.Courses(),
			"qtypes":    b.QTypes(),
		})
	}
}

func GetQuestionHandler(b *bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := b.Lookup(chi.URLParam(r, "questionID"))
		if !ok {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(q))
	}
}

// PreviewQuestionHandler resolves the question with freshly drawn randomness
// that is not stored anywhere, for bank-side preview.
func PreviewQuestionHandler(b *bank.Store, src *assemble.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := b.Lookup(chi.URLParam(r, "questionID"))
		if !ok {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		var inst assemble.Instance
		var genErr error
		src.Do(func(rng *rand.Rand) {
			inst, genErr = assemble.Generate(q, rng)
		})
		if genErr != nil {
			http.Error(w, genErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		resolved, err := assemble.Resolve(q, inst)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"question": viewOf(q),
			"resolved": resolved,
		})
	}
}
