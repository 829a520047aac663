package http

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/auth"
	"github.com/testgen-lite/testgen/internal/bank"
	"github.com/testgen-lite/testgen/internal/rbac"
	"github.com/testgen-lite/testgen/internal/session"
)

// entryView is one resolved instance in a session response. Content is
// resolved fresh on every request; it is never cached server side.
type entryView struct {
	Index    int    `json:"index"`
	QID      string `json:"qid"`
	Topic    string `json:"topic"`
	Points   int    `json:"points"`
	Text     string `json:"text"`
	Solution string `json:"solution"`
	Error    string `json:"error,omitempty"`
}

type sessionView struct {
	ID        string      `json:"id"`
	Owner     string      `json:"owner"`
	Entries   []entryView `json:"entries"`
	CreatedAt int64       `json:"created_at"`
	UpdatedAt int64       `json:"updated_at"`
}

func sessionViewOf(b *bank.Store, s session.Session) sessionView {
	view := sessionView{ID: s.ID, Owner: s.Owner, Entries: []entryView{}, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
	for i, inst := range s.Instances {
		q, ok := b.Lookup(inst.QID)
		if !ok {
			// Stale id after a bank reload: keep the slot visible but empty.
			view.Entries = append(view.Entries, entryView{Index: i, QID: inst.QID, Error: "question no longer in bank"})
			continue
		}
		e := entryView{Index: i, QID: inst.QID, Topic: q.TopicLabel(), Points: q.Points}
		if resolved, err := assemble.Resolve(q, inst); err != nil {
			e.Error = err.Error()
		} else {
			e.Text = resolved.Text
			e.Solution = resolved.Solution
		}
		view.Entries = append(view.Entries, e)
	}
	return view
}

// fetchOwned loads the session and enforces ownership. Admins may touch any
// session; everyone else only their own.
func fetchOwned(w http.ResponseWriter, r *http.Request, st session.Store) (session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, err := st.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return session.Session{}, false
	}
	sub := auth.SubjectFromContext(r.Context())
	if s.Owner != sub && rbac.RoleFromContext(r.Context()) != "admin" {
		// Hide other users' sessions entirely.
		http.Error(w, "session not found", http.StatusNotFound)
		return session.Session{}, false
	}
	return s, true
}

func CreateSessionHandler(b *bank.Store, st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := session.Session{
			ID:        uuid.NewString(),
			Owner:     auth.SubjectFromContext(r.Context()),
			Instances: assemble.Sequence{},
			CreatedAt: time.Now().Unix(),
		}
		if err := st.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, sessionViewOf(b, s))
	}
}

func ListSessionsHandler(b *bank.Store, st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		list, err := st.ListByOwner(r.Context(), owner)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		views := make([]sessionView, 0, len(list))
		for _, s := range list {
			views = append(views, sessionViewOf(b, s))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func GetSessionHandler(b *bank.Store, st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sessionViewOf(b, s))
	}
}

// AppendQuestionsHandler adds one instance per requested id, drawing fresh
// randomness for each. Unknown ids are skipped; per-id generation failures
// are reported without failing the batch.
func AppendQuestionsHandler(b *bank.Store, st session.Store, src *assemble.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		var errs []error
		src.Do(func(rng *rand.Rand) {
			errs = s.Instances.Append(b, req.IDs, rng)
		})
		if err := st.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp := map[string]interface{}{"session": sessionViewOf(b, s)}
		if len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, e := range errs {
				msgs[i] = e.Error()
			}
			resp["errors"] = msgs
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// MoveInstanceHandler swaps an instance with its neighbor. Boundary and
// out-of-range moves are accepted no-ops.
func MoveInstanceHandler(b *bank.Store, st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Direction != "up" && req.Direction != "down" {
			http.Error(w, `direction must be "up" or "down"`, http.StatusBadRequest)
			return
		}
		i, ok := parseIndex(chi.URLParam(r, "index"))
		if !ok {
			http.Error(w, "bad index", http.StatusBadRequest)
			return
		}
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		if req.Direction == "up" {
			s.Instances.MoveUp(i)
		} else {
			s.Instances.MoveDown(i)
		}
		if err := st.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sessionViewOf(b, s))
	}
}

// RemoveInstanceHandler deletes the instance at the index. Out-of-range
// indices are accepted no-ops.
func RemoveInstanceHandler(b *bank.Store, st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := parseIndex(chi.URLParam(r, "index"))
		if !ok {
			http.Error(w, "bad index", http.StatusBadRequest)
			return
		}
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		s.Instances.Remove(i)
		if err := st.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sessionViewOf(b, s))
	}
}

// RegenerateInstanceHandler rerolls the variant index of the instance at the
// index. Questions without at least two variants are left untouched;
// parameter sets are never regenerated.
func RegenerateInstanceHandler(b *bank.Store, st session.Store, src *assemble.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := parseIndex(chi.URLParam(r, "index"))
		if !ok {
			http.Error(w, "bad index", http.StatusBadRequest)
			return
		}
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		if inst, ok := s.Instances.At(i); ok {
			if q, found := b.Lookup(inst.QID); found {
				src.Do(func(rng *rand.Rand) {
					assemble.Regenerate(q, &s.Instances[i], rng)
				})
			}
		}
		if err := st.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sessionViewOf(b, s))
	}
}

func DeleteSessionHandler(st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		if err := st.Delete(r.Context(), s.ID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ResetSessionHandler(b *bank.Store, st session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		s.Instances.Reset()
		if err := st.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sessionViewOf(b, s))
	}
}
