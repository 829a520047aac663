package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/db"
	"github.com/testgen-lite/testgen/internal/session"
)

func openSQLiteStore(t *testing.T) *session.SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dsn := "file:" + filepath.Join(t.TempDir(), "sessions.db")
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return session.NewSQLStore(dbh)
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openSQLiteStore(t)

	idx := 1
	s := session.Session{
		ID:    "s1",
		Owner: "alice",
		Instances: assemble.Sequence{
			{QID: "Q1"},
			{QID: "QV", VariantIndex: &idx},
			{QID: "QP", Params: assemble.ParamValues{"n": int64(7)}},
		},
	}
	if err := st.Put(ctx, s); err != nil {
		t.Fatal(err)
	}

	got, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Owner != "alice" || len(got.Instances) != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.Instances[1].VariantIndex == nil || *got.Instances[1].VariantIndex != 1 {
		t.Errorf("variant index lost: %+v", got.Instances[1])
	}
	// JSON widens int64 to float64; that is fine as long as the value holds.
	if v := got.Instances[2].Params["n"]; v != float64(7) && v != int64(7) {
		t.Errorf("param n = %#v", v)
	}
}

func TestSQLStoreUpsert(t *testing.T) {
	ctx := context.Background()
	st := openSQLiteStore(t)

	s := session.Session{ID: "s1", Owner: "alice", Instances: assemble.Sequence{{QID: "Q1"}}}
	if err := st.Put(ctx, s); err != nil {
		t.Fatal(err)
	}
	s.Instances = append(s.Instances, assemble.Instance{QID: "Q2"})
	if err := st.Put(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Instances) != 2 {
		t.Fatalf("instances = %d, want 2", len(got.Instances))
	}
}

func TestSQLStoreMissAndDelete(t *testing.T) {
	ctx := context.Background()
	st := openSQLiteStore(t)

	if _, err := st.Get(ctx, "nope"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := st.Put(ctx, session.Session{ID: "s1", Owner: "alice", Instances: assemble.Sequence{}}); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, "s1"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreListByOwner(t *testing.T) {
	ctx := context.Background()
	st := openSQLiteStore(t)

	for _, s := range []session.Session{
		{ID: "s1", Owner: "alice", Instances: assemble.Sequence{}},
		{ID: "s2", Owner: "bob", Instances: assemble.Sequence{}},
		{ID: "s3", Owner: "alice", Instances: assemble.Sequence{}},
	} {
		if err := st.Put(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	list, err := st.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
}
