package memory

import (
	"context"
	"testing"
	"time"

	"github.com/csg33k/signup-desk/internal/domain"
)

func TestRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := New()

	ts := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"Jo Li", "Ann Lee", "Jo Li"} {
		rec := &domain.Record{Form: "registration", Timestamp: ts, Values: domain.Values{"full_name": name}}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatal(err)
		}
		if rec.ID != int64(i+1) {
			t.Errorf("append %d: ID = %d", i, rec.ID)
		}
	}
	if err := repo.Append(ctx, &domain.Record{Form: "courses", Values: domain.Values{}}); err != nil {
		t.Fatal(err)
	}

	list, err := repo.List(ctx, "registration")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[1].Values["full_name"] != "Ann Lee" || list[2].ID != 3 {
		t.Errorf("unexpected order: %+v", list)
	}

	n, err := repo.Count(ctx, "courses")
	if err != nil || n != 1 {
		t.Errorf("Count(courses) = %d, %v", n, err)
	}
	if n, _ := repo.Count(ctx, "unknown"); n != 0 {
		t.Errorf("Count(unknown) = %d", n)
	}
}

func TestRepository_RecordsAreImmutable(t *testing.T) {
	ctx := context.Background()
	repo := New()

	in := domain.Values{"full_name": "Jo Li"}
	if err := repo.Append(ctx, &domain.Record{Form: "f", Values: in}); err != nil {
		t.Fatal(err)
	}
	in["full_name"] = "changed after append"

	list, _ := repo.List(ctx, "f")
	list[0].Values["full_name"] = "changed after list"

	again, _ := repo.List(ctx, "f")
	if got := again[0].Values["full_name"]; got != "Jo Li" {
		t.Errorf("stored value = %q, want Jo Li", got)
	}
}

func TestRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := New()
	if err := repo.Append(ctx, &domain.Record{Form: "f"}); err == nil {
		t.Error("Append succeeded on canceled context")
	}
	if _, err := repo.List(ctx, "f"); err == nil {
		t.Error("List succeeded on canceled context")
	}
}
