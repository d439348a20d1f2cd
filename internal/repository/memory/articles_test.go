package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arklim/article-service/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo *ArticleRepository) int64 {
	t.Helper()

	id, err := repo.Save(context.Background(), domain.NewArticle("t1", "c1", 1))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	return id
}

func TestArticleRepository_SaveAssignsIDs(t *testing.T) {
	repo := NewArticleRepository()

	first := seed(t, repo)
	second := seed(t, repo)
	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first, second)
	}

	articles, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(articles) != 2 || articles[0].ID != 1 || articles[1].ID != 2 {
		t.Fatalf("expected ordered articles, got %+v", articles)
	}
}

func TestArticleRepository_SaveUnknownWriter(t *testing.T) {
	repo := NewArticleRepository(1)

	_, err := repo.Save(context.Background(), domain.NewArticle("t1", "c1", -32))
	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestArticleRepository_Scenarios(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleRepository()
	id := seed(t, repo)

	if err := repo.Delete(ctx, 2, id); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("foreign delete: expected unauthorized, got %v", err)
	}
	if err := repo.Update(ctx, 2, id, domain.NewArticleUpdate(strPtr("x"), nil)); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("foreign update: expected unauthorized, got %v", err)
	}

	article, err := repo.GetByID(ctx, id)
	if err != nil || article.Title != "t1" || article.Content != "c1" {
		t.Fatalf("foreign caller changed the row: %+v %v", article, err)
	}

	if err := repo.Update(ctx, 1, id, domain.NewArticleUpdate(strPtr("t2"), nil)); err != nil {
		t.Fatalf("owner update returned error: %v", err)
	}
	article, _ = repo.GetByID(ctx, id)
	if article.Title != "t2" || article.Content != "c1" || article.WriterID != 1 {
		t.Fatalf("unexpected article after partial update: %+v", article)
	}

	if err := repo.Update(ctx, 1, id, domain.NewArticleUpdate(nil, nil)); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("empty update: expected invalid, got %v", err)
	}

	if err := repo.Delete(ctx, 1, id); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	for _, caller := range []int64{1, 2} {
		if err := repo.Delete(ctx, caller, 999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("missing id for caller %d: expected not found, got %v", caller, err)
		}
	}
}

func TestArticleRepository_ConcurrentDeleteSucceedsOnce(t *testing.T) {
	repo := NewArticleRepository()
	id := seed(t, repo)

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(caller int64) {
			defer wg.Done()
			if err := repo.Delete(context.Background(), caller, id); err == nil {
				successes.Add(1)
			}
		}(int64(i%2 + 1))
	}
	wg.Wait()

	if got := successes.Load(); got != 1 {
		t.Fatalf("expected exactly one successful delete, got %d", got)
	}
}

func TestArticleRepository_CanceledContext(t *testing.T) {
	repo := NewArticleRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.List(ctx); !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}
