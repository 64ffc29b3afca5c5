package article

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-article-cms/internal/types"
)

func newArticleRepoWithMock(t *testing.T) (*PostgresArticleRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresArticleRepo(mockPool, slog.Default()), mockPool
}

var articleColumns = []string{
	"id", "title", "description", "published_at", "author_id",
	"created_at", "updated_at", "u_id", "u_email", "u_username",
}

func articleRow(a types.Article, author types.UserSummary) *pgxmock.Rows {
	return pgxmock.NewRows(articleColumns).
		AddRow(a.ID, a.Title, a.Description, a.PublishedAt, a.AuthorID,
			a.CreatedAt, a.UpdatedAt, author.ID, author.Email, author.Username)
}

func TestPostgresArticleRepoCreateArticle(t *testing.T) {
	ctx := context.Background()

	t.Run("ExplicitPublishedAt", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		authorID := uuid.New()
		publishedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		params := types.CreateArticleParams{
			Title:       "Hello",
			Description: "World",
			PublishedAt: &publishedAt,
		}

		returned := pgxmock.NewRows([]string{"id", "title", "description", "published_at", "author_id", "created_at", "updated_at"}).
			AddRow(uuid.New(), params.Title, params.Description, publishedAt, authorID, time.Now(), time.Now())
		mockPool.ExpectQuery(`INSERT INTO articles`).
			WithArgs(params.Title, params.Description, publishedAt, authorID, pgxmock.AnyArg()).
			WillReturnRows(returned)

		got, err := repo.CreateArticle(ctx, params, authorID)

		require.NoError(t, err)
		assert.Equal(t, "Hello", got.Title)
		assert.True(t, got.PublishedAt.Equal(publishedAt))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("PublishedAtDefaultsToNow", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		authorID := uuid.New()
		params := types.CreateArticleParams{Title: "Hello", Description: "World"}

		before := time.Now()
		returned := pgxmock.NewRows([]string{"id", "title", "description", "published_at", "author_id", "created_at", "updated_at"}).
			AddRow(uuid.New(), params.Title, params.Description, time.Now(), authorID, time.Now(), time.Now())
		mockPool.ExpectQuery(`INSERT INTO articles`).
			WithArgs(params.Title, params.Description, pgxmock.AnyArg(), authorID, pgxmock.AnyArg()).
			WillReturnRows(returned)

		got, err := repo.CreateArticle(ctx, params, authorID)

		require.NoError(t, err)
		assert.False(t, got.PublishedAt.Before(before.Add(-time.Second)))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresArticleRepoGetArticleByID(t *testing.T) {
	ctx := context.Background()

	t.Run("FoundWithAuthor", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		author := types.UserSummary{ID: uuid.New(), Email: "a@x.com", Username: "alice"}
		a := types.Article{ID: uuid.New(), Title: "Hello", AuthorID: author.ID, PublishedAt: time.Now()}

		mockPool.ExpectQuery(`SELECT (.+) FROM articles a\s+JOIN users u ON u.id = a.author_id WHERE a.id = \$1`).
			WithArgs(a.ID).
			WillReturnRows(articleRow(a, author))

		got, err := repo.GetArticleByID(ctx, a.ID)

		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		require.NotNil(t, got.Author)
		assert.Equal(t, "alice", got.Author.Username)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		id := uuid.New()
		mockPool.ExpectQuery(`SELECT (.+) WHERE a.id = \$1`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetArticleByID(ctx, id)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestBuildFilter(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		conditions, args := buildFilter(types.ArticleFilter{})
		assert.Empty(t, conditions)
		assert.Empty(t, args)
	})

	t.Run("TitleSubstring", func(t *testing.T) {
		conditions, args := buildFilter(types.ArticleFilter{Title: "go"})
		require.Len(t, conditions, 1)
		assert.Equal(t, "a.title LIKE '%' || $1 || '%'", conditions[0])
		assert.Equal(t, []interface{}{"go"}, args)
	})

	t.Run("AuthorID", func(t *testing.T) {
		id := uuid.New()
		conditions, args := buildFilter(types.ArticleFilter{AuthorID: &id})
		require.Len(t, conditions, 1)
		assert.Equal(t, "a.author_id = $1", conditions[0])
		assert.Equal(t, []interface{}{id}, args)
	})

	t.Run("FullRange", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		conditions, args := buildFilter(types.ArticleFilter{PublishedFrom: &from, PublishedTo: &to})
		require.Len(t, conditions, 1)
		assert.Equal(t, "a.published_at BETWEEN $1 AND $2", conditions[0])
		assert.Equal(t, []interface{}{from, to}, args)
	})

	t.Run("LoneLowerBoundCappedAtNow", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		conditions, args := buildFilter(types.ArticleFilter{PublishedFrom: &from})
		require.Len(t, conditions, 1)
		assert.Equal(t, "a.published_at BETWEEN $1 AND $2", conditions[0])
		require.Len(t, args, 2)
		assert.Equal(t, from, args[0])
		upper, ok := args[1].(time.Time)
		require.True(t, ok)
		assert.WithinDuration(t, time.Now(), upper, time.Minute)
	})

	t.Run("LoneUpperBoundAppliesNoConstraint", func(t *testing.T) {
		to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		conditions, args := buildFilter(types.ArticleFilter{PublishedTo: &to})
		assert.Empty(t, conditions)
		assert.Empty(t, args)
	})

	t.Run("CombinedPlaceholdersStaySequential", func(t *testing.T) {
		id := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		conditions, args := buildFilter(types.ArticleFilter{
			Title: "go", AuthorID: &id, PublishedFrom: &from, PublishedTo: &to,
		})
		require.Len(t, conditions, 3)
		assert.Equal(t, "a.title LIKE '%' || $1 || '%'", conditions[0])
		assert.Equal(t, "a.author_id = $2", conditions[1])
		assert.Equal(t, "a.published_at BETWEEN $3 AND $4", conditions[2])
		assert.Len(t, args, 4)
	})
}

func TestPostgresArticleRepoListArticles(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsAndTotal", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		mockPool.ExpectQuery(`SELECT COUNT\(\*\) FROM articles a`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

		author := types.UserSummary{ID: uuid.New(), Email: "a@x.com", Username: "alice"}
		a := types.Article{ID: uuid.New(), Title: "Hello", AuthorID: author.ID, PublishedAt: time.Now()}
		mockPool.ExpectQuery(`ORDER BY a.published_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 0).
			WillReturnRows(articleRow(a, author))

		got, err := repo.ListArticles(ctx, types.ArticleFilter{})

		require.NoError(t, err)
		assert.Equal(t, 42, got.Total)
		assert.Len(t, got.Items, 1)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("PageOffsetMath", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		mockPool.ExpectQuery(`SELECT COUNT\(\*\) FROM articles a`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
		mockPool.ExpectQuery(`LIMIT \$1 OFFSET \$2`).
			WithArgs(5, 10).
			WillReturnRows(pgxmock.NewRows(articleColumns))

		got, err := repo.ListArticles(ctx, types.ArticleFilter{Page: 3, Limit: 5})

		require.NoError(t, err)
		assert.Equal(t, 7, got.Total)
		assert.Empty(t, got.Items)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("FilterArgsPrecedePagination", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		authorID := uuid.New()
		mockPool.ExpectQuery(`SELECT COUNT\(\*\) FROM articles a WHERE a.title LIKE (.+) AND a.author_id = \$2`).
			WithArgs("go", authorID).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
		mockPool.ExpectQuery(`LIMIT \$3 OFFSET \$4`).
			WithArgs("go", authorID, 10, 0).
			WillReturnRows(pgxmock.NewRows(articleColumns))

		_, err := repo.ListArticles(ctx, types.ArticleFilter{Title: "go", AuthorID: &authorID})

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresArticleRepoUpdateArticle(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialUpdateBuildsOnlyProvidedColumns", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		articleID := uuid.New()
		title := "New title"
		mockPool.ExpectExec(`UPDATE articles SET title = \$1, updated_at = \$2 WHERE id = \$3`).
			WithArgs(title, pgxmock.AnyArg(), articleID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateArticle(ctx, articleID, types.UpdateArticleParams{Title: &title})

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("AllFields", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		articleID := uuid.New()
		title := "New title"
		description := "New description"
		publishedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		mockPool.ExpectExec(`UPDATE articles SET title = \$1, description = \$2, published_at = \$3, updated_at = \$4 WHERE id = \$5`).
			WithArgs(title, description, publishedAt, pgxmock.AnyArg(), articleID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateArticle(ctx, articleID, types.UpdateArticleParams{
			Title: &title, Description: &description, PublishedAt: &publishedAt,
		})

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NoFieldsIsANoOp", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		err := repo.UpdateArticle(ctx, uuid.New(), types.UpdateArticleParams{})

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ZeroRowsAffectedMeansNotFound", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		articleID := uuid.New()
		title := "New title"
		mockPool.ExpectExec(`UPDATE articles SET`).
			WithArgs(title, pgxmock.AnyArg(), articleID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateArticle(ctx, articleID, types.UpdateArticleParams{Title: &title})

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresArticleRepoDeleteArticle(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		articleID := uuid.New()
		mockPool.ExpectExec(`DELETE FROM articles WHERE id = \$1`).
			WithArgs(articleID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.DeleteArticle(ctx, articleID)

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("MissingArticle", func(t *testing.T) {
		repo, mockPool := newArticleRepoWithMock(t)

		articleID := uuid.New()
		mockPool.ExpectExec(`DELETE FROM articles WHERE id = \$1`).
			WithArgs(articleID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteArticle(ctx, articleID)

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
