package articles

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blulupo/portfolio/internal/app/models"
)

func newArticlesRepoWithMock(t *testing.T) (*PostgresArticlesRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresArticlesRepo(mockPool, slog.Default()), mockPool
}

func articleRows(ids ...int) *pgxmock.Rows {
	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "title", "content", "photo_article", "publish_status", "author_id", "username", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "Title", "Content", "default.jpg", true, uuid.New(), "alice", now, now)
	}
	return rows
}

func TestListPublished_FiltersOnStatus(t *testing.T) {
	repo, mockPool := newArticlesRepoWithMock(t)

	mockPool.ExpectQuery(`SELECT .+ FROM articles a\s+JOIN users u ON u\.id = a\.author_id\s+WHERE a\.publish_status = TRUE`).
		WillReturnRows(articleRows(1, 2))

	articles, err := repo.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.Equal(t, "alice", articles[0].AuthorName)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSetPublishStatus_MissingArticle(t *testing.T) {
	repo, mockPool := newArticlesRepoWithMock(t)

	mockPool.ExpectExec(`UPDATE articles SET publish_status`).
		WithArgs(true, 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetPublishStatus(context.Background(), 99, true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteArticle(t *testing.T) {
	repo, mockPool := newArticlesRepoWithMock(t)

	mockPool.ExpectExec(`DELETE FROM articles WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.DeleteArticle(context.Background(), 5))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
