package database

import (
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	cfg, err := ParseDSN("feedcore:pw@tcp(127.0.0.1:3306)/feedcore")
	require.NoError(t, err)
	assert.Equal(t, "feedcore", cfg.DBName)
	assert.Equal(t, defaultDialTimeout, cfg.Timeout)

	cfg, err = ParseDSN("feedcore:pw@tcp(127.0.0.1:3306)/feedcore?timeout=2s")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	_, err = ParseDSN("feedcore:pw@tcp(127.0.0.1:3306)/")
	assert.Error(t, err)

	_, err = ParseDSN("not a dsn")
	assert.Error(t, err)
}

func TestAutoMigrateCreatesEveryIndex(t *testing.T) {
	db := testutil.NewGormDB(t)
	require.NoError(t, AutoMigrate(db))
	// 重复迁移不应报错
	require.NoError(t, AutoMigrate(db))

	m := db.Migrator()
	assert.True(t, m.HasIndex(&model.Post{}, "idx_posts_user_created"))
	assert.True(t, m.HasIndex(&model.NewsFeed{}, "idx_news_feeds_user_created"))
	assert.True(t, m.HasIndex(&model.NewsFeed{}, "uk_news_feeds_user_post"))
	assert.True(t, m.HasIndex(&model.UserFollow{}, "idx_user_follows_following_created"))
	assert.True(t, m.HasIndex(&model.PostComment{}, "idx_post_comments_post_created"))
	assert.True(t, m.HasIndex(&model.Like{}, "idx_likes_post_id"))
}
